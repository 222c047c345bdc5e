package provenance

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/Igorvich/huizen-holland/pkg/constants"
)

// Step names the engine operation that produced an event.
type Step string

// Engine steps that derive records.
const (
	StepLoad      Step = "load"
	StepPromote   Step = "promote"
	StepSplit     Step = "split"
	StepNormalize Step = "normalize"
)

// Event records one derivation of a record.
type Event struct {
	Record    string    `yaml:"record"`
	Parent    string    `yaml:"parent,omitempty"`
	Step      Step      `yaml:"step"`
	Tag       Tag       `yaml:"tag"`
	YearUsed  int       `yaml:"year_used,omitempty"`
	Codes     []string  `yaml:"codes"`
	Reason    string    `yaml:"reason,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Map holds the events of every record, keyed by record id.
type Map map[string][]Event

// Tracker collects derivation events during a reconciliation run.
type Tracker interface {
	// Track records an event for a record
	Track(e Event)

	// FindByRecord returns the events of one record, oldest first
	FindByRecord(id string) []Event

	// Lineage follows parent links from a record back to its source record
	Lineage(id string) []Event

	// Map returns a copy of all events
	Map() Map

	// Enabled reports whether events are being kept
	Enabled() bool

	// Clear removes all events
	Clear()
}

type tracker struct {
	events  Map
	enabled bool
}

// NewTracker creates a new tracker. A disabled tracker drops every event.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		events:  make(Map),
		enabled: enabled,
	}
}

// Track records an event.
func (p *tracker) Track(e Event) {
	if !p.enabled {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	p.events[e.Record] = append(p.events[e.Record], e)
}

// FindByRecord returns the events of one record.
func (p *tracker) FindByRecord(id string) []Event {
	if !p.enabled {
		return nil
	}
	return p.events[id]
}

// Lineage returns the newest event of id followed by the newest event of each
// ancestor record.
func (p *tracker) Lineage(id string) []Event {
	if !p.enabled {
		return nil
	}
	var out []Event
	seen := make(map[string]struct{})
	for id != "" {
		if _, loop := seen[id]; loop {
			break
		}
		seen[id] = struct{}{}
		events := p.events[id]
		if len(events) == 0 {
			break
		}
		last := events[len(events)-1]
		out = append(out, last)
		id = last.Parent
	}
	return out
}

// Map returns a copy of the events.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}
	result := make(Map, len(p.events))
	for k, v := range p.events {
		result[k] = slices.Clone(v)
	}
	return result
}

// Enabled reports whether the tracker keeps events.
func (p *tracker) Enabled() bool {
	return p.enabled
}

// Clear removes all events.
func (p *tracker) Clear() {
	p.events = make(Map)
}

// Report summarizes a provenance map.
type Report struct {
	Records int
	Events  int
	ByStep  map[Step]int
	ByTag   map[Tag]int
}

// GenerateReport counts events per step and per final tag.
func GenerateReport(m Map) *Report {
	r := &Report{
		ByStep: make(map[Step]int),
		ByTag:  make(map[Tag]int),
	}
	for _, events := range m {
		if len(events) == 0 {
			continue
		}
		r.Records++
		r.Events += len(events)
		for _, e := range events {
			r.ByStep[e.Step]++
		}
		r.ByTag[events[len(events)-1].Tag]++
	}
	return r
}

// String renders the report as plain text.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")
	fmt.Fprintf(&sb, "Records: %d\nEvents:  %d\n", r.Records, r.Events)

	steps := make([]string, 0, len(r.ByStep))
	for s := range r.ByStep {
		steps = append(steps, string(s))
	}
	sort.Strings(steps)
	if len(steps) > 0 {
		sb.WriteString("\nBy step:\n")
		for _, s := range steps {
			fmt.Fprintf(&sb, "  %-10s %d\n", s, r.ByStep[Step(s)])
		}
	}

	if len(r.ByTag) > 0 {
		sb.WriteString("\nBy tag:\n")
		for _, t := range Tags {
			if n := r.ByTag[t]; n > 0 {
				fmt.Fprintf(&sb, "  %-13s %d\n", t, n)
			}
		}
	}
	return sb.String()
}

// Audit returns one issue per event with an unknown tag or with a parent that
// has no events of its own.
func Audit(m Map) []string {
	var issues []string
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })

	for _, id := range ids {
		for _, e := range m[id] {
			if !e.Tag.Valid() {
				issues = append(issues, fmt.Sprintf("record %s: unknown tag %q", id, e.Tag))
			}
			if e.Parent != "" {
				if _, ok := m[e.Parent]; !ok {
					issues = append(issues, fmt.Sprintf("record %s: parent %s has no history", id, e.Parent))
				}
			}
		}
	}
	return issues
}

// lessID orders numeric ids numerically and everything else lexically.
func lessID(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}

// File is the on-disk form of a provenance map.
type File struct {
	RunID      string `yaml:"run_id,omitempty"`
	Provenance Map    `yaml:"provenance"`
}

// Save writes the map as YAML.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode provenance file: %w", err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return fmt.Errorf("failed to write provenance file: %w", err)
	}
	return nil
}

// Load reads provenance data from a YAML file.
// Returns nil, nil if the file doesn't exist (not an error).
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read provenance file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse provenance file: %w", err)
	}
	return &f, nil
}
