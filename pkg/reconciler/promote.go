package reconciler

import (
	"fmt"
	"slices"

	"github.com/Igorvich/huizen-holland/pkg/codes"
	"github.com/Igorvich/huizen-holland/pkg/index"
	"github.com/Igorvich/huizen-holland/pkg/provenance"
	"github.com/Igorvich/huizen-holland/pkg/records"
)

// promote replaces complete sibling sets on ambiguous records with their
// parent. Updated records are collected in pending. It returns the number
// of promotions.
func (w *workspace) promote(pending map[records.ID]records.Record) int {
	h := w.index.Hierarchy()
	promotions := 0

	for _, r := range w.store.Ambiguous() {
		if updated, ok := pending[r.ID]; ok {
			r = updated
		}
		if !r.Ambiguous() {
			continue
		}

		for _, parent := range w.index.CandidateMap(r).Ancestors() {
			group := h.Children(parent)
			if !w.promotable(r, parent, group) {
				continue
			}

			reason := fmt.Sprintf("%s promoted to %s", codes.Join(group), parent)
			for _, id := range w.index.Direct(group[0]).Sorted() {
				target, ok := pending[id]
				if !ok {
					var err error
					if target, err = w.store.Get(id); err != nil {
						continue
					}
				}
				target.Codes = substitute(target.Codes, group, parent)
				pending[id] = target
				w.track(target, provenance.StepPromote, reason)
			}
			w.index.Promote(parent)
			promotions++

			w.logger.Debug().
				Str("parent", parent.String()).
				Strs("children", codes.Strings(group)).
				Msg("Promoted sibling codes")

			r = pending[r.ID]
			if !r.Ambiguous() {
				break
			}
		}
	}
	return promotions
}

// promotable reports whether group, the complete child set of parent, can be
// replaced by parent on r. The siblings must form one duplicates group of r's
// candidate map and be borne directly by exactly the same records, parent
// must itself be borne by a record, and no area year that is reliable for
// every sibling may be unreliable for parent.
func (w *workspace) promotable(r records.Record, parent codes.Code, group []codes.Code) bool {
	if len(group) < 2 {
		return false
	}
	for _, g := range group {
		if !r.Has(g) {
			return false
		}
	}
	if !duplicated(w.index.CandidateMap(r), group) {
		return false
	}

	direct := w.index.Direct(group[0])
	if len(direct) == 0 {
		return false
	}
	for _, g := range group[1:] {
		if !w.index.Direct(g).Equal(direct) {
			return false
		}
	}

	if !w.index.Borne(parent) {
		return false
	}
	return w.areaSafe(parent, group)
}

// duplicated reports whether every member of group falls in the same
// duplicates group of cm.
func duplicated(cm index.CandidateMap, group []codes.Code) bool {
	duplicates, _ := cm.Partition()
	for _, d := range duplicates {
		if !slices.Contains(d, group[0]) {
			continue
		}
		for _, g := range group[1:] {
			if !slices.Contains(d, g) {
				return false
			}
		}
		return true
	}
	return false
}

// areaSafe reports whether using parent loses no reliable area year.
func (w *workspace) areaSafe(parent codes.Code, group []codes.Code) bool {
	for _, year := range w.areas.Years() {
		all := true
		for _, g := range group {
			if !w.areas.Reliable(g, year) {
				all = false
				break
			}
		}
		if all && !w.areas.Reliable(parent, year) {
			return false
		}
	}
	return true
}

// substitute replaces the members of group in cs with parent, placed at the
// position of the first member found.
func substitute(cs []codes.Code, group []codes.Code, parent codes.Code) []codes.Code {
	out := make([]codes.Code, 0, len(cs))
	placed := slices.Contains(cs, parent)
	for _, c := range cs {
		if !slices.Contains(group, c) {
			if c != parent || !slices.Contains(out, c) {
				out = append(out, c)
			}
			continue
		}
		if !placed {
			out = append(out, parent)
			placed = true
		}
	}
	return out
}
