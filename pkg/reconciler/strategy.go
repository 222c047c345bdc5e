package reconciler

import (
	"strings"
)

// State is a phase of the reconciliation state machine.
type State string

// String returns the string representation of a state.
func (s State) String() string {
	return string(s)
}

// Name returns the state in title case with spaces.
func (s State) Name() string {
	words := strings.Split(s.String(), "-")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// StateScanning examines the ambiguous records of the store.
	StateScanning State = "scanning"
	// StatePromoting merges complete sibling sets into their parent.
	StatePromoting State = "promoting"
	// StateSplittingByHouses apportions by another year's house counts.
	StateSplittingByHouses State = "splitting-by-houses"
	// StateSplittingByArea apportions by declared area.
	StateSplittingByArea State = "splitting-by-area"
	// StateNormalizing pushes records down to leaf codes.
	StateNormalizing State = "normalizing"
	// StateConverged is terminal.
	StateConverged State = "converged"
)

// StrategyType identifies an apportionment strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

const (
	// StrategyTypeHouses splits by the house counts of a reference year.
	StrategyTypeHouses StrategyType = "by-houses"
	// StrategyTypeArea splits by declared area in the record's own year.
	StrategyTypeArea StrategyType = "by-area"
)

// State returns the splitting state the strategy runs in.
func (s StrategyType) State() State {
	if s == StrategyTypeArea {
		return StateSplittingByArea
	}
	return StateSplittingByHouses
}

// Toggle returns the other strategy.
func (s StrategyType) Toggle() StrategyType {
	if s == StrategyTypeHouses {
		return StrategyTypeArea
	}
	return StrategyTypeHouses
}
