package selection

import (
	"stlc-manager-be/pkg/catalog"
)

type Origin string

const (
	Manual Origin = "manual"
	Auto   Origin = "auto"
)

// Selection maps every selected process id to the origin that put it there.
// The key set is the selection set.
type Selection map[string]Origin

func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Selection) OriginOf(id string) (Origin, bool) {
	o, ok := s[id]
	return o, ok
}

func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// IDs returns the selected ids in catalog order.
func (s Selection) IDs(c catalog.Catalog) []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return c.SortByOrder(ids)
}

// Infrastructure steps managed by the auto-selection heuristic.
var infrastructure = [2]string{catalog.TestPlanning, catalog.EnvironmentSetup}

func isInfrastructure(id string) bool {
	return id == infrastructure[0] || id == infrastructure[1]
}

type Engine struct {
	Catalog catalog.Catalog
}

func NewEngine(c catalog.Catalog) *Engine {
	return &Engine{Catalog: c}
}

// Toggle flips processID's membership and, when autoEnabled, applies the
// infrastructure auto-add/auto-remove rules. The input selection is not modified.
func (e *Engine) Toggle(sel Selection, processID string, autoEnabled bool) Selection {
	next := sel.Clone()
	if next.Has(processID) {
		delete(next, processID)
	} else {
		next[processID] = Manual
	}

	if !autoEnabled {
		return next
	}

	others := make([]string, 0, len(next))
	for id := range next {
		if !isInfrastructure(id) {
			others = append(others, id)
		}
	}

	caseA := contains(others, catalog.RequirementAnalysis) && next.Has(catalog.TestPlanning)
	caseB := !caseA && contains(others, catalog.TestScenarioGeneration) && next.Has(catalog.EnvironmentSetup)
	caseC := !caseA && !caseB && e.hasAdjacentPair(others)

	switch {
	case caseA:
		addAuto(next, catalog.EnvironmentSetup)
	case caseB:
		addAuto(next, catalog.TestPlanning)
	case caseC:
		addAuto(next, catalog.TestPlanning)
		addAuto(next, catalog.EnvironmentSetup)
	default:
		for _, id := range infrastructure {
			if next[id] == Auto {
				delete(next, id)
			}
		}
	}
	return next
}

// hasAdjacentPair reports whether any two ids sit next to each other in catalog order.
func (e *Engine) hasAdjacentPair(ids []string) bool {
	idx := make([]int, 0, len(ids))
	for _, id := range ids {
		if i := e.Catalog.IndexOf(id); i >= 0 {
			idx = append(idx, i)
		}
	}
	for i := 0; i < len(idx); i++ {
		for j := i + 1; j < len(idx); j++ {
			d := idx[i] - idx[j]
			if d == 1 || d == -1 {
				return true
			}
		}
	}
	return false
}

// addAuto selects id with Auto origin unless it is already selected.
func addAuto(sel Selection, id string) {
	if !sel.Has(id) {
		sel[id] = Auto
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
