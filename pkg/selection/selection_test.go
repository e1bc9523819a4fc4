package selection

import (
	"math/rand"
	"sort"
	"testing"

	"stlc-manager-be/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthetic catalog: A(0), B(1), requirement-analysis(2), test-planning(3), C(4), environment-setup(5), D(6)
func syntheticEngine() *Engine {
	ids := []string{"A", "B", catalog.RequirementAnalysis, catalog.TestPlanning, "C", catalog.EnvironmentSetup, "D"}
	procs := make([]catalog.Process, len(ids))
	for i, id := range ids {
		procs[i] = catalog.Process{ID: id, Name: id}
	}
	return NewEngine(catalog.New(procs))
}

func TestToggle_AddsManualAndRemovesRegardlessOfOrigin(t *testing.T) {
	e := syntheticEngine()

	sel := e.Toggle(Selection{}, "A", true)
	assert.Equal(t, Selection{"A": Manual}, sel)

	sel = Selection{"A": Manual, catalog.TestPlanning: Auto}
	sel = e.Toggle(sel, catalog.TestPlanning, false)
	assert.False(t, sel.Has(catalog.TestPlanning))
	assert.Equal(t, Selection{"A": Manual}, sel)
}

func TestToggle_DoesNotMutateInput(t *testing.T) {
	e := syntheticEngine()
	in := Selection{"A": Manual}
	_ = e.Toggle(in, "B", true)
	assert.Equal(t, Selection{"A": Manual}, in)
}

func TestToggle_DisabledSkipsHeuristic(t *testing.T) {
	e := syntheticEngine()
	sel := e.Toggle(Selection{"A": Manual}, "B", false)
	assert.Equal(t, Selection{"A": Manual, "B": Manual}, sel)
}

func TestToggle_CaseA(t *testing.T) {
	e := syntheticEngine()

	sel := e.Toggle(Selection{}, catalog.RequirementAnalysis, true)
	assert.Equal(t, Selection{catalog.RequirementAnalysis: Manual}, sel, "single other process triggers nothing")

	sel = e.Toggle(sel, catalog.TestPlanning, true)
	assert.Equal(t, Selection{
		catalog.RequirementAnalysis: Manual,
		catalog.TestPlanning:        Manual,
		catalog.EnvironmentSetup:    Auto,
	}, sel)
}

func TestToggle_CaseB(t *testing.T) {
	e := NewEngine(catalog.Default())

	sel := Selection{catalog.EnvironmentSetup: Manual}
	sel = e.Toggle(sel, catalog.TestScenarioGeneration, true)
	assert.Equal(t, Selection{
		catalog.EnvironmentSetup:       Manual,
		catalog.TestScenarioGeneration: Manual,
		catalog.TestPlanning:           Auto,
	}, sel)
}

func TestToggle_CaseAShortCircuitsCaseB(t *testing.T) {
	e := NewEngine(catalog.Default())

	sel := Selection{
		catalog.RequirementAnalysis:    Manual,
		catalog.TestScenarioGeneration: Manual,
		catalog.EnvironmentSetup:       Manual,
	}
	sel = e.Toggle(sel, catalog.TestPlanning, true)
	assert.Equal(t, Manual, sel[catalog.TestPlanning])
	assert.Equal(t, Manual, sel[catalog.EnvironmentSetup])
	assert.Len(t, sel, 4)
}

func TestToggle_CaseCAdjacentPair(t *testing.T) {
	e := syntheticEngine()

	sel := e.Toggle(Selection{}, "A", true)
	sel = e.Toggle(sel, "B", true)
	assert.Equal(t, Selection{
		"A":                      Manual,
		"B":                      Manual,
		catalog.TestPlanning:     Auto,
		catalog.EnvironmentSetup: Auto,
	}, sel)
}

func TestToggle_CaseCConsidersAllPairs(t *testing.T) {
	e := syntheticEngine()

	// D and A are not adjacent; adding B pairs with A.
	sel := Selection{"D": Manual, "A": Manual}
	sel = e.Toggle(sel, "B", true)
	assert.Equal(t, Auto, sel[catalog.TestPlanning])
	assert.Equal(t, Auto, sel[catalog.EnvironmentSetup])
}

func TestToggle_CaseCSkipsPresentInfrastructure(t *testing.T) {
	e := syntheticEngine()

	sel := Selection{"A": Manual, catalog.EnvironmentSetup: Manual}
	sel = e.Toggle(sel, "B", true)
	assert.Equal(t, Manual, sel[catalog.EnvironmentSetup])
	assert.Equal(t, Auto, sel[catalog.TestPlanning])
}

func TestToggle_CleanupRemovesOnlyAutoInfrastructure(t *testing.T) {
	e := syntheticEngine()

	sel := Selection{
		"A":                      Manual,
		"B":                      Manual,
		catalog.TestPlanning:     Auto,
		catalog.EnvironmentSetup: Manual,
	}
	sel = e.Toggle(sel, "B", true)
	assert.Equal(t, Selection{"A": Manual, catalog.EnvironmentSetup: Manual}, sel)
}

func TestToggle_CleanupAfterAdjacencyLost(t *testing.T) {
	e := syntheticEngine()

	sel := e.Toggle(Selection{}, "A", true)
	sel = e.Toggle(sel, "B", true)
	require.Len(t, sel, 4)

	sel = e.Toggle(sel, "B", true)
	assert.Equal(t, Selection{"A": Manual}, sel)
}

func TestToggle_ManualInfrastructureSurvivesCleanup(t *testing.T) {
	e := syntheticEngine()

	sel := e.Toggle(Selection{}, catalog.TestPlanning, true)
	sel = e.Toggle(sel, "A", true)
	sel = e.Toggle(sel, "B", true)
	require.Equal(t, Selection{
		"A":                      Manual,
		"B":                      Manual,
		catalog.TestPlanning:     Manual,
		catalog.EnvironmentSetup: Auto,
	}, sel)

	sel = e.Toggle(sel, "A", true)
	assert.Equal(t, Selection{"B": Manual, catalog.TestPlanning: Manual}, sel)
}

func TestToggle_RemovingAutoInfrastructureWhileAdjacencyHoldsReaddsIt(t *testing.T) {
	e := syntheticEngine()

	sel := e.Toggle(Selection{}, "A", true)
	sel = e.Toggle(sel, "B", true)
	sel = e.Toggle(sel, catalog.TestPlanning, true)
	assert.Equal(t, Auto, sel[catalog.TestPlanning])
}

func TestIDs_CatalogOrder(t *testing.T) {
	c := catalog.Default()
	sel := Selection{
		catalog.TestClosure:         Manual,
		catalog.CodeReview:          Manual,
		catalog.RequirementAnalysis: Auto,
	}
	assert.Equal(t, []string{catalog.CodeReview, catalog.RequirementAnalysis, catalog.TestClosure}, sel.IDs(c))
}

func TestToggle_OriginKeysMatchSelectionUnderRandomSequences(t *testing.T) {
	c := catalog.Default()
	e := NewEngine(c)
	ids := make([]string, 0)
	for _, p := range c.All() {
		ids = append(ids, p.ID)
	}

	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		sel := Selection{}
		auto := true
		for step := 0; step < 40; step++ {
			if rng.Intn(10) == 0 {
				auto = !auto
			}
			id := ids[rng.Intn(len(ids))]
			before := sel.Has(id)
			sel = e.Toggle(sel, id, auto)

			if !isInfrastructure(id) {
				assert.Equal(t, !before, sel.Has(id), "toggled id flips membership")
				if !before {
					assert.Equal(t, Manual, sel[id])
				}
			}
			for k, o := range sel {
				assert.True(t, o == Manual || o == Auto, "origin of %s", k)
				assert.True(t, c.Contains(k))
			}
			keys := sel.IDs(c)
			assert.True(t, sort.SliceIsSorted(keys, func(i, j int) bool {
				return c.IndexOf(keys[i]) < c.IndexOf(keys[j])
			}))
			assert.Len(t, keys, len(sel))
		}
	}
}
