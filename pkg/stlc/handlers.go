package stlc

import (
	"context"
	"errors"
	"time"

	"stlc-manager-be/pkg/backend"
	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/pipeline"
)

const (
	DefaultReviewModel   = "default"
	DefaultScenarioModel = "llama3.2"
	DefaultTestType      = "Functional Testing"
)

// DefaultAdvancedSettings is used for scenario generation when the workspace has none configured.
func DefaultAdvancedSettings() pipeline.AdvancedSettings {
	return pipeline.AdvancedSettings{
		MaxScenarios:            10,
		IncludePrerequisites:    true,
		IncludeDataRequirements: true,
		TestLevels:              []string{"unit", "integration", "system"},
	}
}

// Backend is the subset of the analysis backend the handlers call.
type Backend interface {
	CodeReview(ctx context.Context, files []backend.Upload, model string) (*backend.CodeReviewResult, error)
	RequirementAnalysis(ctx context.Context, files []backend.Upload, model, customPrompt string) (*backend.RequirementAnalysisResult, error)
	TestPlanning(ctx context.Context, files []backend.Upload) (*backend.TestPlanningResult, error)
	EnvironmentSetup(ctx context.Context, files []backend.Upload) (*backend.EnvironmentSetupResult, error)
	TestScenarioGeneration(ctx context.Context, req backend.ScenarioRequest) (*backend.ScenarioResult, error)
}

var ErrNoScenarioInput = errors.New("test scenario generation needs at least one input file")

// NewRegistry registers a handler for every process the backend implements.
// Every other catalog id falls back to the placeholder handler.
func NewRegistry(b Backend) *pipeline.Registry {
	reg := pipeline.NewRegistry(&Placeholder{})
	reg.Register(catalog.CodeReview, &CodeReviewHandler{Backend: b})
	reg.Register(catalog.RequirementAnalysis, &RequirementAnalysisHandler{Backend: b})
	reg.Register(catalog.TestPlanning, &TestPlanningHandler{Backend: b})
	reg.Register(catalog.EnvironmentSetup, &EnvironmentSetupHandler{Backend: b})
	reg.Register(catalog.TestScenarioGeneration, &ScenarioHandler{Backend: b})
	return reg
}

type CodeReviewHandler struct {
	Backend Backend
}

func (h *CodeReviewHandler) Run(ctx context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
	model := req.Config.Model
	if model == "" {
		model = DefaultReviewModel
	}
	res, err := h.Backend.CodeReview(ctx, uploads(req.Files), model)
	if err != nil {
		return pipeline.StepResult{}, err
	}
	return pipeline.StepResult{Content: FormatReviews(res.Reviews, req.Files), Model: model}, nil
}

type RequirementAnalysisHandler struct {
	Backend Backend
}

func (h *RequirementAnalysisHandler) Run(ctx context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
	res, err := h.Backend.RequirementAnalysis(ctx, uploads(req.Files), req.Config.Model, req.Prompt)
	if err != nil {
		return pipeline.StepResult{}, err
	}
	return pipeline.StepResult{Content: FormatAnalysis(res), Model: req.Config.Model}, nil
}

type TestPlanningHandler struct {
	Backend Backend
}

func (h *TestPlanningHandler) Run(ctx context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
	res, err := h.Backend.TestPlanning(ctx, uploads(req.Files))
	if err != nil {
		return pipeline.StepResult{}, err
	}
	return pipeline.StepResult{Content: res.Result}, nil
}

type EnvironmentSetupHandler struct {
	Backend Backend
}

func (h *EnvironmentSetupHandler) Run(ctx context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
	res, err := h.Backend.EnvironmentSetup(ctx, uploads(req.Files))
	if err != nil {
		return pipeline.StepResult{}, err
	}
	return pipeline.StepResult{Content: FormatSetups(res.Setups)}, nil
}

// ScenarioHandler sends the first resolved file together with the configured test type.
type ScenarioHandler struct {
	Backend Backend
}

func (h *ScenarioHandler) Run(ctx context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
	if len(req.Files) == 0 {
		return pipeline.StepResult{}, ErrNoScenarioInput
	}
	first := req.Files[0]

	model := req.Config.Model
	if model == "" {
		model = DefaultScenarioModel
	}
	testType := req.Config.TestType
	if testType == "" {
		testType = DefaultTestType
	}
	adv := DefaultAdvancedSettings()
	if req.Config.Advanced != nil {
		adv = *req.Config.Advanced
	}

	res, err := h.Backend.TestScenarioGeneration(ctx, backend.ScenarioRequest{
		File:         backend.ScenarioFile{Name: first.Name, Type: first.Type, Content: string(first.Content)},
		DocumentType: first.Type,
		TestType:     testType,
		Model:        model,
		AdvancedSettings: backend.AdvancedSettings{
			MaxScenarios:            adv.MaxScenarios,
			IncludePrerequisites:    adv.IncludePrerequisites,
			IncludeDataRequirements: adv.IncludeDataRequirements,
			TestLevels:              adv.TestLevels,
		},
	})
	if err != nil {
		return pipeline.StepResult{}, err
	}
	return pipeline.StepResult{Content: FormatScenarios(res.Scenarios), Model: model}, nil
}

// Placeholder synthesises output for processes without a backend. It never fails.
type Placeholder struct {
	Now func() time.Time
}

func (p *Placeholder) Run(_ context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return pipeline.StepResult{Content: FormatPlaceholder(req.Process.ID, now(), len(req.Files))}, nil
}

func uploads(files []pipeline.File) []backend.Upload {
	out := make([]backend.Upload, 0, len(files))
	for _, f := range files {
		out = append(out, backend.Upload{Name: f.Name, Type: f.Type, Content: f.Content})
	}
	return out
}
