package dto

import (
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/workspace"
)

type CreateWorkspaceRequest struct {
	AutoSelection *bool `json:"auto_selection"`
}

type SetAutoSelectionRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type ToggleProcessResponse struct {
	Selection []workspace.SelectedProcess `json:"selection"`
}

type UpdateStepConfigRequest struct {
	Model            string                   `json:"model"`
	TestType         string                   `json:"test_type"`
	AdvancedSettings *AdvancedSettingsRequest `json:"advanced_settings"`
}

type AdvancedSettingsRequest struct {
	MaxScenarios            int      `json:"maxScenarios" validate:"gte=1,lte=100"`
	IncludePrerequisites    bool     `json:"includePrerequisites"`
	IncludeDataRequirements bool     `json:"includeDataRequirements"`
	TestLevels              []string `json:"testLevels" validate:"dive,oneof=unit integration system acceptance"`
}

func (r *UpdateStepConfigRequest) ToStepConfig() pipeline.StepConfig {
	cfg := pipeline.StepConfig{Model: r.Model, TestType: r.TestType}
	if r.AdvancedSettings != nil {
		cfg.Advanced = &pipeline.AdvancedSettings{
			MaxScenarios:            r.AdvancedSettings.MaxScenarios,
			IncludePrerequisites:    r.AdvancedSettings.IncludePrerequisites,
			IncludeDataRequirements: r.AdvancedSettings.IncludeDataRequirements,
			TestLevels:              r.AdvancedSettings.TestLevels,
		}
	}
	return cfg
}
