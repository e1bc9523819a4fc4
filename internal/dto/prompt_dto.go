package dto

import "stlc-manager-be/pkg/workspace"

type SavePromptRequest struct {
	Prompt *string `json:"prompt" validate:"required"`
}

type PromptResponse struct {
	ProcessId string                `json:"process_id"`
	Current   string                `json:"current"`
	State     workspace.PromptState `json:"state"`
}

type GeneratePromptRequest struct {
	TestType            string          `json:"test_type" validate:"required"`
	TestCategory        string          `json:"test_category"`
	ScoringElements     map[string]bool `json:"scoringElements"`
	InstructionElements map[string]bool `json:"instructionElements"`
}
