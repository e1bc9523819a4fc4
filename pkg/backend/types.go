package backend

import (
	"encoding/json"
	"strings"
)

// Upload is one file sent to the backend.
type Upload struct {
	Name    string
	Type    string
	Content []byte
}

// Review is one code review entry. The backend sends either a plain string
// or an object with the reviewed files and the review text.
type Review struct {
	Files  string `json:"files,omitempty"`
	Review string `json:"review"`
}

func (r *Review) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Review{Review: s}
		return nil
	}
	var obj struct {
		Files  json.RawMessage `json:"files"`
		Review *string         `json:"review"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Review == nil {
		return malformed("review entry without review text")
	}
	*r = Review{Files: flattenStrings(obj.Files), Review: *obj.Review}
	return nil
}

type CodeReviewResult struct {
	Reviews []Review `json:"reviews"`
}

type AnalysisEntry struct {
	Files  string `json:"files"`
	Result string `json:"result"`
}

func (a *AnalysisEntry) UnmarshalJSON(data []byte) error {
	var obj struct {
		Files  json.RawMessage `json:"files"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*a = AnalysisEntry{Files: flattenStrings(obj.Files), Result: flattenStrings(obj.Result)}
	return nil
}

// RequirementAnalysisResult holds either structured entries or the raw result text.
type RequirementAnalysisResult struct {
	Analysis []AnalysisEntry `json:"analysis,omitempty"`
	Raw      string          `json:"raw,omitempty"`
}

type TestPlanningResult struct {
	Result string `json:"result"`
}

type EnvironmentSetupResult struct {
	Setups []string `json:"setups"`
}

type AdvancedSettings struct {
	MaxScenarios            int      `json:"maxScenarios"`
	IncludePrerequisites    bool     `json:"includePrerequisites"`
	IncludeDataRequirements bool     `json:"includeDataRequirements"`
	TestLevels              []string `json:"testLevels"`
}

type ScenarioFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type ScenarioRequest struct {
	File             ScenarioFile     `json:"file"`
	DocumentType     string           `json:"documentType"`
	TestType         string           `json:"testType"`
	Model            string           `json:"model"`
	AdvancedSettings AdvancedSettings `json:"advancedSettings"`
}

type Scenario struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Prerequisites []string `json:"prerequisites"`
	Steps         []string `json:"steps"`
}

type ScenarioResult struct {
	Scenarios []Scenario `json:"scenarios"`
}

type GeneratePromptRequest struct {
	TestType            string          `json:"test_type" validate:"required"`
	TestCategory        string          `json:"test_category"`
	ScoringElements     map[string]bool `json:"scoringElements"`
	InstructionElements map[string]bool `json:"instructionElements"`
}

type TestTypeDetails struct {
	TestPrompt          string                 `json:"test_prompt"`
	ScoringElements     map[string]interface{} `json:"test_scoring_elements_and_prompts"`
	InstructionElements map[string]interface{} `json:"test_instruction_elements_and_prompts"`
}

// flattenStrings renders a JSON string, string list or any other value as text.
func flattenStrings(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return string(raw)
}
