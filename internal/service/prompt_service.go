package service

import (
	"context"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/pkg/backend"
	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/workspace"
)

// PromptBackend is the part of the analysis backend that stores and generates prompts.
type PromptBackend interface {
	GetPrompt(ctx context.Context, processID string) (string, error)
	SavePrompt(ctx context.Context, processID, text string) error
	GeneratePrompt(ctx context.Context, req backend.GeneratePromptRequest) (string, error)
	TestTypeDetails(ctx context.Context, testType string) (*backend.TestTypeDetails, error)
}

type IPromptService interface {
	Get(ctx context.Context, workspaceId, processId string) (*dto.PromptResponse, error)
	// Fetch loads the base prompt from the backend.
	Fetch(ctx context.Context, workspaceId, processId string) (*dto.PromptResponse, error)
	Save(ctx context.Context, workspaceId, processId, text string) (*dto.PromptResponse, error)
	Reset(ctx context.Context, workspaceId, processId string) (*dto.PromptResponse, error)
	Generate(ctx context.Context, workspaceId string, req *dto.GeneratePromptRequest) (*dto.PromptResponse, error)
	TestTypeDetails(ctx context.Context, testType string) (*backend.TestTypeDetails, error)
}

type promptService struct {
	backend          PromptBackend
	workspaceService IWorkspaceService
	logger           logger.ILogger
}

func NewPromptService(b PromptBackend, workspaceService IWorkspaceService, log logger.ILogger) IPromptService {
	return &promptService{
		backend:          b,
		workspaceService: workspaceService,
		logger:           log,
	}
}

func promptResponse(ws *workspace.Workspace, processId string) (*dto.PromptResponse, error) {
	state, err := ws.Prompt(processId)
	if err != nil {
		return nil, err
	}
	current, err := ws.CurrentPrompt(processId)
	if err != nil {
		return nil, err
	}
	return &dto.PromptResponse{ProcessId: processId, Current: current, State: state}, nil
}

func (s *promptService) Get(ctx context.Context, workspaceId, processId string) (*dto.PromptResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	return promptResponse(ws, processId)
}

func (s *promptService) Fetch(ctx context.Context, workspaceId, processId string) (*dto.PromptResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if err := checkProcess(ws, processId); err != nil {
		return nil, err
	}

	text, err := s.backend.GetPrompt(ctx, processId)
	if err != nil {
		s.logger.Warn("PROMPT", "Failed to fetch prompt", map[string]interface{}{"process_id": processId, "error": err.Error()})
		return nil, err
	}
	if err := ws.SetBasePrompt(processId, text); err != nil {
		return nil, err
	}
	return promptResponse(ws, processId)
}

// Save stores text on the backend first; the workspace keeps it verbatim only if that succeeds.
func (s *promptService) Save(ctx context.Context, workspaceId, processId, text string) (*dto.PromptResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if err := checkProcess(ws, processId); err != nil {
		return nil, err
	}

	if err := s.backend.SavePrompt(ctx, processId, text); err != nil {
		s.logger.Warn("PROMPT", "Failed to save prompt", map[string]interface{}{"process_id": processId, "error": err.Error()})
		return nil, err
	}
	if err := ws.SaveCustomPrompt(processId, text); err != nil {
		return nil, err
	}
	return promptResponse(ws, processId)
}

func (s *promptService) Reset(ctx context.Context, workspaceId, processId string) (*dto.PromptResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if _, err := ws.ResetPrompt(processId); err != nil {
		return nil, err
	}
	return promptResponse(ws, processId)
}

// Generate asks the backend for a scenario prompt and makes it the custom prompt of test-scenario-generation.
func (s *promptService) Generate(ctx context.Context, workspaceId string, req *dto.GeneratePromptRequest) (*dto.PromptResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}

	text, err := s.backend.GeneratePrompt(ctx, backend.GeneratePromptRequest{
		TestType:            req.TestType,
		TestCategory:        req.TestCategory,
		ScoringElements:     req.ScoringElements,
		InstructionElements: req.InstructionElements,
	})
	if err != nil {
		s.logger.Warn("PROMPT", "Prompt generation failed", map[string]interface{}{"test_type": req.TestType, "error": err.Error()})
		return nil, err
	}
	if err := ws.SetGeneratedPrompt(catalog.TestScenarioGeneration, text); err != nil {
		return nil, err
	}
	return promptResponse(ws, catalog.TestScenarioGeneration)
}

func (s *promptService) TestTypeDetails(ctx context.Context, testType string) (*backend.TestTypeDetails, error) {
	return s.backend.TestTypeDetails(ctx, testType)
}
