package service

import (
	"context"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/workspace"

	"github.com/google/uuid"
)

type IRunService interface {
	// RunPipeline validates the selection, claims the workspace and queues the run.
	RunPipeline(ctx context.Context, workspaceId string) (*dto.RunResponse, error)
	RunProcess(ctx context.Context, workspaceId, processId string) (*dto.RunResponse, error)
	Status(ctx context.Context, workspaceId string) (*dto.PipelineStatusResponse, error)
}

type runService struct {
	workspaceService IWorkspaceService
	fileService      IFileService
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewRunService(
	workspaceService IWorkspaceService,
	fileService IFileService,
	publisherService IPublisherService,
	log logger.ILogger,
) IRunService {
	return &runService{
		workspaceService: workspaceService,
		fileService:      fileService,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *runService) RunPipeline(ctx context.Context, workspaceId string) (*dto.RunResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	ids := ws.SelectedIDs()
	if len(ids) == 0 {
		return nil, workspace.ErrEmptySelection
	}
	if ws.ActiveRun() != "" {
		return nil, workspace.ErrRunInProgress
	}

	resolver := pipeline.NewFileResolver(s.fileService.Source(ws))
	if err := pipeline.ValidatePipeline(ctx, ws.Catalog(), resolver, ids); err != nil {
		return nil, err
	}

	runId := uuid.NewString()
	if err := ws.BeginPipeline(runId, ids); err != nil {
		return nil, err
	}
	return s.queue(ctx, ws, dto.RunCommand{RunId: runId, WorkspaceId: workspaceId, Mode: pipeline.ModePipeline, ProcessIds: ids})
}

func (s *runService) RunProcess(ctx context.Context, workspaceId, processId string) (*dto.RunResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if err := checkProcess(ws, processId); err != nil {
		return nil, err
	}
	if ws.ActiveRun() != "" {
		return nil, workspace.ErrRunInProgress
	}

	resolver := pipeline.NewFileResolver(s.fileService.Source(ws))
	if err := pipeline.ValidatePipeline(ctx, ws.Catalog(), resolver, []string{processId}); err != nil {
		return nil, err
	}

	runId := uuid.NewString()
	if err := ws.BeginSingle(runId, processId); err != nil {
		return nil, err
	}
	return s.queue(ctx, ws, dto.RunCommand{RunId: runId, WorkspaceId: workspaceId, Mode: pipeline.ModeSingle, ProcessIds: []string{processId}})
}

func (s *runService) queue(ctx context.Context, ws *workspace.Workspace, cmd dto.RunCommand) (*dto.RunResponse, error) {
	if err := s.publisherService.Publish(ctx, cmd); err != nil {
		ws.FinishRun(cmd.RunId)
		return nil, err
	}

	s.logger.Info("RUN", "Run queued", map[string]interface{}{
		"run_id":       cmd.RunId,
		"workspace_id": cmd.WorkspaceId,
		"mode":         string(cmd.Mode),
		"process_ids":  cmd.ProcessIds,
	})
	return &dto.RunResponse{
		RunId:      cmd.RunId,
		Mode:       cmd.Mode,
		ProcessIds: cmd.ProcessIds,
		Statuses:   ws.Statuses(),
	}, nil
}

func (s *runService) Status(ctx context.Context, workspaceId string) (*dto.PipelineStatusResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	active := ws.ActiveRun()
	return &dto.PipelineStatusResponse{
		ActiveRun: active,
		Running:   active != "",
		Statuses:  ws.Statuses(),
	}, nil
}
