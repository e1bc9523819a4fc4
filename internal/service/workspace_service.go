package service

import (
	"context"
	"fmt"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/internal/repository/memory"
	"stlc-manager-be/internal/repository/unitofwork"
	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/workspace"

	"github.com/google/uuid"
)

type IWorkspaceService interface {
	Create(ctx context.Context, req *dto.CreateWorkspaceRequest) (*workspace.Snapshot, error)
	Get(ctx context.Context, id string) (*workspace.Workspace, error)
	Show(ctx context.Context, id string) (*workspace.Snapshot, error)
	Delete(ctx context.Context, id string) error
	SetAutoSelection(ctx context.Context, id string, enabled bool) (*workspace.Snapshot, error)
	Toggle(ctx context.Context, id, processId string) (*dto.ToggleProcessResponse, error)
	SetStepConfig(ctx context.Context, id, processId string, req *dto.UpdateStepConfigRequest) error
}

type workspaceService struct {
	store                *memory.WorkspaceRepository
	uowFactory           unitofwork.RepositoryFactory
	catalog              catalog.Catalog
	autoSelectionDefault bool
	logger               logger.ILogger
}

func NewWorkspaceService(
	store *memory.WorkspaceRepository,
	uowFactory unitofwork.RepositoryFactory,
	c catalog.Catalog,
	autoSelectionDefault bool,
	log logger.ILogger,
) IWorkspaceService {
	s := &workspaceService{
		store:                store,
		uowFactory:           uowFactory,
		catalog:              c,
		autoSelectionDefault: autoSelectionDefault,
		logger:               log,
	}
	store.OnEvicted(s.purge)
	return s
}

// purge removes everything persisted for a workspace that left the store.
func (s *workspaceService) purge(workspaceId string) {
	ctx := context.Background()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		s.logger.Error("WORKSPACE", "Failed to begin purge", map[string]interface{}{"workspace_id": workspaceId, "error": err.Error()})
		return
	}
	defer uow.Rollback()

	if err := uow.FileProcessMappingRepository().DeleteByWorkspace(ctx, workspaceId); err != nil {
		s.logger.Error("WORKSPACE", "Failed to purge mappings", map[string]interface{}{"workspace_id": workspaceId, "error": err.Error()})
		return
	}
	if err := uow.ManagedFileRepository().DeleteByWorkspace(ctx, workspaceId); err != nil {
		s.logger.Error("WORKSPACE", "Failed to purge files", map[string]interface{}{"workspace_id": workspaceId, "error": err.Error()})
		return
	}
	if err := uow.ProcessOutputRepository().DeleteByWorkspace(ctx, workspaceId); err != nil {
		s.logger.Error("WORKSPACE", "Failed to purge outputs", map[string]interface{}{"workspace_id": workspaceId, "error": err.Error()})
		return
	}
	if err := uow.Commit(); err != nil {
		s.logger.Error("WORKSPACE", "Failed to commit purge", map[string]interface{}{"workspace_id": workspaceId, "error": err.Error()})
		return
	}
	s.logger.Info("WORKSPACE", "Workspace purged", map[string]interface{}{"workspace_id": workspaceId})
}

func (s *workspaceService) Create(ctx context.Context, req *dto.CreateWorkspaceRequest) (*workspace.Snapshot, error) {
	auto := s.autoSelectionDefault
	if req != nil && req.AutoSelection != nil {
		auto = *req.AutoSelection
	}
	ws := workspace.New(uuid.NewString(), s.catalog, auto)
	s.store.Save(ws)

	s.logger.Info("WORKSPACE", "Workspace created", map[string]interface{}{"workspace_id": ws.ID(), "auto_selection": auto})
	snap := ws.Snapshot()
	return &snap, nil
}

func (s *workspaceService) Get(ctx context.Context, id string) (*workspace.Workspace, error) {
	ws, ok := s.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", workspace.ErrWorkspaceNotFound, id)
	}
	return ws, nil
}

func (s *workspaceService) Show(ctx context.Context, id string) (*workspace.Snapshot, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	snap := ws.Snapshot()
	return &snap, nil
}

func (s *workspaceService) Delete(ctx context.Context, id string) error {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if ws.ActiveRun() != "" {
		return workspace.ErrRunInProgress
	}
	s.store.Delete(id)
	return nil
}

func (s *workspaceService) SetAutoSelection(ctx context.Context, id string, enabled bool) (*workspace.Snapshot, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ws.SetAutoSelection(enabled)
	snap := ws.Snapshot()
	return &snap, nil
}

func (s *workspaceService) Toggle(ctx context.Context, id, processId string) (*dto.ToggleProcessResponse, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ws.Toggle(processId); err != nil {
		return nil, err
	}
	return &dto.ToggleProcessResponse{Selection: ws.Snapshot().Selection}, nil
}

func (s *workspaceService) SetStepConfig(ctx context.Context, id, processId string, req *dto.UpdateStepConfigRequest) error {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return ws.SetStepConfig(processId, req.ToStepConfig())
}

func checkProcess(ws *workspace.Workspace, processId string) error {
	if !ws.Catalog().Contains(processId) {
		return fmt.Errorf("%w: %s", workspace.ErrUnknownProcess, processId)
	}
	return nil
}
