package service

import (
	"context"
	"time"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/internal/repository/specification"
	"stlc-manager-be/internal/repository/unitofwork"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/stlc"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type IOutputService interface {
	List(ctx context.Context, workspaceId string) (map[string]pipeline.OutputRecord, error)
	// Get falls back to the sample output while a process has never run.
	Get(ctx context.Context, workspaceId, processId string) (*pipeline.OutputRecord, error)
	History(ctx context.Context, workspaceId, processId string, limit, offset int) (*dto.OutputHistoryResponse, error)
}

type outputService struct {
	uowFactory       unitofwork.RepositoryFactory
	workspaceService IWorkspaceService
	now              func() time.Time
}

func NewOutputService(uowFactory unitofwork.RepositoryFactory, workspaceService IWorkspaceService) IOutputService {
	return &outputService{
		uowFactory:       uowFactory,
		workspaceService: workspaceService,
		now:              time.Now,
	}
}

func (s *outputService) List(ctx context.Context, workspaceId string) (map[string]pipeline.OutputRecord, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	return ws.Outputs(), nil
}

func (s *outputService) Get(ctx context.Context, workspaceId, processId string) (*pipeline.OutputRecord, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if err := checkProcess(ws, processId); err != nil {
		return nil, err
	}
	if rec, ok := ws.Output(processId); ok {
		return &rec, nil
	}
	rec := stlc.SampleOutput(ws.Catalog(), processId, s.now())
	return &rec, nil
}

func (s *outputService) History(ctx context.Context, workspaceId, processId string, limit, offset int) (*dto.OutputHistoryResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if err := checkProcess(ws, processId); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).ProcessOutputRepository()
	filters := []specification.Specification{
		specification.ByWorkspace{WorkspaceID: workspaceId},
		specification.ByProcess{ProcessID: processId},
	}

	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	outputs, err := repo.FindAll(ctx, append(filters, specification.Pagination{Limit: limit, Offset: offset})...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.OutputHistoryItem, 0, len(outputs))
	for _, o := range outputs {
		items = append(items, &dto.OutputHistoryItem{
			Id:          o.Id,
			RunId:       o.RunId,
			ProcessId:   o.ProcessId,
			ProcessType: o.ProcessType,
			Status:      o.Status,
			Content:     o.Content,
			Model:       o.Model,
			Metadata:    o.Metadata,
			CreatedAt:   o.CreatedAt,
		})
	}
	return &dto.OutputHistoryResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// OutputArchive stores every output record a run writes.
type OutputArchive struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	timeout    time.Duration
	now        func() time.Time
}

func NewOutputArchive(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *OutputArchive {
	return &OutputArchive{uowFactory: uowFactory, logger: log, timeout: 10 * time.Second, now: time.Now}
}

func (a *OutputArchive) RunStarted(pipeline.RunInfo, []string)                   {}
func (a *OutputArchive) StatusChanged(pipeline.RunInfo, string, pipeline.Status) {}
func (a *OutputArchive) RunFinished(pipeline.Summary)                            {}

func (a *OutputArchive) OutputWritten(info pipeline.RunInfo, rec pipeline.OutputRecord) {
	out := &entity.ProcessOutput{
		Id:          uuid.New(),
		WorkspaceId: info.WorkspaceID,
		ProcessId:   rec.ProcessID,
		RunId:       info.RunID,
		ProcessType: rec.ProcessType,
		Status:      string(rec.Status),
		Content:     rec.Content,
		Model:       rec.Model,
		Metadata: map[string]interface{}{
			"mode":      string(info.Mode),
			"timestamp": rec.Timestamp,
		},
		CreatedAt: a.now(),
	}
	go a.store(out)
}

func (a *OutputArchive) store(out *entity.ProcessOutput) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.uowFactory.NewUnitOfWork(ctx).ProcessOutputRepository().Create(ctx, out); err != nil {
		a.logger.Error("OUTPUT", "Failed to archive output", map[string]interface{}{
			"run_id":     out.RunId,
			"process_id": out.ProcessId,
			"error":      err.Error(),
		})
	}
}
