package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/internal/repository/specification"
	"stlc-manager-be/internal/repository/unitofwork"
	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/workspace"

	"github.com/google/uuid"
)

type IFileService interface {
	Upload(ctx context.Context, workspaceId, fileType string, files []dto.UploadedFile) ([]*dto.FileResponse, error)
	List(ctx context.Context, workspaceId string) ([]*dto.FileResponse, error)
	Delete(ctx context.Context, workspaceId, fileId string) error
	SetProcesses(ctx context.Context, workspaceId, fileId string, req *dto.SetFileProcessesRequest) (*dto.FileResponse, error)
	UploadForProcess(ctx context.Context, workspaceId, processId, fileType string, files []dto.UploadedFile) ([]*dto.ProcessFileResponse, error)
	// Source returns the file source the runner resolves inputs from.
	Source(ws *workspace.Workspace) pipeline.FileSource
}

type fileService struct {
	uowFactory       unitofwork.RepositoryFactory
	workspaceService IWorkspaceService
	logger           logger.ILogger
	now              func() time.Time
}

func NewFileService(uowFactory unitofwork.RepositoryFactory, workspaceService IWorkspaceService, log logger.ILogger) IFileService {
	return &fileService{
		uowFactory:       uowFactory,
		workspaceService: workspaceService,
		logger:           log,
		now:              time.Now,
	}
}

// newFileID combines the upload time in milliseconds with a random suffix.
func newFileID(at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

func checkUpload(fileType string, files []dto.UploadedFile) error {
	if len(files) == 0 {
		return workspace.ErrNoFiles
	}
	if !catalog.IsDocumentType(fileType) {
		return fmt.Errorf("%w: %q", workspace.ErrInvalidDocumentType, fileType)
	}
	return nil
}

func toFileResponse(f *entity.ManagedFile, processIds []string) *dto.FileResponse {
	if processIds == nil {
		processIds = []string{}
	}
	return &dto.FileResponse{
		Id:         f.Id,
		Name:       f.Name,
		Type:       f.Type,
		Size:       f.Size,
		UploadDate: f.UploadedAt,
		ProcessIds: processIds,
	}
}

func (s *fileService) Upload(ctx context.Context, workspaceId, fileType string, files []dto.UploadedFile) ([]*dto.FileResponse, error) {
	if _, err := s.workspaceService.Get(ctx, workspaceId); err != nil {
		return nil, err
	}
	if err := checkUpload(fileType, files); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	result := make([]*dto.FileResponse, 0, len(files))
	for _, f := range files {
		at := s.now()
		file := &entity.ManagedFile{
			Id:          newFileID(at),
			WorkspaceId: workspaceId,
			Name:        f.Name,
			Type:        fileType,
			Size:        int64(len(f.Content)),
			Payload:     f.Content,
			UploadedAt:  at,
		}
		if err := uow.ManagedFileRepository().Create(ctx, file); err != nil {
			return nil, err
		}
		result = append(result, toFileResponse(file, nil))
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("FILES", "Files uploaded", map[string]interface{}{
		"workspace_id": workspaceId,
		"count":        len(result),
		"type":         fileType,
	})
	return result, nil
}

func (s *fileService) List(ctx context.Context, workspaceId string) ([]*dto.FileResponse, error) {
	if _, err := s.workspaceService.Get(ctx, workspaceId); err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	files, err := uow.ManagedFileRepository().FindAll(ctx,
		specification.ByWorkspace{WorkspaceID: workspaceId},
		specification.WithoutPayload{},
	)
	if err != nil {
		return nil, err
	}
	mappings, err := uow.FileProcessMappingRepository().FindAll(ctx, specification.ByWorkspace{WorkspaceID: workspaceId})
	if err != nil {
		return nil, err
	}

	byFile := make(map[string][]string)
	for _, m := range mappings {
		byFile[m.FileId] = append(byFile[m.FileId], m.ProcessId)
	}

	result := make([]*dto.FileResponse, 0, len(files))
	for _, f := range files {
		result = append(result, toFileResponse(f, byFile[f.Id]))
	}
	return result, nil
}

func (s *fileService) findFile(ctx context.Context, uow unitofwork.UnitOfWork, workspaceId, fileId string) (*entity.ManagedFile, error) {
	file, err := uow.ManagedFileRepository().FindOne(ctx,
		specification.ByID{ID: fileId},
		specification.ByWorkspace{WorkspaceID: workspaceId},
		specification.WithoutPayload{},
	)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("%w: %s", workspace.ErrFileNotFound, fileId)
	}
	return file, nil
}

// Delete removes a managed file, its mappings and any process-specific copy.
func (s *fileService) Delete(ctx context.Context, workspaceId, fileId string) error {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := s.findFile(ctx, uow, workspaceId, fileId); err != nil {
		return err
	}
	if err := uow.FileProcessMappingRepository().DeleteByFile(ctx, fileId); err != nil {
		return err
	}
	if err := uow.ManagedFileRepository().Delete(ctx, fileId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	ws.ForgetFile(fileId)
	s.logger.Info("FILES", "File deleted", map[string]interface{}{"workspace_id": workspaceId, "file_id": fileId})
	return nil
}

func (s *fileService) SetProcesses(ctx context.Context, workspaceId, fileId string, req *dto.SetFileProcessesRequest) (*dto.FileResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.ProcessIds))
	ids := make([]string, 0, len(req.ProcessIds))
	for _, pid := range req.ProcessIds {
		if !ws.Catalog().Contains(pid) {
			return nil, fmt.Errorf("%w: %s", workspace.ErrUnknownProcess, pid)
		}
		if !seen[pid] {
			seen[pid] = true
			ids = append(ids, pid)
		}
	}
	ids = ws.Catalog().SortByOrder(ids)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	file, err := s.findFile(ctx, uow, workspaceId, fileId)
	if err != nil {
		return nil, err
	}
	if err := uow.FileProcessMappingRepository().ReplaceForFile(ctx, workspaceId, fileId, ids); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return toFileResponse(file, ids), nil
}

// UploadForProcess keeps files in the workspace's process-specific list only.
func (s *fileService) UploadForProcess(ctx context.Context, workspaceId, processId, fileType string, files []dto.UploadedFile) ([]*dto.ProcessFileResponse, error) {
	ws, err := s.workspaceService.Get(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	if err := checkUpload(fileType, files); err != nil {
		return nil, err
	}

	added := make([]pipeline.File, 0, len(files))
	result := make([]*dto.ProcessFileResponse, 0, len(files))
	for _, f := range files {
		pf := pipeline.File{
			ID:      newFileID(s.now()),
			Name:    f.Name,
			Type:    fileType,
			Size:    int64(len(f.Content)),
			Content: f.Content,
		}
		added = append(added, pf)
		result = append(result, &dto.ProcessFileResponse{Id: pf.ID, Name: pf.Name, Type: pf.Type, Size: pf.Size})
	}
	if err := ws.AddProcessFiles(processId, added...); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *fileService) Source(ws *workspace.Workspace) pipeline.FileSource {
	return &workspaceFiles{uowFactory: s.uowFactory, ws: ws}
}

// workspaceFiles reads managed files from the database and direct uploads from the workspace.
type workspaceFiles struct {
	uowFactory unitofwork.RepositoryFactory
	ws         *workspace.Workspace
}

func toPipelineFiles(files []*entity.ManagedFile) []pipeline.File {
	out := make([]pipeline.File, 0, len(files))
	for _, f := range files {
		out = append(out, pipeline.File{ID: f.Id, Name: f.Name, Type: f.Type, Size: f.Size, Content: f.Payload})
	}
	return out
}

func (w *workspaceFiles) MappedFiles(ctx context.Context, processId string) ([]pipeline.File, error) {
	files, err := w.uowFactory.NewUnitOfWork(ctx).ManagedFileRepository().FindAll(ctx,
		specification.ByWorkspace{WorkspaceID: w.ws.ID()},
		specification.MappedToProcess{ProcessID: processId},
	)
	if err != nil {
		return nil, err
	}
	return toPipelineFiles(files), nil
}

func (w *workspaceFiles) ProcessFiles(_ context.Context, processId string) ([]pipeline.File, error) {
	return w.ws.ProcessFiles(processId), nil
}

func (w *workspaceFiles) ManagedFiles(ctx context.Context) ([]pipeline.File, error) {
	files, err := w.uowFactory.NewUnitOfWork(ctx).ManagedFileRepository().FindAll(ctx,
		specification.ByWorkspace{WorkspaceID: w.ws.ID()},
	)
	if err != nil {
		return nil, err
	}
	return toPipelineFiles(files), nil
}
