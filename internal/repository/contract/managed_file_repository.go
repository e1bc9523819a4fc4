package contract

import (
	"context"

	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/repository/specification"
)

type ManagedFileRepository interface {
	Create(ctx context.Context, file *entity.ManagedFile) error
	Delete(ctx context.Context, id string) error
	DeleteByWorkspace(ctx context.Context, workspaceId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ManagedFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ManagedFile, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type FileProcessMappingRepository interface {
	// ReplaceForFile makes processIds the complete mapping of fileId.
	ReplaceForFile(ctx context.Context, workspaceId, fileId string, processIds []string) error
	DeleteByFile(ctx context.Context, fileId string) error
	DeleteByWorkspace(ctx context.Context, workspaceId string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileProcessMapping, error)
}
