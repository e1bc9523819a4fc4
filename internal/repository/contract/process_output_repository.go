package contract

import (
	"context"

	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/repository/specification"
)

type ProcessOutputRepository interface {
	Create(ctx context.Context, output *entity.ProcessOutput) error
	DeleteByWorkspace(ctx context.Context, workspaceId string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessOutput, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
