package unitofwork

import (
	"context"

	"stlc-manager-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ManagedFileRepository() contract.ManagedFileRepository
	FileProcessMappingRepository() contract.FileProcessMappingRepository
	ProcessOutputRepository() contract.ProcessOutputRepository
}
