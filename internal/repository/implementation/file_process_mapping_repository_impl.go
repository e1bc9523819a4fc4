package implementation

import (
	"context"

	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/mapper"
	"stlc-manager-be/internal/model"
	"stlc-manager-be/internal/repository/contract"
	"stlc-manager-be/internal/repository/scope"
	"stlc-manager-be/internal/repository/specification"

	"gorm.io/gorm"
)

type FileProcessMappingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ManagedFileMapper
}

func NewFileProcessMappingRepository(db *gorm.DB) contract.FileProcessMappingRepository {
	return &FileProcessMappingRepositoryImpl{
		db:     db,
		mapper: mapper.NewManagedFileMapper(),
	}
}

func (r *FileProcessMappingRepositoryImpl) ReplaceForFile(ctx context.Context, workspaceId, fileId string, processIds []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("file_id = ?", fileId).Delete(&model.FileProcessMapping{}).Error; err != nil {
		return err
	}
	if len(processIds) == 0 {
		return nil
	}
	rows := make([]*model.FileProcessMapping, 0, len(processIds))
	for _, pid := range processIds {
		rows = append(rows, &model.FileProcessMapping{
			FileId:      fileId,
			ProcessId:   pid,
			WorkspaceId: workspaceId,
		})
	}
	return db.Create(&rows).Error
}

func (r *FileProcessMappingRepositoryImpl) DeleteByFile(ctx context.Context, fileId string) error {
	return r.db.WithContext(ctx).Where("file_id = ?", fileId).Delete(&model.FileProcessMapping{}).Error
}

func (r *FileProcessMappingRepositoryImpl) DeleteByWorkspace(ctx context.Context, workspaceId string) error {
	return r.db.WithContext(ctx).Where("workspace_id = ?", workspaceId).Delete(&model.FileProcessMapping{}).Error
}

func (r *FileProcessMappingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileProcessMapping, error) {
	var models []*model.FileProcessMapping
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Scopes(scope.OrderByCreatedAsc).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MappingsToEntities(models), nil
}
