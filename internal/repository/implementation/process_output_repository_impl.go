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

type ProcessOutputRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProcessOutputMapper
}

func NewProcessOutputRepository(db *gorm.DB) contract.ProcessOutputRepository {
	return &ProcessOutputRepositoryImpl{
		db:     db,
		mapper: mapper.NewProcessOutputMapper(),
	}
}

func (r *ProcessOutputRepositoryImpl) Create(ctx context.Context, output *entity.ProcessOutput) error {
	m, err := r.mapper.ToModel(output)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*output = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProcessOutputRepositoryImpl) DeleteByWorkspace(ctx context.Context, workspaceId string) error {
	return r.db.WithContext(ctx).Where("workspace_id = ?", workspaceId).Delete(&model.ProcessOutput{}).Error
}

func (r *ProcessOutputRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessOutput, error) {
	var models []*model.ProcessOutput
	query := applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByCreatedDesc), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProcessOutputRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.ProcessOutput{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
