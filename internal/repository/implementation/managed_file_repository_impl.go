package implementation

import (
	"context"
	"errors"

	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/mapper"
	"stlc-manager-be/internal/model"
	"stlc-manager-be/internal/repository/contract"
	"stlc-manager-be/internal/repository/scope"
	"stlc-manager-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ManagedFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ManagedFileMapper
}

func NewManagedFileRepository(db *gorm.DB) contract.ManagedFileRepository {
	return &ManagedFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewManagedFileMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ManagedFileRepositoryImpl) Create(ctx context.Context, file *entity.ManagedFile) error {
	m := r.mapper.ToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.ToEntity(m)
	return nil
}

func (r *ManagedFileRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ManagedFile{}).Error
}

func (r *ManagedFileRepositoryImpl) DeleteByWorkspace(ctx context.Context, workspaceId string) error {
	return r.db.WithContext(ctx).Where("workspace_id = ?", workspaceId).Delete(&model.ManagedFile{}).Error
}

func (r *ManagedFileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ManagedFile, error) {
	var m model.ManagedFile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ManagedFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ManagedFile, error) {
	var models []*model.ManagedFile
	query := applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByUploadedAsc), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ManagedFileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.ManagedFile{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
