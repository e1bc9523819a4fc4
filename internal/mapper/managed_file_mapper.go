package mapper

import (
	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/model"
)

type ManagedFileMapper struct{}

func NewManagedFileMapper() *ManagedFileMapper {
	return &ManagedFileMapper{}
}

func (m *ManagedFileMapper) ToEntity(f *model.ManagedFile) *entity.ManagedFile {
	if f == nil {
		return nil
	}
	return &entity.ManagedFile{
		Id:          f.Id,
		WorkspaceId: f.WorkspaceId,
		Name:        f.Name,
		Type:        f.Type,
		Size:        f.Size,
		Payload:     f.Payload,
		UploadedAt:  f.UploadedAt,
	}
}

func (m *ManagedFileMapper) ToModel(f *entity.ManagedFile) *model.ManagedFile {
	if f == nil {
		return nil
	}
	return &model.ManagedFile{
		Id:          f.Id,
		WorkspaceId: f.WorkspaceId,
		Name:        f.Name,
		Type:        f.Type,
		Size:        f.Size,
		Payload:     f.Payload,
		UploadedAt:  f.UploadedAt,
	}
}

func (m *ManagedFileMapper) ToEntities(files []*model.ManagedFile) []*entity.ManagedFile {
	entities := make([]*entity.ManagedFile, len(files))
	for i, f := range files {
		entities[i] = m.ToEntity(f)
	}
	return entities
}

func (m *ManagedFileMapper) MappingToEntity(fm *model.FileProcessMapping) *entity.FileProcessMapping {
	if fm == nil {
		return nil
	}
	return &entity.FileProcessMapping{
		FileId:      fm.FileId,
		ProcessId:   fm.ProcessId,
		WorkspaceId: fm.WorkspaceId,
	}
}

func (m *ManagedFileMapper) MappingsToEntities(mappings []*model.FileProcessMapping) []*entity.FileProcessMapping {
	entities := make([]*entity.FileProcessMapping, len(mappings))
	for i, fm := range mappings {
		entities[i] = m.MappingToEntity(fm)
	}
	return entities
}
