package mapper

import (
	"encoding/json"

	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/model"

	"gorm.io/datatypes"
)

type ProcessOutputMapper struct{}

func NewProcessOutputMapper() *ProcessOutputMapper {
	return &ProcessOutputMapper{}
}

func (m *ProcessOutputMapper) ToEntity(o *model.ProcessOutput) *entity.ProcessOutput {
	if o == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(o.Metadata) > 0 {
		// Unreadable metadata is dropped rather than failing the whole listing.
		_ = json.Unmarshal(o.Metadata, &meta)
	}
	var modelName string
	if o.Model != nil {
		modelName = *o.Model
	}
	return &entity.ProcessOutput{
		Id:          o.Id,
		WorkspaceId: o.WorkspaceId,
		ProcessId:   o.ProcessId,
		RunId:       o.RunId,
		ProcessType: o.ProcessType,
		Status:      o.Status,
		Content:     o.Content,
		Model:       modelName,
		Metadata:    meta,
		CreatedAt:   o.CreatedAt,
	}
}

func (m *ProcessOutputMapper) ToModel(o *entity.ProcessOutput) (*model.ProcessOutput, error) {
	if o == nil {
		return nil, nil
	}
	var meta datatypes.JSON
	if len(o.Metadata) > 0 {
		raw, err := json.Marshal(o.Metadata)
		if err != nil {
			return nil, err
		}
		meta = datatypes.JSON(raw)
	}
	var modelName *string
	if o.Model != "" {
		s := o.Model
		modelName = &s
	}
	return &model.ProcessOutput{
		Id:          o.Id,
		WorkspaceId: o.WorkspaceId,
		ProcessId:   o.ProcessId,
		RunId:       o.RunId,
		ProcessType: o.ProcessType,
		Status:      o.Status,
		Content:     o.Content,
		Model:       modelName,
		Metadata:    meta,
		CreatedAt:   o.CreatedAt,
	}, nil
}

func (m *ProcessOutputMapper) ToEntities(outputs []*model.ProcessOutput) []*entity.ProcessOutput {
	entities := make([]*entity.ProcessOutput, len(outputs))
	for i, o := range outputs {
		entities[i] = m.ToEntity(o)
	}
	return entities
}
