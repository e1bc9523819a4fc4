package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProcessOutput struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId string         `gorm:"type:varchar(64);not null;index:idx_process_outputs_ws_proc"`
	ProcessId   string         `gorm:"type:varchar(100);not null;index:idx_process_outputs_ws_proc"`
	RunId       string         `gorm:"type:varchar(64);index"`
	ProcessType string         `gorm:"type:varchar(255);not null"`
	Status      string         `gorm:"type:varchar(20);not null"`
	Content     string         `gorm:"type:text"`
	Model       *string        `gorm:"type:varchar(100)"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
}

func (ProcessOutput) TableName() string {
	return "process_outputs"
}
