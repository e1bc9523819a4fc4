package model

import "time"

// FileProcessMapping is the side table linking a managed file to the processes that consume it.
type FileProcessMapping struct {
	FileId      string    `gorm:"type:varchar(64);primaryKey"`
	ProcessId   string    `gorm:"type:varchar(100);primaryKey"`
	WorkspaceId string    `gorm:"type:varchar(64);not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (FileProcessMapping) TableName() string {
	return "file_process_mappings"
}
