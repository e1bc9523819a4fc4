package model

import "time"

type ManagedFile struct {
	Id          string    `gorm:"type:varchar(64);primaryKey"`
	WorkspaceId string    `gorm:"type:varchar(64);not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Type        string    `gorm:"type:varchar(100);not null"`
	Size        int64     `gorm:"not null;default:0"`
	Payload     []byte    `gorm:"type:bytea"`
	UploadedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (ManagedFile) TableName() string {
	return "managed_files"
}
