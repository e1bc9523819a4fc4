package entity

import (
	"time"

	"github.com/google/uuid"
)

type ProcessOutput struct {
	Id          uuid.UUID
	WorkspaceId string
	ProcessId   string
	RunId       string
	ProcessType string
	Status      string
	Content     string
	Model       string
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}
