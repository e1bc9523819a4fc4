package dto

import (
	"time"

	"github.com/google/uuid"
)

type OutputHistoryItem struct {
	Id          uuid.UUID              `json:"id"`
	RunId       string                 `json:"run_id"`
	ProcessId   string                 `json:"processId"`
	ProcessType string                 `json:"processType"`
	Status      string                 `json:"status"`
	Content     string                 `json:"content"`
	Model       string                 `json:"model,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type OutputHistoryResponse struct {
	Items  []*OutputHistoryItem `json:"items"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}
