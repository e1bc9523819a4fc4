package dto

import "stlc-manager-be/pkg/pipeline"

// RunCommand is the message published on the run topic.
type RunCommand struct {
	RunId       string        `json:"run_id"`
	WorkspaceId string        `json:"workspace_id"`
	Mode        pipeline.Mode `json:"mode"`
	ProcessIds  []string      `json:"process_ids"`
}

type RunResponse struct {
	RunId      string                     `json:"run_id"`
	Mode       pipeline.Mode              `json:"mode"`
	ProcessIds []string                   `json:"process_ids"`
	Statuses   map[string]pipeline.Status `json:"statuses"`
}

type PipelineStatusResponse struct {
	ActiveRun string                     `json:"active_run,omitempty"`
	Running   bool                       `json:"running"`
	Statuses  map[string]pipeline.Status `json:"statuses"`
}
