package events

import (
	"encoding/json"
	"fmt"
	"time"

	"stlc-manager-be/pkg/pipeline"
)

const (
	TypePipelineStarted      = "PIPELINE_STARTED"
	TypeProcessStatusChanged = "PROCESS_STATUS_CHANGED"
	TypeProcessOutputWritten = "PROCESS_OUTPUT_WRITTEN"
	TypePipelineFinished     = "PIPELINE_FINISHED"
)

func runFields(info pipeline.RunInfo) map[string]interface{} {
	return map[string]interface{}{
		"run_id":       info.RunID,
		"workspace_id": info.WorkspaceID,
		"mode":         string(info.Mode),
	}
}

func PipelineStarted(info pipeline.RunInfo, processIDs []string, at time.Time) BaseEvent {
	data := runFields(info)
	data["process_ids"] = processIDs
	return BaseEvent{Type: TypePipelineStarted, Data: data, OccurredAt: at}
}

func ProcessStatusChanged(info pipeline.RunInfo, processID string, status pipeline.Status, at time.Time) BaseEvent {
	data := runFields(info)
	data["process_id"] = processID
	data["status"] = string(status)
	return BaseEvent{Type: TypeProcessStatusChanged, Data: data, OccurredAt: at}
}

// ProcessOutputWritten omits the content; consumers fetch it from the API.
func ProcessOutputWritten(info pipeline.RunInfo, rec pipeline.OutputRecord, at time.Time) BaseEvent {
	data := runFields(info)
	data["process_id"] = rec.ProcessID
	data["process_type"] = rec.ProcessType
	data["status"] = string(rec.Status)
	data["timestamp"] = rec.Timestamp
	return BaseEvent{Type: TypeProcessOutputWritten, Data: data, OccurredAt: at}
}

func PipelineFinished(s pipeline.Summary, at time.Time) (BaseEvent, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return BaseEvent{}, err
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return BaseEvent{}, err
	}
	data["succeeded"] = s.Succeeded()
	return BaseEvent{Type: TypePipelineFinished, Data: data, OccurredAt: at}, nil
}

// SummaryFrom decodes the payload of a PIPELINE_FINISHED event.
func SummaryFrom(e Event) (pipeline.Summary, error) {
	var s pipeline.Summary
	if e.EventType() != TypePipelineFinished {
		return s, fmt.Errorf("unexpected event type %s", e.EventType())
	}
	raw, err := json.Marshal(e.Payload())
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(raw, &s)
	return s, err
}
