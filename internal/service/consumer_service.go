package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/workspace"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	// Wait blocks until every started run has returned.
	Wait()
}

type consumerService struct {
	subscriber       message.Subscriber
	topicName        string
	runner           *pipeline.Runner
	workspaceService IWorkspaceService
	fileService      IFileService
	logger           logger.ILogger
	wg               sync.WaitGroup
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	runner *pipeline.Runner,
	workspaceService IWorkspaceService,
	fileService IFileService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:       subscriber,
		topicName:        topicName,
		runner:           runner,
		workspaceService: workspaceService,
		fileService:      fileService,
		logger:           log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) Wait() {
	cs.wg.Wait()
}

// processMessage acks as soon as the command is understood; the run itself
// happens on its own goroutine so workspaces do not queue behind each other.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var cmd dto.RunCommand
	if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal run command", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	ws, err := cs.workspaceService.Get(ctx, cmd.WorkspaceId)
	if err != nil {
		if errors.Is(err, workspace.ErrWorkspaceNotFound) {
			cs.logger.Warn("CONSUMER", "Workspace gone before run started", map[string]interface{}{"run_id": cmd.RunId, "workspace_id": cmd.WorkspaceId})
		}
		msg.Ack()
		return
	}
	msg.Ack()

	// Runs outlive shutdown signals; Wait drains them.
	runCtx := context.WithoutCancel(ctx)
	cs.wg.Add(1)
	go func() {
		defer cs.wg.Done()
		cs.execute(runCtx, ws, cmd)
	}()
}

func (cs *consumerService) execute(ctx context.Context, ws *workspace.Workspace, cmd dto.RunCommand) {
	defer ws.FinishRun(cmd.RunId)

	job := pipeline.Job{
		RunID:       cmd.RunId,
		WorkspaceID: cmd.WorkspaceId,
		Files:       pipeline.NewFileResolver(cs.fileService.Source(ws)),
		Settings:    ws,
		Sink:        ws,
	}

	var summary pipeline.Summary
	switch cmd.Mode {
	case pipeline.ModeSingle:
		if len(cmd.ProcessIds) != 1 {
			cs.logger.Error("CONSUMER", "Single run needs exactly one process", map[string]interface{}{"run_id": cmd.RunId})
			return
		}
		summary = cs.runner.RunSingle(ctx, job, cmd.ProcessIds[0])
	default:
		summary = cs.runner.RunPipeline(ctx, job, cmd.ProcessIds)
	}

	details := map[string]interface{}{
		"run_id":       summary.RunID,
		"workspace_id": summary.WorkspaceID,
		"completed":    summary.Completed,
		"not_started":  summary.NotStarted,
	}
	if summary.Failed != "" {
		details["failed"] = summary.Failed
		details["error"] = summary.Error
		cs.logger.Warn("CONSUMER", "Run finished with failure", details)
		return
	}
	cs.logger.Info("CONSUMER", "Run finished", details)
}
