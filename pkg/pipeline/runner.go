package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stlc-manager-be/pkg/catalog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultStepDelay = 500 * time.Millisecond

// Sink is the state owner the runner reports into.
type Sink interface {
	SetStatus(processID string, status Status)
	SetOutput(record OutputRecord)
}

// Settings supplies per-process configuration at step time.
type Settings interface {
	StepConfig(processID string) StepConfig
	CustomPrompt(processID string) string
}

type Mode string

const (
	ModePipeline Mode = "pipeline"
	ModeSingle   Mode = "single"
)

// Job binds a run to the workspace it reads from and writes into.
type Job struct {
	RunID       string
	WorkspaceID string
	Files       *FileResolver
	Settings    Settings
	Sink        Sink
}

type RunInfo struct {
	RunID       string `json:"run_id"`
	WorkspaceID string `json:"workspace_id"`
	Mode        Mode   `json:"mode"`
}

type Summary struct {
	RunInfo
	ProcessIDs []string          `json:"process_ids"`
	Statuses   map[string]Status `json:"statuses"`
	Completed  []string          `json:"completed"`
	Failed     string            `json:"failed,omitempty"`
	Error      string            `json:"error,omitempty"`
	NotStarted []string          `json:"not_started"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

func (s Summary) Succeeded() bool {
	return s.Failed == "" && len(s.NotStarted) == 0
}

// Observer is notified of every state change a run makes. Implementations must not block.
type Observer interface {
	RunStarted(info RunInfo, processIDs []string)
	StatusChanged(info RunInfo, processID string, status Status)
	OutputWritten(info RunInfo, record OutputRecord)
	RunFinished(summary Summary)
}

type Runner struct {
	catalog  catalog.Catalog
	registry *Registry
	delay    time.Duration
	observer Observer
	tracer   trace.Tracer
	now      func() time.Time
}

type Option func(*Runner)

func WithStepDelay(d time.Duration) Option {
	return func(r *Runner) { r.delay = d }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

func NewRunner(c catalog.Catalog, registry *Registry, opts ...Option) *Runner {
	r := &Runner{
		catalog:  c,
		registry: registry,
		delay:    DefaultStepDelay,
		observer: noopObserver{},
		tracer:   otel.Tracer("stlc-manager-be/pipeline"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Catalog() catalog.Catalog {
	return r.catalog
}

// RunPipeline executes ids sequentially in catalog order and stops at the first failing step.
// Step failures end up in the sink as error records; they are never returned.
func (r *Runner) RunPipeline(ctx context.Context, job Job, ids []string) Summary {
	ordered := r.catalog.SortByOrder(dedupe(ids))
	info := RunInfo{RunID: job.RunID, WorkspaceID: job.WorkspaceID, Mode: ModePipeline}

	ctx, span := r.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", job.RunID),
		attribute.String("workspace.id", job.WorkspaceID),
		attribute.Int("run.steps", len(ordered)),
	))
	defer span.End()

	summary := r.newSummary(info, ordered)
	for _, id := range ordered {
		r.setStatus(job, info, id, StatusPending)
		summary.Statuses[id] = StatusPending
	}
	r.observer.RunStarted(info, ordered)

	for i, id := range ordered {
		err := r.runStep(ctx, job, info, id)
		if err != nil {
			summary.Statuses[id] = StatusError
			summary.Failed = id
			summary.Error = err.Error()
			summary.NotStarted = append(summary.NotStarted, ordered[i+1:]...)
			span.SetStatus(codes.Error, fmt.Sprintf("step %s failed", id))
			break
		}
		summary.Statuses[id] = StatusCompleted
		summary.Completed = append(summary.Completed, id)

		if i < len(ordered)-1 && !r.pause(ctx) {
			summary.NotStarted = append(summary.NotStarted, ordered[i+1:]...)
			break
		}
	}

	return r.finish(summary)
}

// RunSingle executes one process outside a pipeline. It never touches other statuses.
func (r *Runner) RunSingle(ctx context.Context, job Job, id string) Summary {
	info := RunInfo{RunID: job.RunID, WorkspaceID: job.WorkspaceID, Mode: ModeSingle}
	summary := r.newSummary(info, []string{id})
	r.observer.RunStarted(info, []string{id})

	if err := r.runStep(ctx, job, info, id); err != nil {
		summary.Statuses[id] = StatusError
		summary.Failed = id
		summary.Error = err.Error()
	} else {
		summary.Statuses[id] = StatusCompleted
		summary.Completed = append(summary.Completed, id)
	}
	return r.finish(summary)
}

func (r *Runner) newSummary(info RunInfo, ids []string) Summary {
	return Summary{
		RunInfo:    info,
		ProcessIDs: ids,
		Statuses:   make(map[string]Status, len(ids)),
		Completed:  []string{},
		NotStarted: []string{},
		StartedAt:  r.now(),
	}
}

func (r *Runner) finish(s Summary) Summary {
	s.FinishedAt = r.now()
	r.observer.RunFinished(s)
	return s
}

// runStep drives one process from running to completed or error.
func (r *Runner) runStep(ctx context.Context, job Job, info RunInfo, id string) error {
	ctx, span := r.tracer.Start(ctx, "pipeline.step", trace.WithAttributes(
		attribute.String("process.id", id),
		attribute.String("run.mode", string(info.Mode)),
	))
	defer span.End()

	r.setStatus(job, info, id, StatusRunning)

	res, err := r.execute(ctx, job, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.writeOutput(job, info, OutputRecord{
			Content:     "Error: " + err.Error(),
			Status:      OutputError,
			ProcessType: r.catalog.DisplayName(id),
			ProcessID:   id,
			Timestamp:   Timestamp(r.now()),
		})
		r.setStatus(job, info, id, StatusError)
		return err
	}

	r.writeOutput(job, info, OutputRecord{
		Content:     res.Content,
		Status:      OutputCompleted,
		ProcessType: r.catalog.DisplayName(id),
		ProcessID:   id,
		Timestamp:   Timestamp(r.now()),
		Model:       res.Model,
	})
	r.setStatus(job, info, id, StatusCompleted)
	return nil
}

func (r *Runner) execute(ctx context.Context, job Job, id string) (res StepResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("process %s panicked: %v", id, p)
		}
	}()

	proc, ok := r.catalog.Find(id)
	if !ok {
		return StepResult{}, fmt.Errorf("unknown process %q", id)
	}
	if job.Files == nil {
		return StepResult{}, errors.New("no file source configured")
	}
	files, err := job.Files.Resolve(ctx, proc)
	if err != nil {
		return StepResult{}, fmt.Errorf("resolve files: %w", err)
	}
	if err := ValidateInputs(proc, files); err != nil {
		return StepResult{}, err
	}

	h, err := r.registry.Lookup(id)
	if err != nil {
		return StepResult{}, err
	}

	req := StepRequest{Process: proc, Files: files}
	if job.Settings != nil {
		req.Config = job.Settings.StepConfig(id)
		req.Prompt = job.Settings.CustomPrompt(id)
	}
	return h.Run(ctx, req)
}

// pause waits the pacing delay. It returns false when ctx ends first.
func (r *Runner) pause(ctx context.Context) bool {
	if r.delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (r *Runner) setStatus(job Job, info RunInfo, id string, s Status) {
	job.Sink.SetStatus(id, s)
	r.observer.StatusChanged(info, id, s)
}

func (r *Runner) writeOutput(job Job, info RunInfo, rec OutputRecord) {
	job.Sink.SetOutput(rec)
	r.observer.OutputWritten(info, rec)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type noopObserver struct{}

func (noopObserver) RunStarted(RunInfo, []string)          {}
func (noopObserver) StatusChanged(RunInfo, string, Status) {}
func (noopObserver) OutputWritten(RunInfo, OutputRecord)   {}
func (noopObserver) RunFinished(Summary)                   {}

// Observers fans every notification out to each member in order.
type Observers []Observer

func (o Observers) RunStarted(info RunInfo, ids []string) {
	for _, ob := range o {
		ob.RunStarted(info, ids)
	}
}

func (o Observers) StatusChanged(info RunInfo, id string, s Status) {
	for _, ob := range o {
		ob.StatusChanged(info, id, s)
	}
}

func (o Observers) OutputWritten(info RunInfo, rec OutputRecord) {
	for _, ob := range o {
		ob.OutputWritten(info, rec)
	}
}

func (o Observers) RunFinished(s Summary) {
	for _, ob := range o {
		ob.RunFinished(s)
	}
}
