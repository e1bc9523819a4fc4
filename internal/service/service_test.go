package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/internal/repository/memory"
	"stlc-manager-be/pkg/backend"
	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/workspace"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db         *memDB
	workspaces IWorkspaceService
	files      IFileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newMemDB()
	log := logger.NewNopLogger()
	workspaces := NewWorkspaceService(memory.NewWorkspaceRepository(time.Hour), db, catalog.Default(), true, log)
	return &fixture{
		db:         db,
		workspaces: workspaces,
		files:      NewFileService(db, workspaces, log),
	}
}

func (f *fixture) workspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	snap, err := f.workspaces.Create(context.Background(), nil)
	require.NoError(t, err)
	ws, err := f.workspaces.Get(context.Background(), snap.ID)
	require.NoError(t, err)
	return ws
}

func upload(name, content string) []dto.UploadedFile {
	return []dto.UploadedFile{{Name: name, Content: []byte(content)}}
}

func TestWorkspaceService_CreateGetDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	off := false
	snap, err := f.workspaces.Create(ctx, &dto.CreateWorkspaceRequest{AutoSelection: &off})
	require.NoError(t, err)
	assert.False(t, snap.AutoSelection)

	_, err = f.workspaces.Show(ctx, "missing")
	assert.ErrorIs(t, err, workspace.ErrWorkspaceNotFound)

	_, err = f.files.Upload(ctx, snap.ID, catalog.DocRequirement, upload("req.md", "x"))
	require.NoError(t, err)
	require.Len(t, f.db.files, 1)

	require.NoError(t, f.workspaces.Delete(ctx, snap.ID))
	assert.Empty(t, f.db.files)
	_, err = f.workspaces.Get(ctx, snap.ID)
	assert.ErrorIs(t, err, workspace.ErrWorkspaceNotFound)
}

func TestWorkspaceService_DeleteRefusedDuringRun(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	require.NoError(t, ws.BeginSingle("run-1", catalog.CodeReview))

	err := f.workspaces.Delete(context.Background(), ws.ID())
	assert.ErrorIs(t, err, workspace.ErrRunInProgress)
}

func TestWorkspaceService_ToggleAndConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ws := f.workspace(t)

	res, err := f.workspaces.Toggle(ctx, ws.ID(), catalog.CodeReview)
	require.NoError(t, err)
	require.Len(t, res.Selection, 1)
	assert.Equal(t, catalog.CodeReview, res.Selection[0].ID)

	_, err = f.workspaces.Toggle(ctx, ws.ID(), "unknown")
	assert.ErrorIs(t, err, workspace.ErrUnknownProcess)

	err = f.workspaces.SetStepConfig(ctx, ws.ID(), catalog.CodeReview, &dto.UpdateStepConfigRequest{Model: "gpt"})
	require.NoError(t, err)
	assert.Equal(t, "gpt", ws.StepConfig(catalog.CodeReview).Model)
}

func TestFileService_UploadValidatesType(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	ctx := context.Background()

	_, err := f.files.Upload(ctx, ws.ID(), "Memo", upload("a.txt", "x"))
	assert.ErrorIs(t, err, workspace.ErrInvalidDocumentType)

	_, err = f.files.Upload(ctx, ws.ID(), catalog.DocRequirement, nil)
	assert.ErrorIs(t, err, workspace.ErrNoFiles)

	res, err := f.files.Upload(ctx, ws.ID(), catalog.DocRequirement, upload("a.txt", "hello"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int64(5), res[0].Size)
	assert.Regexp(t, `^\d+-[0-9a-f]{8}$`, res[0].Id)
	assert.Equal(t, []string{}, res[0].ProcessIds)
}

func TestFileService_MappingListAndDelete(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	ctx := context.Background()

	res, err := f.files.Upload(ctx, ws.ID(), catalog.DocRequirement, upload("req.md", "r"))
	require.NoError(t, err)
	fileId := res[0].Id

	_, err = f.files.SetProcesses(ctx, ws.ID(), fileId, &dto.SetFileProcessesRequest{ProcessIds: []string{"nope"}})
	assert.ErrorIs(t, err, workspace.ErrUnknownProcess)

	_, err = f.files.SetProcesses(ctx, ws.ID(), "missing", &dto.SetFileProcessesRequest{ProcessIds: []string{catalog.TestPlanning}})
	assert.ErrorIs(t, err, workspace.ErrFileNotFound)

	mapped, err := f.files.SetProcesses(ctx, ws.ID(), fileId, &dto.SetFileProcessesRequest{
		ProcessIds: []string{catalog.TestPlanning, catalog.RequirementAnalysis, catalog.TestPlanning},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{catalog.RequirementAnalysis, catalog.TestPlanning}, mapped.ProcessIds)

	list, err := f.files.List(ctx, ws.ID())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.ElementsMatch(t, []string{catalog.RequirementAnalysis, catalog.TestPlanning}, list[0].ProcessIds)

	files, err := f.files.Source(ws).MappedFiles(ctx, catalog.TestPlanning)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, []byte("r"), files[0].Content)

	require.NoError(t, f.files.Delete(ctx, ws.ID(), fileId))
	assert.Empty(t, f.db.mappings)
	assert.ErrorIs(t, f.files.Delete(ctx, ws.ID(), fileId), workspace.ErrFileNotFound)
}

func TestFileService_UploadForProcess(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	ctx := context.Background()

	res, err := f.files.UploadForProcess(ctx, ws.ID(), catalog.TestPlanning, catalog.DocRequirementsAnalysis, upload("ra.md", "analysis"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Empty(t, f.db.files)

	direct := ws.ProcessFiles(catalog.TestPlanning)
	require.Len(t, direct, 1)
	assert.Equal(t, "ra.md", direct[0].Name)

	_, err = f.files.UploadForProcess(ctx, ws.ID(), "nope", catalog.DocRequirementsAnalysis, upload("x", "y"))
	assert.ErrorIs(t, err, workspace.ErrUnknownProcess)
}

type capturePublisher struct {
	mu       sync.Mutex
	commands []interface{}
	err      error
}

func (p *capturePublisher) Publish(ctx context.Context, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = append(p.commands, payload)
	return p.err
}

func TestRunService_ValidatesBeforeClaiming(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	ctx := context.Background()
	pub := &capturePublisher{}
	runs := NewRunService(f.workspaces, f.files, pub, logger.NewNopLogger())

	_, err := runs.RunPipeline(ctx, ws.ID())
	assert.ErrorIs(t, err, workspace.ErrEmptySelection)

	_, err = ws.Toggle(catalog.TestPlanning)
	require.NoError(t, err)

	_, err = runs.RunPipeline(ctx, ws.ID())
	var validation *pipeline.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, catalog.TestPlanning, validation.Missing[0].ProcessID)
	assert.Empty(t, ws.ActiveRun())
	assert.Empty(t, pub.commands)

	_, err = f.files.UploadForProcess(ctx, ws.ID(), catalog.TestPlanning, catalog.DocRequirementsAnalysis, upload("ra.md", "analysis"))
	require.NoError(t, err)

	_, err = runs.RunPipeline(ctx, ws.ID())
	require.ErrorAs(t, err, &validation)
	require.Len(t, validation.Missing, 1)
	assert.Equal(t, []string{catalog.DocCodeReviewReport}, validation.Missing[0].Inputs)
	assert.Empty(t, pub.commands)
}

func TestRunService_QueuesAndRejectsSecondRun(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	ctx := context.Background()
	pub := &capturePublisher{}
	runs := NewRunService(f.workspaces, f.files, pub, logger.NewNopLogger())

	_, err := ws.Toggle(catalog.CodeReview)
	require.NoError(t, err)

	res, err := runs.RunPipeline(ctx, ws.ID())
	require.NoError(t, err)
	assert.Equal(t, pipeline.ModePipeline, res.Mode)
	assert.Equal(t, pipeline.StatusPending, res.Statuses[catalog.CodeReview])
	assert.Equal(t, res.RunId, ws.ActiveRun())
	require.Len(t, pub.commands, 1)

	_, err = runs.RunProcess(ctx, ws.ID(), catalog.CodeReview)
	assert.ErrorIs(t, err, workspace.ErrRunInProgress)

	status, err := runs.Status(ctx, ws.ID())
	require.NoError(t, err)
	assert.True(t, status.Running)
}

func TestRunService_PublishFailureReleasesClaim(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	pub := &capturePublisher{err: errors.New("closed")}
	runs := NewRunService(f.workspaces, f.files, pub, logger.NewNopLogger())

	_, err := runs.RunProcess(context.Background(), ws.ID(), catalog.CodeReview)
	assert.Error(t, err)
	assert.Empty(t, ws.ActiveRun())
}

func TestConsumerService_ExecutesQueuedRun(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	log := logger.NewNopLogger()

	ctx, cancel := context.WithCancel(context.Background())
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	registry := pipeline.NewRegistry(pipeline.HandlerFunc(func(ctx context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
		return pipeline.StepResult{Content: "placeholder"}, nil
	}))
	registry.Register(catalog.CodeReview, pipeline.HandlerFunc(func(ctx context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
		return pipeline.StepResult{Content: "reviewed " + req.Files[0].Name, Model: "default"}, nil
	}))
	archive := NewOutputArchive(f.db, log)
	runner := pipeline.NewRunner(catalog.Default(), registry, pipeline.WithStepDelay(0), pipeline.WithObserver(archive))

	consumer := NewConsumerService(pubSub, "runs", runner, f.workspaces, f.files, log)
	require.NoError(t, consumer.Consume(ctx))

	_, err := f.files.Upload(context.Background(), ws.ID(), catalog.DocSourceCode, upload("main.go", "package main"))
	require.NoError(t, err)
	_, err = ws.Toggle(catalog.CodeReview)
	require.NoError(t, err)

	runs := NewRunService(f.workspaces, f.files, NewPublisherService(pubSub, "runs"), log)
	_, err = runs.RunPipeline(context.Background(), ws.ID())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return ws.ActiveRun() == "" }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, pipeline.StatusCompleted, ws.Statuses()[catalog.CodeReview])
	rec, ok := ws.Output(catalog.CodeReview)
	require.True(t, ok)
	assert.Equal(t, "reviewed main.go", rec.Content)

	outputs := NewOutputService(f.db, f.workspaces)
	require.Eventually(t, func() bool {
		h, err := outputs.History(context.Background(), ws.ID(), catalog.CodeReview, 10, 0)
		return err == nil && h.Total == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, pubSub.Close())
	consumer.Wait()
}

type fakePromptBackend struct {
	prompts map[string]string
	err     error
}

func (b *fakePromptBackend) GetPrompt(ctx context.Context, id string) (string, error) {
	return b.prompts[id], b.err
}

func (b *fakePromptBackend) SavePrompt(ctx context.Context, id, text string) error {
	if b.err != nil {
		return b.err
	}
	b.prompts[id] = text
	return nil
}

func (b *fakePromptBackend) GeneratePrompt(ctx context.Context, req backend.GeneratePromptRequest) (string, error) {
	return "generated for " + req.TestType, b.err
}

func (b *fakePromptBackend) TestTypeDetails(ctx context.Context, testType string) (*backend.TestTypeDetails, error) {
	return &backend.TestTypeDetails{TestPrompt: testType}, b.err
}

func TestPromptService_SaveResetRoundTrip(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	ctx := context.Background()
	b := &fakePromptBackend{prompts: map[string]string{catalog.RequirementAnalysis: "base prompt"}}
	prompts := NewPromptService(b, f.workspaces, logger.NewNopLogger())

	res, err := prompts.Fetch(ctx, ws.ID(), catalog.RequirementAnalysis)
	require.NoError(t, err)
	assert.Equal(t, "base prompt", res.Current)

	res, err = prompts.Save(ctx, ws.ID(), catalog.RequirementAnalysis, "  custom\n")
	require.NoError(t, err)
	assert.Equal(t, "  custom\n", res.Current)
	assert.Equal(t, "  custom\n", ws.CustomPrompt(catalog.RequirementAnalysis))

	res, err = prompts.Reset(ctx, ws.ID(), catalog.RequirementAnalysis)
	require.NoError(t, err)
	assert.Equal(t, "base prompt", res.Current)
	assert.Nil(t, res.State.Custom)

	_, err = prompts.Get(ctx, ws.ID(), "nope")
	assert.ErrorIs(t, err, workspace.ErrUnknownProcess)
}

func TestPromptService_BackendFailureLeavesWorkspaceUntouched(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	b := &fakePromptBackend{prompts: map[string]string{}, err: &backend.HTTPError{StatusCode: 500, Body: "down"}}
	prompts := NewPromptService(b, f.workspaces, logger.NewNopLogger())

	_, err := prompts.Save(context.Background(), ws.ID(), catalog.TestPlanning, "x")
	var httpErr *backend.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Empty(t, ws.CustomPrompt(catalog.TestPlanning))
}

func TestPromptService_GenerateBecomesCustomPrompt(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	prompts := NewPromptService(&fakePromptBackend{prompts: map[string]string{}}, f.workspaces, logger.NewNopLogger())

	res, err := prompts.Generate(context.Background(), ws.ID(), &dto.GeneratePromptRequest{TestType: "Security Testing"})
	require.NoError(t, err)
	assert.Equal(t, catalog.TestScenarioGeneration, res.ProcessId)
	assert.Equal(t, "generated for Security Testing", res.Current)
	require.NotNil(t, res.State.Generated)
	assert.Equal(t, "generated for Security Testing", ws.CustomPrompt(catalog.TestScenarioGeneration))
}

func TestOutputService_SampleFallbackAndHistoryPaging(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	ctx := context.Background()
	outputs := NewOutputService(f.db, f.workspaces)

	rec, err := outputs.Get(ctx, ws.ID(), catalog.TestClosure)
	require.NoError(t, err)
	assert.Equal(t, pipeline.OutputSample, rec.Status)

	_, err = outputs.Get(ctx, ws.ID(), "nope")
	assert.ErrorIs(t, err, workspace.ErrUnknownProcess)

	archive := NewOutputArchive(f.db, logger.NewNopLogger())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		archive.now = func() time.Time { return at }
		archive.OutputWritten(pipeline.RunInfo{RunID: "r", WorkspaceID: ws.ID(), Mode: pipeline.ModeSingle},
			pipeline.OutputRecord{ProcessID: catalog.TestClosure, Content: at.Format(time.Kitchen), Status: pipeline.OutputCompleted})
		require.Eventually(t, func() bool { return f.db.outputCount() == i+1 }, time.Second, 5*time.Millisecond)
	}

	page, err := outputs.History(ctx, ws.ID(), catalog.TestClosure, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "12:02AM", page.Items[0].Content)
	assert.Equal(t, "single", page.Items[0].Metadata["mode"])

	page, err = outputs.History(ctx, ws.ID(), catalog.TestClosure, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "12:00AM", page.Items[0].Content)
}

func TestConsumerService_ShutdownDrainsInFlightRun(t *testing.T) {
	f := newFixture(t)
	ws := f.workspace(t)
	log := logger.NewNopLogger()

	ctx, cancel := context.WithCancel(context.Background())
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	started := make(chan struct{})
	release := make(chan struct{})
	registry := pipeline.NewRegistry(pipeline.HandlerFunc(func(ctx context.Context, req pipeline.StepRequest) (pipeline.StepResult, error) {
		close(started)
		select {
		case <-release:
			return pipeline.StepResult{Content: "done"}, nil
		case <-ctx.Done():
			return pipeline.StepResult{}, ctx.Err()
		}
	}))
	runner := pipeline.NewRunner(catalog.Default(), registry, pipeline.WithStepDelay(0))

	consumer := NewConsumerService(pubSub, "runs", runner, f.workspaces, f.files, log)
	require.NoError(t, consumer.Consume(ctx))

	runs := NewRunService(f.workspaces, f.files, NewPublisherService(pubSub, "runs"), log)
	_, err := runs.RunProcess(context.Background(), ws.ID(), catalog.CodeReview)
	require.NoError(t, err)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("run never started")
	}

	cancel()
	require.NoError(t, pubSub.Close())

	drained := make(chan struct{})
	go func() {
		consumer.Wait()
		close(drained)
	}()
	close(release)

	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}
	assert.Equal(t, pipeline.StatusCompleted, ws.Statuses()[catalog.CodeReview])
	rec, ok := ws.Output(catalog.CodeReview)
	require.True(t, ok)
	assert.Equal(t, "done", rec.Content)
}
