package workspace

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"stlc-manager-be/pkg/catalog"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/selection"
)

var (
	ErrRunInProgress  = errors.New("a run is already in progress")
	ErrUnknownProcess = errors.New("unknown process")
	ErrEmptySelection = errors.New("no process selected")

	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrFileNotFound      = errors.New("file not found")

	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrNoFiles             = errors.New("no files provided")
)

// Workspace owns the state of one STLC session. All mutation goes through its methods.
type Workspace struct {
	mu sync.RWMutex

	id        string
	createdAt time.Time
	catalog   catalog.Catalog
	engine    *selection.Engine

	selection     selection.Selection
	autoSelection bool
	statuses      map[string]pipeline.Status
	outputs       map[string]pipeline.OutputRecord
	processFiles  map[string][]pipeline.File
	configs       map[string]pipeline.StepConfig
	prompts       map[string]*PromptState
	activeRun     string
}

func New(id string, c catalog.Catalog, autoSelection bool) *Workspace {
	return &Workspace{
		id:            id,
		createdAt:     time.Now(),
		catalog:       c,
		engine:        selection.NewEngine(c),
		selection:     selection.Selection{},
		autoSelection: autoSelection,
		statuses:      make(map[string]pipeline.Status),
		outputs:       make(map[string]pipeline.OutputRecord),
		processFiles:  make(map[string][]pipeline.File),
		configs:       make(map[string]pipeline.StepConfig),
		prompts:       make(map[string]*PromptState),
	}
}

func (w *Workspace) ID() string {
	return w.id
}

func (w *Workspace) Catalog() catalog.Catalog {
	return w.catalog
}

func (w *Workspace) checkProcess(id string) error {
	if !w.catalog.Contains(id) {
		return fmt.Errorf("%w: %s", ErrUnknownProcess, id)
	}
	return nil
}

// Toggle applies one selection transition and returns the new selection.
func (w *Workspace) Toggle(processID string) (selection.Selection, error) {
	if err := w.checkProcess(processID); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection = w.engine.Toggle(w.selection, processID, w.autoSelection)
	return w.selection.Clone(), nil
}

func (w *Workspace) SetAutoSelection(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autoSelection = enabled
}

func (w *Workspace) AutoSelection() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.autoSelection
}

func (w *Workspace) Selection() selection.Selection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selection.Clone()
}

// SelectedIDs returns the selection in catalog order.
func (w *Workspace) SelectedIDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selection.IDs(w.catalog)
}

// BeginPipeline claims the workspace for a pipeline run and resets ids to pending.
func (w *Workspace) BeginPipeline(runID string, ids []string) error {
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	for _, id := range ids {
		if err := w.checkProcess(id); err != nil {
			return err
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.busyLocked(); err != nil {
		return err
	}
	w.activeRun = runID
	for _, id := range ids {
		w.statuses[id] = pipeline.StatusPending
	}
	return nil
}

// BeginSingle claims the workspace for a standalone run of one process.
func (w *Workspace) BeginSingle(runID, processID string) error {
	if err := w.checkProcess(processID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.busyLocked(); err != nil {
		return err
	}
	w.activeRun = runID
	return nil
}

// FinishRun releases the claim held by runID. Other run ids are ignored.
func (w *Workspace) FinishRun(runID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.activeRun == runID {
		w.activeRun = ""
	}
}

func (w *Workspace) ActiveRun() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeRun
}

func (w *Workspace) busyLocked() error {
	if w.activeRun != "" {
		return ErrRunInProgress
	}
	for _, s := range w.statuses {
		if s == pipeline.StatusRunning {
			return ErrRunInProgress
		}
	}
	return nil
}

func (w *Workspace) SetStatus(processID string, status pipeline.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.statuses[processID] = status
}

func (w *Workspace) SetOutput(record pipeline.OutputRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outputs[record.ProcessID] = record
}

func (w *Workspace) Statuses() map[string]pipeline.Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]pipeline.Status, len(w.statuses))
	for k, v := range w.statuses {
		out[k] = v
	}
	return out
}

func (w *Workspace) Outputs() map[string]pipeline.OutputRecord {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]pipeline.OutputRecord, len(w.outputs))
	for k, v := range w.outputs {
		out[k] = v
	}
	return out
}

func (w *Workspace) Output(processID string) (pipeline.OutputRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec, ok := w.outputs[processID]
	return rec, ok
}

// AddProcessFiles appends direct uploads for one process.
func (w *Workspace) AddProcessFiles(processID string, files ...pipeline.File) error {
	if err := w.checkProcess(processID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.processFiles[processID] = append(w.processFiles[processID], files...)
	return nil
}

func (w *Workspace) ProcessFiles(processID string) []pipeline.File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	files := w.processFiles[processID]
	out := make([]pipeline.File, len(files))
	copy(out, files)
	return out
}

// ForgetFile drops a file id from every process-specific list.
func (w *Workspace) ForgetFile(fileID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for pid, files := range w.processFiles {
		kept := files[:0]
		for _, f := range files {
			if f.ID != fileID {
				kept = append(kept, f)
			}
		}
		w.processFiles[pid] = kept
	}
}

func (w *Workspace) SetStepConfig(processID string, cfg pipeline.StepConfig) error {
	if err := w.checkProcess(processID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.configs[processID] = cfg
	return nil
}

func (w *Workspace) StepConfig(processID string) pipeline.StepConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.configs[processID]
}

// Snapshot is a read-only copy of the workspace state.
type Snapshot struct {
	ID            string                           `json:"id"`
	CreatedAt     time.Time                        `json:"created_at"`
	AutoSelection bool                             `json:"auto_selection"`
	Selection     []SelectedProcess                `json:"selection"`
	Statuses      map[string]pipeline.Status       `json:"statuses"`
	Outputs       map[string]pipeline.OutputRecord `json:"outputs"`
	ActiveRun     string                           `json:"active_run,omitempty"`
}

type SelectedProcess struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Origin selection.Origin `json:"origin"`
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	sel := make([]SelectedProcess, 0, len(w.selection))
	for _, id := range w.selection.IDs(w.catalog) {
		sel = append(sel, SelectedProcess{ID: id, Name: w.catalog.DisplayName(id), Origin: w.selection[id]})
	}
	statuses := make(map[string]pipeline.Status, len(w.statuses))
	for k, v := range w.statuses {
		statuses[k] = v
	}
	outputs := make(map[string]pipeline.OutputRecord, len(w.outputs))
	for k, v := range w.outputs {
		outputs[k] = v
	}
	return Snapshot{
		ID:            w.id,
		CreatedAt:     w.createdAt,
		AutoSelection: w.autoSelection,
		Selection:     sel,
		Statuses:      statuses,
		Outputs:       outputs,
		ActiveRun:     w.activeRun,
	}
}
