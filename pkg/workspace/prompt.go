package workspace

// PromptState tracks the prompt variants of one process.
// Base is the last value fetched from the backend; Custom is what the user saved, verbatim.
type PromptState struct {
	Base      *string `json:"base,omitempty"`
	Custom    *string `json:"custom,omitempty"`
	Generated *string `json:"generated,omitempty"`
}

func (p PromptState) current(fallback string) string {
	switch {
	case p.Custom != nil:
		return *p.Custom
	case p.Base != nil:
		return *p.Base
	default:
		return fallback
	}
}

func strPtr(s string) *string {
	return &s
}

func (w *Workspace) promptLocked(processID string) *PromptState {
	st, ok := w.prompts[processID]
	if !ok {
		st = &PromptState{}
		w.prompts[processID] = st
	}
	return st
}

func (w *Workspace) Prompt(processID string) (PromptState, error) {
	if err := w.checkProcess(processID); err != nil {
		return PromptState{}, err
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if st, ok := w.prompts[processID]; ok {
		return *st, nil
	}
	return PromptState{}, nil
}

// CurrentPrompt returns custom, else base, else the catalog default.
func (w *Workspace) CurrentPrompt(processID string) (string, error) {
	if err := w.checkProcess(processID); err != nil {
		return "", err
	}
	proc, _ := w.catalog.Find(processID)
	w.mu.RLock()
	defer w.mu.RUnlock()
	if st, ok := w.prompts[processID]; ok {
		return st.current(proc.DefaultPrompt), nil
	}
	return proc.DefaultPrompt, nil
}

// CustomPrompt returns the saved custom prompt, or "" when none is set.
func (w *Workspace) CustomPrompt(processID string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if st, ok := w.prompts[processID]; ok && st.Custom != nil {
		return *st.Custom
	}
	return ""
}

func (w *Workspace) SetBasePrompt(processID, text string) error {
	if err := w.checkProcess(processID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.promptLocked(processID).Base = strPtr(text)
	return nil
}

// SaveCustomPrompt stores text exactly as given.
func (w *Workspace) SaveCustomPrompt(processID, text string) error {
	if err := w.checkProcess(processID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.promptLocked(processID).Custom = strPtr(text)
	return nil
}

// SetGeneratedPrompt records a generated prompt and makes it the active custom prompt.
func (w *Workspace) SetGeneratedPrompt(processID, text string) error {
	if err := w.checkProcess(processID); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.promptLocked(processID)
	st.Generated = strPtr(text)
	st.Custom = strPtr(text)
	return nil
}

// ResetPrompt drops the custom prompt and returns the prompt now in effect.
func (w *Workspace) ResetPrompt(processID string) (string, error) {
	if err := w.checkProcess(processID); err != nil {
		return "", err
	}
	proc, _ := w.catalog.Find(processID)
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.promptLocked(processID)
	st.Custom = nil
	return st.current(proc.DefaultPrompt), nil
}
