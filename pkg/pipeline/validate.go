package pipeline

import (
	"context"
	"fmt"
	"strings"

	"stlc-manager-be/pkg/catalog"
)

type MissingInput struct {
	ProcessID string   `json:"process_id"`
	Process   string   `json:"process"`
	Inputs    []string `json:"inputs"`
}

// ValidationError blocks a run before any remote call is made.
type ValidationError struct {
	Missing []MissingInput
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s (%s)", m.Process, strings.Join(m.Inputs, ", ")))
	}
	return "missing required inputs: " + strings.Join(parts, "; ")
}

// ValidateInputs fails when some input type proc declares has no resolved file of that type.
// The error lists only the unsatisfied types.
func ValidateInputs(proc catalog.Process, files []File) error {
	if m, ok := missingFor(proc, files); ok {
		return &ValidationError{Missing: []MissingInput{m}}
	}
	return nil
}

// ValidatePipeline checks every id and aggregates all missing inputs into one error.
func ValidatePipeline(ctx context.Context, c catalog.Catalog, resolver *FileResolver, ids []string) error {
	var missing []MissingInput
	for _, id := range c.SortByOrder(ids) {
		proc, ok := c.Find(id)
		if !ok {
			return fmt.Errorf("unknown process %q", id)
		}
		files, err := resolver.Resolve(ctx, proc)
		if err != nil {
			return fmt.Errorf("resolve files for %s: %w", id, err)
		}
		if m, ok := missingFor(proc, files); ok {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func missingFor(proc catalog.Process, files []File) (MissingInput, bool) {
	have := make(map[string]bool, len(files))
	for _, f := range files {
		have[f.Type] = true
	}
	var inputs []string
	for _, in := range proc.Inputs {
		if !have[in] {
			inputs = append(inputs, in)
		}
	}
	if len(inputs) == 0 {
		return MissingInput{}, false
	}
	return MissingInput{ProcessID: proc.ID, Process: proc.Name, Inputs: inputs}, true
}
