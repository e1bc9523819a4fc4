package pipeline

import (
	"context"

	"stlc-manager-be/pkg/catalog"
)

// File is an input document handed to a process.
type File struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	Content []byte `json:"-"`
}

// FileSource exposes the three places a process can get its files from.
type FileSource interface {
	// MappedFiles returns managed files explicitly mapped to processID.
	MappedFiles(ctx context.Context, processID string) ([]File, error)
	// ProcessFiles returns files uploaded directly for processID.
	ProcessFiles(ctx context.Context, processID string) ([]File, error)
	// ManagedFiles returns every managed file regardless of mapping.
	ManagedFiles(ctx context.Context) ([]File, error)
}

type FileResolver struct {
	source FileSource
}

func NewFileResolver(source FileSource) *FileResolver {
	return &FileResolver{source: source}
}

// Resolve picks the file set for proc: mapped managed files, then direct
// uploads, then (only for processes without required inputs) every managed
// file. The result is never nil.
func (r *FileResolver) Resolve(ctx context.Context, proc catalog.Process) ([]File, error) {
	mapped, err := r.source.MappedFiles(ctx, proc.ID)
	if err != nil {
		return nil, err
	}
	if len(mapped) > 0 {
		return mapped, nil
	}

	direct, err := r.source.ProcessFiles(ctx, proc.ID)
	if err != nil {
		return nil, err
	}
	if len(direct) > 0 {
		return direct, nil
	}

	if !proc.RequiresInputs() {
		all, err := r.source.ManagedFiles(ctx)
		if err != nil {
			return nil, err
		}
		if len(all) > 0 {
			return all, nil
		}
	}
	return []File{}, nil
}
