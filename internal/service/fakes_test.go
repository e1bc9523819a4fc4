package service

import (
	"context"
	"sort"
	"sync"

	"stlc-manager-be/internal/entity"
	"stlc-manager-be/internal/repository/contract"
	"stlc-manager-be/internal/repository/specification"
	"stlc-manager-be/internal/repository/unitofwork"
)

// memDB is an in-memory stand-in for the three tables. Transactions are not
// isolated; Rollback after Commit is a no-op like in the gorm unit of work.
type memDB struct {
	mu       sync.Mutex
	files    map[string]*entity.ManagedFile
	mappings []*entity.FileProcessMapping
	outputs  []*entity.ProcessOutput
}

func newMemDB() *memDB {
	return &memDB{files: make(map[string]*entity.ManagedFile)}
}

func (db *memDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUoW{db: db}
}

func (db *memDB) outputCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.outputs)
}

type memUoW struct {
	db *memDB
}

func (u *memUoW) Begin(ctx context.Context) error { return nil }
func (u *memUoW) Commit() error                   { return nil }
func (u *memUoW) Rollback() error                 { return nil }

func (u *memUoW) ManagedFileRepository() contract.ManagedFileRepository {
	return &memFiles{db: u.db}
}

func (u *memUoW) FileProcessMappingRepository() contract.FileProcessMappingRepository {
	return &memMappings{db: u.db}
}

func (u *memUoW) ProcessOutputRepository() contract.ProcessOutputRepository {
	return &memOutputs{db: u.db}
}

type filter struct {
	id, workspace, process, file, mappedTo string
	limit, offset                          int
}

func readSpecs(specs []specification.Specification) filter {
	f := filter{limit: -1}
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			f.id, _ = v.ID.(string)
		case specification.ByWorkspace:
			f.workspace = v.WorkspaceID
		case specification.ByProcess:
			f.process = v.ProcessID
		case specification.ByFile:
			f.file = v.FileID
		case specification.MappedToProcess:
			f.mappedTo = v.ProcessID
		case specification.Pagination:
			f.limit, f.offset = v.Limit, v.Offset
		}
	}
	return f
}

type memFiles struct {
	db *memDB
}

func (r *memFiles) Create(ctx context.Context, file *entity.ManagedFile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *file
	r.db.files[file.Id] = &cp
	return nil
}

func (r *memFiles) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.files, id)
	return nil
}

func (r *memFiles) DeleteByWorkspace(ctx context.Context, workspaceId string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, f := range r.db.files {
		if f.WorkspaceId == workspaceId {
			delete(r.db.files, id)
		}
	}
	return nil
}

func (r *memFiles) match(f filter) []*entity.ManagedFile {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.ManagedFile
	for _, file := range r.db.files {
		if f.id != "" && file.Id != f.id {
			continue
		}
		if f.workspace != "" && file.WorkspaceId != f.workspace {
			continue
		}
		if f.mappedTo != "" && !r.mapped(file.Id, f.mappedTo) {
			continue
		}
		cp := *file
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].Id < out[j].Id
		}
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out
}

func (r *memFiles) mapped(fileId, processId string) bool {
	for _, m := range r.db.mappings {
		if m.FileId == fileId && m.ProcessId == processId {
			return true
		}
	}
	return false
}

func (r *memFiles) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ManagedFile, error) {
	all := r.match(readSpecs(specs))
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memFiles) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ManagedFile, error) {
	return r.match(readSpecs(specs)), nil
}

func (r *memFiles) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.match(readSpecs(specs)))), nil
}

type memMappings struct {
	db *memDB
}

func (r *memMappings) ReplaceForFile(ctx context.Context, workspaceId, fileId string, processIds []string) error {
	_ = r.DeleteByFile(ctx, fileId)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, pid := range processIds {
		r.db.mappings = append(r.db.mappings, &entity.FileProcessMapping{FileId: fileId, ProcessId: pid, WorkspaceId: workspaceId})
	}
	return nil
}

func (r *memMappings) remove(keep func(*entity.FileProcessMapping) bool) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	kept := r.db.mappings[:0]
	for _, m := range r.db.mappings {
		if keep(m) {
			kept = append(kept, m)
		}
	}
	r.db.mappings = kept
}

func (r *memMappings) DeleteByFile(ctx context.Context, fileId string) error {
	r.remove(func(m *entity.FileProcessMapping) bool { return m.FileId != fileId })
	return nil
}

func (r *memMappings) DeleteByWorkspace(ctx context.Context, workspaceId string) error {
	r.remove(func(m *entity.FileProcessMapping) bool { return m.WorkspaceId != workspaceId })
	return nil
}

func (r *memMappings) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FileProcessMapping, error) {
	f := readSpecs(specs)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.FileProcessMapping
	for _, m := range r.db.mappings {
		if f.workspace != "" && m.WorkspaceId != f.workspace {
			continue
		}
		if f.file != "" && m.FileId != f.file {
			continue
		}
		if f.process != "" && m.ProcessId != f.process {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type memOutputs struct {
	db *memDB
}

func (r *memOutputs) Create(ctx context.Context, output *entity.ProcessOutput) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *output
	r.db.outputs = append(r.db.outputs, &cp)
	return nil
}

func (r *memOutputs) DeleteByWorkspace(ctx context.Context, workspaceId string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	kept := r.db.outputs[:0]
	for _, o := range r.db.outputs {
		if o.WorkspaceId != workspaceId {
			kept = append(kept, o)
		}
	}
	r.db.outputs = kept
	return nil
}

func (r *memOutputs) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcessOutput, error) {
	f := readSpecs(specs)
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.ProcessOutput
	for _, o := range r.db.outputs {
		if f.workspace != "" && o.WorkspaceId != f.workspace {
			continue
		}
		if f.process != "" && o.ProcessId != f.process {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.limit >= 0 {
		if f.offset >= len(out) {
			return []*entity.ProcessOutput{}, nil
		}
		out = out[f.offset:]
		if f.limit < len(out) {
			out = out[:f.limit]
		}
	}
	return out, nil
}

func (r *memOutputs) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}
