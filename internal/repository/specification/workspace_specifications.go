package specification

import "gorm.io/gorm"

type ByWorkspace struct {
	WorkspaceID string
}

func (s ByWorkspace) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("workspace_id = ?", s.WorkspaceID)
}

type ByProcess struct {
	ProcessID string
}

func (s ByProcess) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("process_id = ?", s.ProcessID)
}

type ByFile struct {
	FileID string
}

func (s ByFile) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_id = ?", s.FileID)
}

// MappedToProcess keeps managed files that have a mapping row for ProcessID.
type MappedToProcess struct {
	ProcessID string
}

func (s MappedToProcess) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN (SELECT file_id FROM file_process_mappings WHERE process_id = ?)", s.ProcessID)
}

// WithoutPayload skips the file body, for listings.
type WithoutPayload struct{}

func (WithoutPayload) Apply(db *gorm.DB) *gorm.DB {
	return db.Omit("payload")
}
