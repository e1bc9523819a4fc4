package entity

import "time"

type ManagedFile struct {
	Id          string
	WorkspaceId string
	Name        string
	Type        string
	Size        int64
	Payload     []byte
	UploadedAt  time.Time
}

type FileProcessMapping struct {
	FileId      string
	ProcessId   string
	WorkspaceId string
}
