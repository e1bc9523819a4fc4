package dto

import "time"

// UploadedFile is a file read from a multipart request.
type UploadedFile struct {
	Name    string
	Content []byte
}

type UploadFilesRequest struct {
	Type string `validate:"required"`
}

type FileResponse struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	UploadDate time.Time `json:"uploadDate"`
	ProcessIds []string  `json:"process_ids"`
}

type SetFileProcessesRequest struct {
	ProcessIds []string `json:"process_ids" validate:"required"`
}

type ProcessFileResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}
