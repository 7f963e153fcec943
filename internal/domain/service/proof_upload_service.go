package service

import (
	"context"
	"io"
)

// FileUploadService persists raw uploads. This subsystem only validates and
// renames; it trusts the metadata the storage collaborator hands back.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	Close() error
}
