// Package storage defines the object storage collaborator used for medicine
// and service images.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrEmptyFile = errors.New("file is empty")

// File is an uploaded file handed to the object storage
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// IsEmpty reports whether the file carries no content
func (f *File) IsEmpty() bool {
	return f == nil || f.Size == 0 || f.Content == nil
}

// ObjectStorage uploads files and returns their public URL, and deletes
// objects by that URL.
type ObjectStorage interface {
	Upload(ctx context.Context, file *File) (string, error)
	Delete(ctx context.Context, url string) error
}
