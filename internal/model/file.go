package model

import (
	"context"

	"github.com/google/uuid"
)

// FileStore defines persistence operations for files.
//
// Save is an atomic upsert keyed by ID; it must report ErrFileExists when a
// different file already holds the same (OwnerID, Name) pair. ListByOwner
// returns at most limit entries in a stable order.
type FileStore interface {
	GetByNameAndOwner(ctx context.Context, name string, ownerID int64) (File, error)
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]File, error)
	Save(ctx context.Context, file File) (File, error)
	Delete(ctx context.Context, file File) error
}

// File represents a stored file owned by exactly one user. The owner is set
// at creation and never changes; Name is unique within the owner's namespace.
type File struct {
	ID      uuid.UUID
	Name    string
	Hash    string
	Content []byte
	OwnerID int64
}

// Size returns the inline content length in bytes.
func (f File) Size() int64 {
	return int64(len(f.Content))
}

// FileInfo is a listing entry: name plus content size computed at read time.
type FileInfo struct {
	Name string
	Size int64
}
