package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/okorneva/cloudstore/internal/logger"
	"github.com/okorneva/cloudstore/internal/model"
)

// SessionResolver maps a raw token to its holder.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (model.User, error)
}

// Files enforces ownership-scoped CRUD over a user's file namespace. Every
// operation resolves the caller's token first; validation steps run in a
// fixed order so error precedence is deterministic.
//
// When a blob store is configured, content bytes live there keyed by file ID
// and the file row carries metadata only. The row remains the source of
// truth: a write that fails after the object upload removes the object again.
type Files struct {
	fileStore model.FileStore
	sessions  SessionResolver
	blobs     model.BlobStore
	logger    *logger.Logger
}

// NewFiles creates a new Files service. blobs may be nil, in which case
// content is stored inline in the file row.
func NewFiles(fileStore model.FileStore, sessions SessionResolver, blobs model.BlobStore, logger *logger.Logger) *Files {
	return &Files{
		fileStore: fileStore,
		sessions:  sessions,
		blobs:     blobs,
		logger:    logger,
	}
}

// Upload stores a new file in the owner's namespace. Checks run in order:
// owner, hash, filename, duplicate name, payload presence, payload read.
// No durable file row is written unless every check passes.
func (s *Files) Upload(ctx context.Context, token, hash string, payload io.Reader, size int64, filename string) error {
	user, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return err
	}

	if strings.TrimSpace(hash) == "" {
		return model.NewErrInvalidArgument("hash can't be empty")
	}
	if strings.TrimSpace(filename) == "" {
		return model.NewErrInvalidArgument("filename is empty")
	}

	if _, err := s.fileStore.GetByNameAndOwner(ctx, filename, user.ID); err == nil {
		return model.NewErrFileExists(filename)
	} else if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to check for existing file: %w", err)
	}

	if payload == nil || size == 0 {
		return model.NewErrInvalidArgument("file can't be empty")
	}

	content, err := io.ReadAll(payload)
	if err != nil {
		return model.NewErrPayloadRead(err)
	}
	if len(content) == 0 {
		return model.NewErrInvalidArgument("file can't be empty")
	}

	file := model.File{
		ID:      uuid.New(),
		Name:    filename,
		Hash:    hash,
		Content: content,
		OwnerID: user.ID,
	}

	if s.blobs != nil {
		if err := s.blobs.Upload(ctx, file.ID.String(), bytes.NewReader(content)); err != nil {
			return fmt.Errorf("failed to upload file content: %w", err)
		}
		file.Content = nil
	}

	if _, err := s.fileStore.Save(ctx, file); err != nil {
		if s.blobs != nil {
			if delErr := s.blobs.Delete(ctx, file.ID.String()); delErr != nil {
				s.logger.Error("File service: failed to remove orphaned object",
					"key", file.ID.String(),
					"error", delErr.Error())
			}
		}
		if errors.Is(err, model.ErrFileExists) {
			return model.NewErrFileExists(filename)
		}
		return fmt.Errorf("failed to save file: %w", err)
	}

	s.logger.Info("File service: upload completed",
		"login", user.Login,
		"filename", filename,
		"size", len(content))
	return nil
}

// Delete removes a file from the owner's namespace.
func (s *Files) Delete(ctx context.Context, token, filename string) error {
	user, file, err := s.resolveFile(ctx, token, filename)
	if err != nil {
		return err
	}

	if err := s.fileStore.Delete(ctx, file); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if s.blobs != nil {
		if err := s.blobs.Delete(ctx, file.ID.String()); err != nil {
			s.logger.Error("File service: failed to remove object",
				"key", file.ID.String(),
				"error", err.Error())
		}
	}

	s.logger.Info("File service: delete completed",
		"login", user.Login,
		"filename", filename)
	return nil
}

// Fetch returns the stored file, content and hash included.
func (s *Files) Fetch(ctx context.Context, token, filename string) (model.File, error) {
	_, file, err := s.resolveFile(ctx, token, filename)
	if err != nil {
		return model.File{}, err
	}

	if s.blobs != nil {
		reader, err := s.blobs.Download(ctx, file.ID.String())
		if err != nil {
			return model.File{}, fmt.Errorf("failed to download file content: %w", err)
		}
		defer reader.Close()

		content, err := io.ReadAll(reader)
		if err != nil {
			return model.File{}, fmt.Errorf("failed to read file content: %w", err)
		}
		file.Content = content
	}

	return file, nil
}

// Rename changes the file's name within the owner's namespace. The target
// name must be free; the source omitted this check and relied on the caller,
// which made collisions surface as opaque store failures.
func (s *Files) Rename(ctx context.Context, token, filename, newName string) error {
	user, file, err := s.resolveFile(ctx, token, filename)
	if err != nil {
		return err
	}

	if strings.TrimSpace(newName) == "" {
		return model.NewErrInvalidArgument("name can't be empty")
	}

	if _, err := s.fileStore.GetByNameAndOwner(ctx, newName, user.ID); err == nil {
		return model.NewErrFileExists(newName)
	} else if !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to check target filename: %w", err)
	}

	file.Name = newName
	if _, err := s.fileStore.Save(ctx, file); err != nil {
		if errors.Is(err, model.ErrFileExists) {
			return model.NewErrFileExists(newName)
		}
		return fmt.Errorf("failed to save renamed file: %w", err)
	}

	s.logger.Info("File service: rename completed",
		"login", user.Login,
		"filename", filename,
		"new_name", newName)
	return nil
}

// List returns up to limit entries from the owner's namespace, sizes
// computed from the stored content at read time. The limit is validated
// before any store access.
func (s *Files) List(ctx context.Context, token string, limit int) ([]model.FileInfo, error) {
	if limit <= 0 {
		return nil, model.NewErrInvalidArgument("limit must be positive")
	}

	user, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	files, err := s.fileStore.ListByOwner(ctx, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	infos := make([]model.FileInfo, 0, len(files))
	for _, f := range files {
		size := f.Size()
		if s.blobs != nil {
			size, err = s.blobs.Stat(ctx, f.ID.String())
			if err != nil {
				return nil, fmt.Errorf("failed to stat file content: %w", err)
			}
		}
		infos = append(infos, model.FileInfo{Name: f.Name, Size: size})
	}
	return infos, nil
}

func (s *Files) resolveFile(ctx context.Context, token, filename string) (model.User, model.File, error) {
	user, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return model.User{}, model.File{}, err
	}

	if strings.TrimSpace(filename) == "" {
		return model.User{}, model.File{}, model.NewErrInvalidArgument("filename is empty")
	}

	file, err := s.fileStore.GetByNameAndOwner(ctx, filename, user.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.File{}, model.NewErrFileNotFound(filename)
	}
	if err != nil {
		return model.User{}, model.File{}, fmt.Errorf("failed to get file by name: %w", err)
	}

	return user, file, nil
}
