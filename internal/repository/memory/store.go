// Package memory provides in-memory implementations of the user and file
// stores. They back the test suite and the no-database dev mode; each store's
// mutex gives it the per-row atomicity the postgres constraints provide.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/okorneva/cloudstore/internal/model"
)

var (
	_ model.UserStore = (*UserStore)(nil)
	_ model.FileStore = (*FileStore)(nil)
)

// UserStore keeps users in a mutex-guarded map.
type UserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		nextID: 1,
		users:  make(map[int64]model.User),
	}
}

func (s *UserStore) GetByCredentials(_ context.Context, login, passwordHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Login == login && u.PasswordHash == passwordHash {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *UserStore) GetByToken(_ context.Context, token string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return model.User{}, model.ErrNotFound
	}
	for _, u := range s.users {
		if u.AuthToken == token {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *UserStore) Save(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == user.ID {
			continue
		}
		if u.Login == user.Login {
			return model.User{}, model.ErrLoginTaken
		}
		if user.AuthToken != "" && u.AuthToken == user.AuthToken {
			return model.User{}, model.ErrTokenTaken
		}
	}

	if user.ID == 0 {
		user.ID = s.nextID
		s.nextID++
	}
	s.users[user.ID] = user
	return user, nil
}

// FileStore keeps files in a mutex-guarded map keyed by file ID.
type FileStore struct {
	mu    sync.Mutex
	files map[uuid.UUID]model.File
}

// NewFileStore creates an empty FileStore.
func NewFileStore() *FileStore {
	return &FileStore{
		files: make(map[uuid.UUID]model.File),
	}
}

func (s *FileStore) GetByNameAndOwner(_ context.Context, name string, ownerID int64) (model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.Name == name && f.OwnerID == ownerID {
			return f, nil
		}
	}
	return model.File{}, model.ErrNotFound
}

func (s *FileStore) ListByOwner(_ context.Context, ownerID int64, limit int) ([]model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var files []model.File
	for _, f := range s.files {
		if f.OwnerID == ownerID {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	if len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

func (s *FileStore) Save(_ context.Context, file model.File) (model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.ID != file.ID && f.Name == file.Name && f.OwnerID == file.OwnerID {
			return model.File{}, model.ErrFileExists
		}
	}
	s.files[file.ID] = file
	return file, nil
}

func (s *FileStore) Delete(_ context.Context, file model.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[file.ID]; !ok {
		return model.ErrNotFound
	}
	delete(s.files, file.ID)
	return nil
}
