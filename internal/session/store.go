package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the durable-storage collaborator for the session. Load returns
// the zero Session when nothing has been persisted yet.
type Store interface {
	Load() (Session, error)
	Save(s Session) error
	Clear() error
}

// FileStore keeps the session as a single JSON object on disk, the same
// {user, token} blob the web client kept under its storage key.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (Session, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed reading session file=%s with error=%w", f.path, err)
	}
	s := Session{}
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("failed unmarshaling session file=%s with error=%w", f.path, err)
	}
	return s, nil
}

func (f *FileStore) Save(s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed marshaling session with error=%w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed creating session directory with error=%w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed writing session file=%s with error=%w", f.path, err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed removing session file=%s with error=%w", f.path, err)
	}
	return nil
}
