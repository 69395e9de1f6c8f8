package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"edu-entitlement-platform/internal/domain/model"
)

// snapshot is the whole local store: one flat JSON-serializable array per
// entity type, read and written wholesale on every mutation. This mirrors the
// localStorage layer the platform runs on in mock mode.
type snapshot struct {
	Subscriptions []*model.Subscription        `json:"subscriptions"`
	Requests      []*model.SubscriptionRequest `json:"subscription_requests"`
	Codes         []*model.PrepaidCode         `json:"prepaid_codes"`
	Notifications []*model.Notification        `json:"notifications"`
	Users         []*model.User                `json:"users"`
	Units         []*model.Unit                `json:"units"`
	Lessons       []*model.Lesson              `json:"lessons"`
}

// Store is the file-backed flat store. A Store constructed with an empty path
// lives in memory only, which is what tests use.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex // serializes transactions; see TxManager
	path string
	data snapshot
}

// Open loads the snapshot at path, or starts empty when the file does not
// exist yet. Open("") returns a memory-only store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// flush rewrites the whole snapshot. Callers hold s.mu.
func (s *Store) flush() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// dump and restore are used by the transaction manager for rollback.
func (s *Store) dump() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(&s.data)
}

func (s *Store) restore(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return err
	}
	s.data = snap
	return s.flush()
}
