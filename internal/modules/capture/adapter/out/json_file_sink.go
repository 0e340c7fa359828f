package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gazeink/internal/modules/capture/domain"
	captureout "gazeink/internal/modules/capture/port/out"
	"gazeink/internal/platform/clock"
	"gazeink/internal/platform/slug"
)

// JSONFileStore writes one payload file per export and reads them back.
type JSONFileStore struct {
	dir   string
	clock clock.Clock
}

var (
	_ captureout.Sink         = (*JSONFileStore)(nil)
	_ captureout.ExportReader = (*JSONFileStore)(nil)
)

func NewJSONFileStore(dir string, clock clock.Clock) *JSONFileStore {
	return &JSONFileStore{dir: dir, clock: clock}
}

func (s *JSONFileStore) Name() string { return "json" }

func (s *JSONFileStore) Write(_ context.Context, session domain.Session) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	path := filepath.Join(s.dir, slug.Stamped(session.ParticipantID, s.clock.Now())+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return "", fmt.Errorf("write session export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize session export: %w", err)
	}
	return path, nil
}

func (s *JSONFileStore) Read(_ context.Context, path string) (domain.Session, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session export: %w", err)
	}
	session := domain.Session{}
	if err := json.Unmarshal(payload, &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode session export: %w", err)
	}
	return session.Clone(), nil
}
