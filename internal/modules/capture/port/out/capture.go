package out

import (
	"context"

	"gazeink/internal/modules/capture/domain"
)

// Sink persists a finished session somewhere outside the process.
type Sink interface {
	Name() string
	Write(ctx context.Context, session domain.Session) (string, error)
}

type ExportReader interface {
	Read(ctx context.Context, path string) (domain.Session, error)
}

type ArchiveEntry struct {
	ID            int64
	ParticipantID string
	StartedAt     int64
	Trials        int
	ArchivedAt    string
}

type ArchiveStore interface {
	Sink
	List(ctx context.Context) ([]ArchiveEntry, error)
	Load(ctx context.Context, id int64) (domain.Session, error)
}
