package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gazeink/internal/modules/capture/domain"
	captureout "gazeink/internal/modules/capture/port/out"
	"gazeink/internal/platform/clock"
	apperrors "gazeink/internal/platform/errors"
	"gazeink/internal/platform/tx"

	_ "modernc.org/sqlite"
)

// SQLiteArchive stores exported sessions in normalized tables for analysis,
// plus the raw payload so a session can be reproduced byte for byte.
type SQLiteArchive struct {
	db    *sql.DB
	tx    *tx.SQLManager
	clock clock.Clock
}

var _ captureout.ArchiveStore = (*SQLiteArchive)(nil)

func NewSQLiteArchive(dbPath string, clock clock.Clock) (*SQLiteArchive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	archive := &SQLiteArchive{db: db, tx: tx.NewSQLManager(db), clock: clock}
	if err := archive.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return archive, nil
}

func (s *SQLiteArchive) Close() error {
	return s.db.Close()
}

func (s *SQLiteArchive) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  participant_id TEXT NOT NULL,
  session_start_time INTEGER NOT NULL,
  screen_width REAL NOT NULL,
  screen_height REAL NOT NULL,
  canvas_width REAL NOT NULL,
  canvas_height REAL NOT NULL,
  device_pixel_ratio REAL NOT NULL,
  user_agent TEXT NOT NULL,
  archived_at TEXT NOT NULL,
  payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS trials (
  session_id INTEGER NOT NULL REFERENCES sessions(id),
  trial_number INTEGER NOT NULL,
  start_time REAL NOT NULL,
  end_time REAL,
  PRIMARY KEY (session_id, trial_number)
);
CREATE TABLE IF NOT EXISTS strokes (
  session_id INTEGER NOT NULL,
  trial_number INTEGER NOT NULL,
  stroke_id INTEGER NOT NULL,
  tool TEXT NOT NULL,
  color TEXT NOT NULL,
  thickness REAL NOT NULL,
  start_time REAL NOT NULL,
  end_time REAL,
  PRIMARY KEY (session_id, trial_number, stroke_id)
);
CREATE TABLE IF NOT EXISTS stroke_points (
  session_id INTEGER NOT NULL,
  trial_number INTEGER NOT NULL,
  stroke_id INTEGER NOT NULL,
  seq INTEGER NOT NULL,
  x REAL NOT NULL,
  y REAL NOT NULL,
  pressure REAL NOT NULL,
  time REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS actions (
  session_id INTEGER NOT NULL,
  trial_number INTEGER NOT NULL,
  seq INTEGER NOT NULL,
  type TEXT NOT NULL,
  time REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS gaze_samples (
  session_id INTEGER NOT NULL,
  trial_number INTEGER NOT NULL,
  seq INTEGER NOT NULL,
  x REAL NOT NULL,
  y REAL NOT NULL,
  time REAL NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create archive tables: %w", err)
	}
	return nil
}

func (s *SQLiteArchive) Name() string { return "sqlite" }

// Write archives the session in one transaction and returns "<db>#<id>".
func (s *SQLiteArchive) Write(ctx context.Context, session domain.Session) (string, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	var sessionID int64
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		exec := s.tx.Exec(ctx)
		res, err := exec.ExecContext(ctx, `
INSERT INTO sessions (participant_id, session_start_time, screen_width, screen_height, canvas_width, canvas_height, device_pixel_ratio, user_agent, archived_at, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ParticipantID,
			session.SessionStartTime,
			session.ScreenWidth,
			session.ScreenHeight,
			session.CanvasWidth,
			session.CanvasHeight,
			session.DevicePixelRatio,
			session.UserAgent,
			s.clock.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		if sessionID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("session id: %w", err)
		}
		for _, trial := range session.Trials {
			if err := insertTrial(ctx, exec, sessionID, trial); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("sqlite#%d", sessionID), nil
}

func insertTrial(ctx context.Context, exec tx.Executor, sessionID int64, trial domain.Trial) error {
	if _, err := exec.ExecContext(ctx,
		`INSERT INTO trials (session_id, trial_number, start_time, end_time) VALUES (?, ?, ?, ?)`,
		sessionID, trial.TrialNumber, trial.StartTime, nullable(trial.EndTime),
	); err != nil {
		return fmt.Errorf("insert trial %d: %w", trial.TrialNumber, err)
	}
	for _, st := range trial.Strokes {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO strokes (session_id, trial_number, stroke_id, tool, color, thickness, start_time, end_time) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionID, trial.TrialNumber, st.StrokeID, string(st.Tool), st.Color, st.Thickness, st.StartTime, nullable(st.EndTime),
		); err != nil {
			return fmt.Errorf("insert stroke %d: %w", st.StrokeID, err)
		}
		for seq, p := range st.Points {
			if _, err := exec.ExecContext(ctx,
				`INSERT INTO stroke_points (session_id, trial_number, stroke_id, seq, x, y, pressure, time) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				sessionID, trial.TrialNumber, st.StrokeID, seq, p.X, p.Y, p.Pressure, p.Time,
			); err != nil {
				return fmt.Errorf("insert stroke point: %w", err)
			}
		}
	}
	for seq, a := range trial.Actions {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO actions (session_id, trial_number, seq, type, time) VALUES (?, ?, ?, ?, ?)`,
			sessionID, trial.TrialNumber, seq, string(a.Type), a.Time,
		); err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
	}
	for seq, g := range trial.GazeData {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO gaze_samples (session_id, trial_number, seq, x, y, time) VALUES (?, ?, ?, ?, ?, ?)`,
			sessionID, trial.TrialNumber, seq, g.X, g.Y, g.Time,
		); err != nil {
			return fmt.Errorf("insert gaze sample: %w", err)
		}
	}
	return nil
}

func (s *SQLiteArchive) List(ctx context.Context) ([]captureout.ArchiveEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT s.id, s.participant_id, s.session_start_time, s.archived_at, COUNT(t.trial_number)
FROM sessions s LEFT JOIN trials t ON t.session_id = s.id
GROUP BY s.id
ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("list archived sessions: %w", err)
	}
	defer rows.Close()
	out := []captureout.ArchiveEntry{}
	for rows.Next() {
		e := captureout.ArchiveEntry{}
		if err := rows.Scan(&e.ID, &e.ParticipantID, &e.StartedAt, &e.ArchivedAt, &e.Trials); err != nil {
			return nil, fmt.Errorf("scan archived session: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived sessions: %w", err)
	}
	return out, nil
}

// Load returns the archived payload for id.
func (s *SQLiteArchive) Load(ctx context.Context, id int64) (domain.Session, error) {
	payload := ""
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("archived session %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("load archived session %d: %w", id, err)
	}
	session := domain.Session{}
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return domain.Session{}, fmt.Errorf("decode archived session %d: %w", id, err)
	}
	return session.Clone(), nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
