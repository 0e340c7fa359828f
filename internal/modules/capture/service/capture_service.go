package service

import (
	"fmt"
	"math"
	"sync"

	"gazeink/internal/modules/capture/domain"
	"gazeink/internal/platform/clock"
	apperrors "gazeink/internal/platform/errors"
)

// Options tunes how the store reacts to calls made in the wrong state.
// By default such calls are absorbed silently; Strict reports them as
// sentinel errors. State is left untouched either way.
type Options struct {
	Strict bool
}

// Metadata describes the participant and display for the session header.
type Metadata struct {
	ParticipantID    string
	UserAgent        string
	ScreenWidth      float64
	ScreenHeight     float64
	CanvasWidth      float64
	CanvasHeight     float64
	DevicePixelRatio float64
}

// CaptureStore is the authoritative record of one session. Committed strokes,
// actions and gaze samples are append-only.
type CaptureStore struct {
	mu         sync.Mutex
	timeline   clock.Timeline
	opts       Options
	session    domain.Session
	trial      int
	strokeOpen bool
	nextStroke int
}

func NewCaptureStore(timeline clock.Timeline, wall clock.Clock, meta Metadata, opts Options) *CaptureStore {
	return &CaptureStore{
		timeline: timeline,
		opts:     opts,
		trial:    -1,
		session: domain.Session{
			ParticipantID:    meta.ParticipantID,
			SessionStartTime: wall.Now().UnixMilli(),
			ScreenWidth:      meta.ScreenWidth,
			ScreenHeight:     meta.ScreenHeight,
			CanvasWidth:      meta.CanvasWidth,
			CanvasHeight:     meta.CanvasHeight,
			DevicePixelRatio: meta.DevicePixelRatio,
			UserAgent:        meta.UserAgent,
			Trials:           []domain.Trial{},
		},
	}
}

// StartTrial opens trial len(trials)+1. A trial left open by the caller stays
// in the list unfinished; it is no longer current.
func (s *CaptureStore) StartTrial() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	number := len(s.session.Trials) + 1
	s.session.Trials = append(s.session.Trials, domain.Trial{
		TrialNumber: number,
		StartTime:   s.timeline.Now(),
		Strokes:     []domain.Stroke{},
		Actions:     []domain.Action{},
		GazeData:    []domain.GazeSample{},
	})
	s.trial = len(s.session.Trials) - 1
	s.strokeOpen = false
	s.nextStroke = 0
	return number
}

// EndTrial finalizes any open stroke, then stamps the trial end.
func (s *CaptureStore) EndTrial() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.current()
	if t == nil {
		return s.reject(apperrors.ErrNoOpenTrial)
	}
	if s.strokeOpen {
		s.endStroke(t)
	}
	end := math.Max(s.timeline.Now(), t.StartTime)
	t.EndTime = &end
	s.trial = -1
	return nil
}

// StartStroke appends a new stroke to the open trial right away. A stroke
// that is still open is ended first.
func (s *CaptureStore) StartStroke(tool domain.Tool, color string, thickness float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.current()
	if t == nil {
		return s.reject(apperrors.ErrNoOpenTrial)
	}
	if !tool.Valid() {
		return s.reject(fmt.Errorf("%w: tool %q", apperrors.ErrInvalidInput, tool))
	}
	if !(thickness > 0) || math.IsInf(thickness, 0) {
		return s.reject(fmt.Errorf("%w: thickness %v", apperrors.ErrInvalidInput, thickness))
	}
	if s.strokeOpen {
		s.endStroke(t)
	}
	t.Strokes = append(t.Strokes, domain.Stroke{
		StrokeID:  s.nextStroke,
		Tool:      tool,
		Color:     color,
		Thickness: thickness,
		StartTime: s.timeline.Now(),
		Points:    []domain.StrokePoint{},
	})
	s.nextStroke++
	s.strokeOpen = true
	return nil
}

// AddStrokePoint appends to the open stroke. A nil pressure records the
// default.
func (s *CaptureStore) AddStrokePoint(x, y float64, pressure *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.current()
	if t == nil || !s.strokeOpen {
		return s.reject(apperrors.ErrNoOpenStroke)
	}
	if !finite(x) || !finite(y) {
		return s.reject(fmt.Errorf("%w: point (%v, %v)", apperrors.ErrInvalidInput, x, y))
	}
	st := &t.Strokes[len(t.Strokes)-1]
	st.Points = append(st.Points, domain.NewPoint(x, y, pressure, s.timeline.Now()))
	return nil
}

// EndStroke closes the open stroke. A stroke that never received a point is
// removed from the trial; its id is not handed out again.
func (s *CaptureStore) EndStroke() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.current()
	if t == nil || !s.strokeOpen {
		return s.reject(apperrors.ErrNoOpenStroke)
	}
	s.endStroke(t)
	return nil
}

func (s *CaptureStore) RecordAction(action domain.ActionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.current()
	if t == nil {
		return s.reject(apperrors.ErrNoOpenTrial)
	}
	if !action.Valid() {
		return s.reject(fmt.Errorf("%w: action %q", apperrors.ErrInvalidInput, action))
	}
	t.Actions = append(t.Actions, domain.Action{Type: action, Time: s.timeline.Now()})
	return nil
}

// AddGazePoint records a gaze estimate in screen space. It only depends on a
// trial being open, never on stroke state.
func (s *CaptureStore) AddGazePoint(x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.current()
	if t == nil {
		return s.reject(apperrors.ErrNoOpenTrial)
	}
	if !finite(x) || !finite(y) {
		return s.reject(fmt.Errorf("%w: gaze (%v, %v)", apperrors.ErrInvalidInput, x, y))
	}
	t.GazeData = append(t.GazeData, domain.NewGazeSample(x, y, s.session.ScreenWidth, s.session.ScreenHeight, s.timeline.Now()))
	return nil
}

// SetGeometry updates the canvas header fields after a resize.
func (s *CaptureStore) SetGeometry(canvasW, canvasH, dpr float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.CanvasWidth = canvasW
	s.session.CanvasHeight = canvasH
	s.session.DevicePixelRatio = dpr
}

func (s *CaptureStore) TrialOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trial >= 0
}

func (s *CaptureStore) StrokeOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trial >= 0 && s.strokeOpen
}

// CurrentTrial returns the open trial number, or 0.
func (s *CaptureStore) CurrentTrial() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.current(); t != nil {
		return t.TrialNumber
	}
	return 0
}

func (s *CaptureStore) Summary() domain.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Summarize(s.session.Clone(), s.timeline.Now())
}

// Snapshot returns a deep copy suitable for export.
func (s *CaptureStore) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

func (s *CaptureStore) current() *domain.Trial {
	if s.trial < 0 {
		return nil
	}
	return &s.session.Trials[s.trial]
}

func (s *CaptureStore) endStroke(t *domain.Trial) {
	last := len(t.Strokes) - 1
	if len(t.Strokes[last].Points) == 0 {
		t.Strokes = t.Strokes[:last]
	} else {
		st := &t.Strokes[last]
		end := math.Max(s.timeline.Now(), st.StartTime)
		st.EndTime = &end
	}
	s.strokeOpen = false
}

func (s *CaptureStore) reject(err error) error {
	if s.opts.Strict {
		return err
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
