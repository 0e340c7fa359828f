package domain

import (
	"math"
	"sort"
)

// VisibleStrokes reconstructs what the drawing surface showed at the end of
// a trial. Committed strokes are replayed in end-time order and interleaved
// with undo/clear actions by time; a stroke that ended at the same instant as
// an action is treated as committed first. Strokes still open are appended
// last because they were on screen when the record was taken.
//
// The capture record itself is never redacted; this is a derived view.
func VisibleStrokes(t Trial) []Stroke {
	type event struct {
		at     float64
		order  int
		stroke *Stroke
		action ActionType
	}
	events := make([]event, 0, len(t.Strokes)+len(t.Actions))
	for i := range t.Strokes {
		st := &t.Strokes[i]
		if len(st.Points) == 0 {
			continue
		}
		at := math.Inf(1)
		if st.EndTime != nil {
			at = *st.EndTime
		}
		events = append(events, event{at: at, order: 0, stroke: st})
	}
	for _, a := range t.Actions {
		events = append(events, event{at: a.Time, order: 1, action: a.Type})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].order < events[j].order
	})

	visible := make([]Stroke, 0, len(t.Strokes))
	for _, ev := range events {
		switch {
		case ev.stroke != nil:
			visible = append(visible, ev.stroke.Clone())
		case ev.action == ActionUndo:
			if len(visible) > 0 {
				visible = visible[:len(visible)-1]
			}
		case ev.action == ActionClear:
			visible = visible[:0]
		}
	}
	return visible
}
