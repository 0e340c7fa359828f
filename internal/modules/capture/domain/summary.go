package domain

type TrialSummary struct {
	TrialNumber int
	DurationMS  float64
	Strokes     int
	Points      int
	GazeSamples int
	Actions     int
	Open        bool
}

type SessionSummary struct {
	ParticipantID string
	Trials        []TrialSummary
}

func (s SessionSummary) Totals() TrialSummary {
	total := TrialSummary{}
	for _, t := range s.Trials {
		total.DurationMS += t.DurationMS
		total.Strokes += t.Strokes
		total.Points += t.Points
		total.GazeSamples += t.GazeSamples
		total.Actions += t.Actions
	}
	return total
}

// Summarize derives per-trial counts. An open trial is measured up to now or
// its latest recorded timestamp, whichever is later, so exported sessions can
// be summarised without a live clock.
func Summarize(s Session, now float64) SessionSummary {
	out := SessionSummary{ParticipantID: s.ParticipantID, Trials: make([]TrialSummary, 0, len(s.Trials))}
	for _, t := range s.Trials {
		ts := TrialSummary{
			TrialNumber: t.TrialNumber,
			Strokes:     len(t.Strokes),
			GazeSamples: len(t.GazeData),
			Actions:     len(t.Actions),
			Open:        t.Open(),
		}
		for _, st := range t.Strokes {
			ts.Points += len(st.Points)
		}
		end := now
		if t.EndTime != nil {
			end = *t.EndTime
		} else if last := t.LastActivity(); last > end {
			end = last
		}
		if end > t.StartTime {
			ts.DurationMS = end - t.StartTime
		}
		out.Trials = append(out.Trials, ts)
	}
	return out
}

// LastActivity is the latest timestamp recorded anywhere in the trial.
func (t Trial) LastActivity() float64 {
	last := t.StartTime
	bump := func(v float64) {
		if v > last {
			last = v
		}
	}
	if t.EndTime != nil {
		bump(*t.EndTime)
	}
	for _, st := range t.Strokes {
		bump(st.StartTime)
		if st.EndTime != nil {
			bump(*st.EndTime)
		}
		if n := len(st.Points); n > 0 {
			bump(st.Points[n-1].Time)
		}
	}
	for _, a := range t.Actions {
		bump(a.Time)
	}
	for _, g := range t.GazeData {
		bump(g.Time)
	}
	return last
}
