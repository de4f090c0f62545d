package lead

import (
	"context"
	"time"
)

// Stats summarizes the lead pipeline for the admin dashboard.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
	BySource map[Source]int `json:"bySource"`
	NewLast7 int            `json:"newLast7Days"`
}

func summarize(leads []Lead, now time.Time) Stats {
	st := Stats{
		Total:    len(leads),
		ByStatus: make(map[Status]int),
		BySource: make(map[Source]int),
	}
	cutoff := now.AddDate(0, 0, -7)
	for _, l := range leads {
		st.ByStatus[l.Status]++
		st.BySource[l.Source]++
		if l.Date.After(cutoff) {
			st.NewLast7++
		}
	}
	return st
}

// Stats counts the leads visible through List.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	leads, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	st := summarize(leads, s.now())
	return &st, nil
}
