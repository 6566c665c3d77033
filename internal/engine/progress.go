package engine

import (
	"math"
	"time"
)

// Progress describes how far current is toward target.
type Progress struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	// Ratio is current/target without clamping.
	Ratio     float64 `json:"ratio"`
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
	Achieved  bool    `json:"achieved"`
}

// Progress computes the progress of current toward target. Percent is
// clamped to [0, 100].
func (s *Service) Progress(current, target float64) Progress {
	p := Progress{
		Current:   current,
		Target:    target,
		Percent:   percentOf(target, current),
		Remaining: math.Max(target-current, 0),
		Achieved:  current >= target,
	}
	if target != 0 {
		p.Ratio = current / target
	}
	return p
}

// percentOf clamps current/target to [0, 100]. A zero target counts as
// reached once current is non-negative.
func percentOf(target, current float64) float64 {
	if target == 0 {
		if current >= 0 {
			return 100
		}
		return 0
	}
	ratio := current / target
	switch {
	case math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 0:
		return 0
	case ratio > 1:
		return 100
	}
	return ratio * 100
}

// TimeRemaining is the calendar distance to a goal's end date.
type TimeRemaining struct {
	EndDate string `json:"end_date"`
	Days    int    `json:"days"`
	Weeks   int    `json:"weeks"`
	Months  int    `json:"months"`
	Expired bool   `json:"expired"`
}

// TimeRemaining returns the whole days, weeks and calendar months left
// until end, measured from the service clock.
func (s *Service) TimeRemaining(end time.Time) TimeRemaining {
	now := s.now()
	tr := TimeRemaining{EndDate: end.Format("2006-01-02")}
	if !end.After(now) {
		tr.Expired = true
		return tr
	}

	tr.Days = int(math.Ceil(end.Sub(now).Hours() / 24))
	tr.Weeks = tr.Days / 7

	end = end.In(now.Location())
	months := (end.Year()-now.Year())*12 + int(end.Month()) - int(now.Month())
	if end.Day() < now.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	tr.Months = months
	return tr
}
