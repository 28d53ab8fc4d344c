// Package quest classifies quests and works out when a recurring chore is due.
package quest

import (
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/questboard/internal/model"
)

type Type string

const (
	TypeQuest Type = "quest"
	TypeChore Type = "chore"
)

// TypeOf reports whether q is a one-time quest or a recurring chore. Only the
// presence of a recurrence decides it.
func TypeOf(q model.Quest) Type {
	if q.Recurrence == nil {
		return TypeQuest
	}
	return TypeChore
}

var ErrInvalidRecurrence = errors.New("invalid recurrence")

var weekdayCodes = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// ValidateRecurrence accepts nil (a one-time quest) or a well-formed rule.
func ValidateRecurrence(r *model.Recurrence) error {
	if r == nil {
		return nil
	}
	switch r.Type {
	case model.RecurDaily, model.RecurWeekly, model.RecurMonthly:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRecurrence, r.Type)
	}
	if r.Interval < 0 {
		return fmt.Errorf("%w: interval must not be negative", ErrInvalidRecurrence)
	}
	if len(r.Days) > 0 && r.Type != model.RecurWeekly {
		return fmt.Errorf("%w: days only apply to weekly recurrences", ErrInvalidRecurrence)
	}
	for _, d := range r.Days {
		if _, ok := weekdayCodes[d]; !ok {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidRecurrence, d)
		}
	}
	return nil
}

func interval(r *model.Recurrence) int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}
