package quest

import (
	"time"

	"github.com/dukerupert/questboard/internal/model"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusNotDue    Status = "not_due"
)

// ComputeStatus determines the status and current due date for a quest given
// its last completion. One-time quests have no due date.
func ComputeStatus(q model.Quest, lastCompletion *time.Time, today time.Time) (Status, *time.Time) {
	today = startOfDay(today)

	if q.Recurrence == nil {
		if lastCompletion != nil {
			return StatusCompleted, nil
		}
		return StatusPending, nil
	}

	due := currentDue(q.Recurrence, startOfDay(q.CreatedAt.In(today.Location())), today)
	if due == nil {
		return StatusNotDue, nil
	}

	if lastCompletion != nil && dayNumber(lastCompletion.In(today.Location())) >= dayNumber(*due) {
		return StatusCompleted, due
	}
	if due.Before(today) {
		return StatusOverdue, due
	}
	return StatusPending, due
}

// IsDueOn reports whether a chore has an occurrence on date. One-time quests
// are always due until completed.
func IsDueOn(q model.Quest, date time.Time) bool {
	if q.Recurrence == nil {
		return true
	}
	day := startOfDay(date)
	due := currentDue(q.Recurrence, startOfDay(q.CreatedAt.In(day.Location())), day)
	return due != nil && due.Equal(day)
}

// NextStreak returns the streak after a completion at now, given the hero's
// previous completion. Completing again on the same day keeps the streak,
// completing on the following day extends it, anything else restarts it.
func NextStreak(current int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	switch dayNumber(now) - dayNumber(last.In(now.Location())) {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

// currentDue finds the latest occurrence on or before today, or nil when the
// first occurrence is still ahead.
func currentDue(r *model.Recurrence, anchor, today time.Time) *time.Time {
	if today.Before(anchor) {
		return nil
	}
	n := interval(r)

	switch r.Type {
	case model.RecurDaily:
		days := dayNumber(today) - dayNumber(anchor)
		due := anchor.AddDate(0, 0, days-days%n)
		return &due

	case model.RecurWeekly:
		days := map[time.Weekday]bool{}
		for _, code := range r.Days {
			days[weekdayCodes[code]] = true
		}
		if len(days) == 0 {
			days[anchor.Weekday()] = true
		}
		anchorWeek := weekNumber(anchor)
		for d, i := today, 0; !d.Before(anchor) && i <= 7*n; d, i = d.AddDate(0, 0, -1), i+1 {
			if days[d.Weekday()] && (weekNumber(d)-anchorWeek)%n == 0 {
				due := d
				return &due
			}
		}
		return nil

	case model.RecurMonthly:
		months := (today.Year()-anchor.Year())*12 + int(today.Month()-anchor.Month())
		for i := 0; i <= n && months >= 0; i, months = i+1, months-1 {
			if months%n != 0 {
				continue
			}
			due := monthOccurrence(anchor, months)
			if due.After(today) {
				continue
			}
			if due.Before(anchor) {
				return nil
			}
			return &due
		}
		return nil
	}
	return nil
}

// monthOccurrence returns the anchor's day-of-month, months after the anchor,
// clamped to the last day of shorter months.
func monthOccurrence(anchor time.Time, months int) time.Time {
	first := time.Date(anchor.Year(), anchor.Month()+time.Month(months), 1, 0, 0, 0, 0, anchor.Location())
	last := first.AddDate(0, 1, -1).Day()
	day := anchor.Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, anchor.Location())
}

// dayNumber counts civil days since the epoch, ignoring the clock and DST.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// weekNumber counts Sunday-started weeks since the epoch.
func weekNumber(t time.Time) int {
	// 1970-01-01 was a Thursday; shift so weeks roll over on Sunday.
	return (dayNumber(t) + 4) / 7
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
