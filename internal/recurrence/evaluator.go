package recurrence

import (
	"sort"
	"time"

	"github.com/noah-isme/expert-calendar-api/internal/models"
)

// Safety limits: no rule may produce more than a year's worth of occurrences,
// and weekly evaluation gives up after a year's worth of week blocks.
const (
	MaxOccurrences = 365
	MaxInterval    = 30
	maxWeekBlocks  = 365
)

// Rule is a normalised recurrence rule ready for expansion.
type Rule struct {
	Freq     models.Frequency
	Interval int
	EndMode  models.EndMode
	Count    int
	Until    time.Time
	Weekdays []int
}

// Normalize clamps Interval and Count to their allowed ranges and, for weekly
// rules, deduplicates and sorts Weekdays, dropping out-of-range values. An
// empty or fully invalid weekday set falls back to {0}.
func (r Rule) Normalize() Rule {
	if r.Interval < 1 {
		r.Interval = 1
	}
	if r.Interval > MaxInterval {
		r.Interval = MaxInterval
	}
	if r.EndMode == models.EndModeCount {
		if r.Count < 1 {
			r.Count = 1
		}
		if r.Count > MaxOccurrences {
			r.Count = MaxOccurrences
		}
	}
	if r.Freq == models.FrequencyWeekly {
		seen := map[int]bool{}
		days := make([]int, 0, len(r.Weekdays))
		for _, d := range r.Weekdays {
			if d < 0 || d > 6 || seen[d] {
				continue
			}
			seen[d] = true
			days = append(days, d)
		}
		if len(days) == 0 {
			days = []int{0}
		}
		sort.Ints(days)
		r.Weekdays = days
	}
	return r
}

// Slot is one generated occurrence descriptor.
type Slot struct {
	StartAt time.Time
	EndAt   *time.Time
	Index   int
}

// Expand generates the ordered occurrence slots for a rule anchored at the
// given timing. The anchor's duration (when present and valid) is carried
// onto every slot; all-day anchors produce slots without an end instant.
// Indexes are assigned in emission order starting at 0. The result may be
// empty (an until bound before the anchor); the caller decides whether that
// is an error.
func Expand(anchorStart time.Time, anchorEnd *time.Time, allDay bool, rule Rule) []Slot {
	rule = rule.Normalize()
	anchorStart = anchorStart.UTC()

	var duration time.Duration
	hasEnd := false
	if !allDay && anchorEnd != nil && anchorEnd.After(anchorStart) {
		duration = anchorEnd.Sub(anchorStart)
		hasEnd = true
	}

	emit := func(slots []Slot, start time.Time) []Slot {
		slot := Slot{StartAt: start, Index: len(slots)}
		if hasEnd {
			end := start.Add(duration)
			slot.EndAt = &end
		}
		return append(slots, slot)
	}

	switch rule.Freq {
	case models.FrequencyWeekly:
		return expandWeekly(anchorStart, rule, emit)
	case models.FrequencyMonthly:
		return expandStepped(anchorStart, rule, emit, AddMonths)
	default:
		return expandStepped(anchorStart, rule, emit, func(t time.Time, n int) time.Time {
			return AddDays(t, n)
		})
	}
}

// expandStepped covers the daily and monthly frequencies: each candidate is
// the anchor stepped by k*interval units, so monthly day-of-month clamping is
// always relative to the anchor's day, never a previously clamped one.
func expandStepped(anchor time.Time, rule Rule, emit func([]Slot, time.Time) []Slot, step func(time.Time, int) time.Time) []Slot {
	var slots []Slot
	for k := 0; k < MaxOccurrences; k++ {
		if rule.EndMode == models.EndModeCount && len(slots) >= rule.Count {
			break
		}
		candidate := step(anchor, k*rule.Interval)
		if rule.EndMode == models.EndModeUntil && candidate.After(rule.Until) {
			break
		}
		slots = emit(slots, candidate)
	}
	return slots
}

// expandWeekly walks week blocks stepped by interval weeks from the week
// containing the anchor, emitting one occurrence per selected weekday in
// ascending order. Candidates before the anchor are skipped. In until mode
// the first candidate past the bound terminates the whole expansion, not
// just its own week.
func expandWeekly(anchor time.Time, rule Rule, emit func([]Slot, time.Time) []Slot) []Slot {
	weekStart := StartOfWeek(anchor)
	var slots []Slot
	for block := 0; block < maxWeekBlocks; block++ {
		blockStart := AddDays(weekStart, block*rule.Interval*7)
		for _, weekday := range rule.Weekdays {
			candidate := ProjectClock(AddDays(blockStart, weekday), anchor)
			if candidate.Before(anchor) {
				continue
			}
			if rule.EndMode == models.EndModeUntil && candidate.After(rule.Until) {
				return slots
			}
			if rule.EndMode == models.EndModeCount && len(slots) >= rule.Count {
				return slots
			}
			slots = emit(slots, candidate)
			if len(slots) >= MaxOccurrences {
				return slots
			}
		}
		if rule.EndMode == models.EndModeCount && len(slots) >= rule.Count {
			return slots
		}
	}
	return slots
}
