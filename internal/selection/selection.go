// Package selection implements the two-phase start/end picker as an explicit
// state machine. A selection is Idle until a valid start hour is picked,
// holds that start while awaiting an end hour, and becomes a chosen range
// once a reachable end is picked. Invalid picks never crash the interaction:
// they either leave the state untouched or surface a recoverable error.
package selection

import (
	"errors"
	"sort"
	"strings"

	"github.com/example/roombook/internal/availability"
)

// Phase discriminates the state variants.
type Phase int

const (
	// PhaseIdle means no start has been chosen.
	PhaseIdle Phase = iota
	// PhaseStartChosen means a start is held and an end is awaited.
	PhaseStartChosen
	// PhaseRangeChosen means both ends of the range are fixed.
	PhaseRangeChosen
)

// State is the selection at one point of the interaction. Start and End are
// meaningful only for the phases that carry them; End is exclusive.
type State struct {
	Phase Phase
	Start int
	End   int
}

// Idle returns the empty selection.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// StartChosen returns a selection holding only a start hour.
func StartChosen(start int) State {
	return State{Phase: PhaseStartChosen, Start: start}
}

// RangeChosen returns a completed selection with an exclusive end.
func RangeChosen(start, end int) State {
	return State{Phase: PhaseRangeChosen, Start: start, End: end}
}

// Reset discards any selection.
func Reset() State {
	return Idle()
}

// ErrRangeCrossesBusy is surfaced when a candidate end would span a booked
// slot; the held start is preserved so the user can try a different end.
var ErrRangeCrossesBusy = errors.New("selected range crosses a booked slot")

// Pick applies one hour pick to the state. Starts are confined to
// [minHour, maxHour) while the end boundary may equal maxHour exactly: a
// meeting must begin before closing time but may run up to it. Picks that
// cannot transition return the state unchanged.
func Pick(st State, hour int, busy availability.BusySet, minHour, maxHour int) (State, error) {
	switch st.Phase {
	case PhaseStartChosen:
		if hour <= st.Start {
			// Picking an earlier (or the same) hour restarts the selection
			// when that hour is itself a valid start.
			if isValidStart(hour, busy, minHour, maxHour) {
				return StartChosen(hour), nil
			}
			return st, nil
		}
		if hour > maxHour {
			return st, nil
		}
		// A busy hour cannot serve as the end boundary, except maxHour: the
		// closing instant is outside every slot and never counts as booked.
		if hour < maxHour && busy.Contains(hour) {
			return st, nil
		}
		if !availability.IsRangeFree(st.Start, hour, busy) {
			return st, ErrRangeCrossesBusy
		}
		return RangeChosen(st.Start, hour), nil
	case PhaseRangeChosen:
		// Any further pick begins a fresh selection.
		return Pick(Idle(), hour, busy, minHour, maxHour)
	default:
		if isValidStart(hour, busy, minHour, maxHour) {
			return StartChosen(hour), nil
		}
		return st, nil
	}
}

func isValidStart(hour int, busy availability.BusySet, minHour, maxHour int) bool {
	return hour >= minHour && hour < maxHour && !busy.Contains(hour)
}

// Range is a confirmed [Start, End) hour range.
type Range struct {
	Start int
	End   int
}

// ValidationError reports the rules a confirmation attempt violated, keyed by
// field.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface, naming the violated fields.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any rule violations were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// Confirm validates a completed selection against the current busy set and
// returns the range to book. Validation is independent of Pick: a state
// constructed by other means is rejected on the same rules, and a busy set
// refreshed since the range was chosen is re-checked here.
func Confirm(st State, busy availability.BusySet, minHour, maxHour int) (Range, error) {
	vErr := &ValidationError{}

	if st.Phase != PhaseRangeChosen {
		vErr.add("selection", "select a start and end time")
		return Range{}, vErr
	}

	if st.End <= st.Start {
		vErr.add("end", "end must be after start")
	}
	if st.Start < minHour {
		vErr.add("start", "start is before opening time")
	}
	if st.End > maxHour {
		vErr.add("end", "end is after closing time")
	}
	if vErr.HasErrors() {
		return Range{}, vErr
	}

	if !availability.IsRangeFree(st.Start, st.End, busy) {
		vErr.add("range", "range crosses a booked slot")
		return Range{}, vErr
	}

	return Range{Start: st.Start, End: st.End}, nil
}
