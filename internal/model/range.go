package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRangeOrder indicates a range whose start falls after its end.
var ErrRangeOrder = errors.New("range start is after end")

// Bound is implemented by the value domains a Range can span.
type Bound[T any] interface {
	Compare(other T) int
	String() string
}

// Range is a closed interval with start <= end.
type Range[T Bound[T]] struct {
	start T
	end   T
}

// Built is the result of BuildRange. When Wraps is false, Range holds the
// validated interval. When Wraps is true the pair crosses the end of its
// domain and Start/End carry it unchanged so the caller can split it.
type Built[T Bound[T]] struct {
	Range Range[T]
	Start T
	End   T
	Wraps bool
}

// BuildRange validates start <= end.
func BuildRange[T Bound[T]](start, end T) Built[T] {
	if start.Compare(end) > 0 {
		return Built[T]{Start: start, End: end, Wraps: true}
	}
	return Built[T]{
		Range: Range[T]{start: start, end: end},
		Start: start,
		End:   end,
	}
}

// NewRange returns the validated interval or ErrRangeOrder.
func NewRange[T Bound[T]](start, end T) (Range[T], error) {
	b := BuildRange(start, end)
	if b.Wraps {
		return Range[T]{}, fmt.Errorf("%w: %s > %s", ErrRangeOrder, start, end)
	}
	return b.Range, nil
}

// Resolve builds the interval from start to end. A pair that wraps past the
// end of its domain becomes two intervals, (start, ceil) and (floor, end).
func Resolve[T Bound[T]](start, end, floor, ceil T) ([]Range[T], error) {
	b := BuildRange(start, end)
	if !b.Wraps {
		return []Range[T]{b.Range}, nil
	}

	head := BuildRange(b.Start, ceil)
	tail := BuildRange(floor, b.End)
	if head.Wraps || tail.Wraps {
		return nil, fmt.Errorf("%w: %s-%s outside %s-%s", ErrRangeOrder, start, end, floor, ceil)
	}
	return []Range[T]{head.Range, tail.Range}, nil
}

// Start returns the lower bound.
func (r Range[T]) Start() T { return r.start }

// End returns the upper bound.
func (r Range[T]) End() T { return r.end }

// SetStart moves the lower bound, refusing to pass the current end.
func (r *Range[T]) SetStart(v T) error {
	if v.Compare(r.end) > 0 {
		return fmt.Errorf("%w: %s > %s", ErrRangeOrder, v, r.end)
	}
	r.start = v
	return nil
}

// SetEnd moves the upper bound, refusing to pass the current start.
func (r *Range[T]) SetEnd(v T) error {
	if r.start.Compare(v) > 0 {
		return fmt.Errorf("%w: %s > %s", ErrRangeOrder, r.start, v)
	}
	r.end = v
	return nil
}

// Contains reports whether v lies within the closed interval.
func (r Range[T]) Contains(v T) bool {
	return r.start.Compare(v) <= 0 && v.Compare(r.end) <= 0
}

func (r Range[T]) String() string {
	return r.start.String() + "-" + r.end.String()
}

// Export returns the range as a nested map.
func (r Range[T]) Export() map[string]any {
	return map[string]any{
		"start": r.start.String(),
		"end":   r.end.String(),
	}
}

// MarshalJSON encodes the range as {"start": ..., "end": ...}.
func (r Range[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Export())
}
