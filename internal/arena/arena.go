/*
File    : cmini/internal/arena/arena.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package arena implements the monotonic bump allocator described by
// the compiler's memory model: a sequence of slots, each a contiguous
// slice, grown by geometric doubling when a request doesn't fit in the
// current slot. Nothing is freed individually; the whole arena is
// dropped at once when its owner (a Lexer or Parser value) goes out of
// scope.
//
// Arena is generic over the element type it hands out so that elements
// are ordinary, GC-tracked Go values (REDESIGN FLAG 1's "owning child
// pointers" guidance, not raw-pointer arena casts) — only the bump/grow
// bookkeeping is shared with the original's untyped byte allocator.
// Because a slot is never reallocated once grown (new capacity is
// always a fresh slice appended to the slot list), a pointer returned
// by New remains valid for the arena's whole lifetime.
package arena

import "fmt"

// MaxSlots bounds the number of slots an Arena may grow to. Exceeding
// it is treated as exhaustion, a fatal condition for the compilation
// run (error category 2 in the error taxonomy).
const MaxSlots = 12

// minSlotLen is the element count of the first slot allocated.
const minSlotLen = 64

// Arena is a monotonic bump allocator of T values. The zero value is
// ready to use.
type Arena[T any] struct {
	slots  []*[]T
	used   int // elements used in the current (last) slot
	allocs int
}

// ErrExhausted is returned when growth would require more than
// MaxSlots slots.
type ErrExhausted struct {
	Kind string
}

func (e *ErrExhausted) Error() string {
	return fmt.Sprintf("arena: %s allocator exhausted after %d slots", e.Kind, MaxSlots)
}

// New returns a pointer to a fresh zero-valued T carved from the
// arena's current slot, growing a new slot first if necessary.
func (a *Arena[T]) New() (*T, error) {
	if len(a.slots) == 0 || a.used == len(*a.slots[len(a.slots)-1]) {
		if err := a.grow(); err != nil {
			return nil, err
		}
	}
	slot := a.slots[len(a.slots)-1]
	ptr := &(*slot)[a.used]
	a.used++
	a.allocs++
	return ptr, nil
}

// grow appends a new slot sized to the smallest power-of-two doubling
// of the previous slot's length (or minSlotLen for the first slot).
func (a *Arena[T]) grow() error {
	if len(a.slots) >= MaxSlots {
		var zero T
		return &ErrExhausted{Kind: fmt.Sprintf("%T", zero)}
	}

	n := minSlotLen
	if k := len(a.slots); k > 0 {
		n = len(*a.slots[k-1]) * 2
	}

	slot := make([]T, n)
	a.slots = append(a.slots, &slot)
	a.used = 0
	return nil
}

// Slots reports how many slots the arena has grown to, for tests and
// diagnostics.
func (a *Arena[T]) Slots() int { return len(a.slots) }

// Allocs reports the number of New calls served so far.
func (a *Arena[T]) Allocs() int { return a.allocs }
