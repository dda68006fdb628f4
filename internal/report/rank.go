package report

import (
	"math"
	"sort"
)

// Slot is a position on the colour gradient, best first.
type Slot int

const (
	SlotBest Slot = iota
	SlotGood
	SlotNeutral
	SlotBad
	SlotWorst
)

// Order returns the indices of values from best to worst. NaN is always
// worst; ties keep their column order.
func Order(values []float64, higherIsBetter bool) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranksBefore(values[order[a]], values[order[b]], higherIsBetter)
	})
	return order
}

func ranksBefore(a, b float64, higherIsBetter bool) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	case higherIsBetter:
		return a > b
	default:
		return a < b
	}
}

// Slots assigns a gradient slot to every value. The best and worst positions
// take the ends of the gradient, the next (n-2)/3 positions on each side the
// milder colours, everything else is neutral. With five columns that is
// exactly one column per slot.
//
// Equal values share a slot. If a tie straddles two slots the whole group is
// neutral, so identical measurements never look different.
func Slots(values []float64, higherIsBetter bool) []Slot {
	n := len(values)
	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = SlotNeutral
	}
	if n < 2 {
		return slots
	}

	order := Order(values, higherIsBetter)
	for start := 0; start < n; {
		end := start + 1
		for end < n && sameValue(values[order[end]], values[order[start]]) {
			end++
		}

		slot := positionSlot(start, n)
		for p := start + 1; p < end; p++ {
			if positionSlot(p, n) != slot {
				slot = SlotNeutral
				break
			}
		}
		for p := start; p < end; p++ {
			slots[order[p]] = slot
		}
		start = end
	}
	return slots
}

func positionSlot(pos, n int) Slot {
	band := (n-2)/3 + 1
	switch {
	case pos == 0:
		return SlotBest
	case pos == n-1:
		return SlotWorst
	case pos < band:
		return SlotGood
	case pos >= n-band:
		return SlotBad
	default:
		return SlotNeutral
	}
}

func sameValue(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}
