package replacement

import "fmt"

// FIFOCountdown approximates arrival order without timestamps. Each line
// starts with a countdown of ways-1 when it is inserted. Every access that
// hits another valid line of the set decrements the countdown, so the line
// that has seen the most foreign accesses since it arrived reaches 0 first.
type FIFOCountdown struct {
	counters []int
	valid    []bool
}

// NewFIFOCountdown creates a tracker for a set with numWays ways.
func NewFIFOCountdown(numWays int) *FIFOCountdown {
	if numWays <= 0 {
		panic(fmt.Sprintf("invalid number of ways %d", numWays))
	}

	f := &FIFOCountdown{
		counters: make([]int, numWays),
		valid:    make([]bool, numWays),
	}
	f.Reset()

	return f
}

// Reset sets every countdown to ways-1 and forgets all the lines.
func (f *FIFOCountdown) Reset() {
	for i := range f.counters {
		f.counters[i] = len(f.counters) - 1
		f.valid[i] = false
	}
}

// Insert restarts the countdown of a freshly filled line.
func (f *FIFOCountdown) Insert(wayID int) {
	f.wayMustBeInRange(wayID)

	f.counters[wayID] = len(f.counters) - 1
	f.valid[wayID] = true
}

// Invalidate forgets a line. An invalid line does not count down.
func (f *FIFOCountdown) Invalidate(wayID int) {
	f.wayMustBeInRange(wayID)
	f.valid[wayID] = false
}

// Touch records a hit on a way. The countdowns of all the other valid lines
// move one step closer to 0. The hit line keeps its own countdown.
func (f *FIFOCountdown) Touch(wayID int) {
	f.wayMustBeInRange(wayID)

	for i := range f.counters {
		if i == wayID || !f.valid[i] {
			continue
		}

		if f.counters[i] > 0 {
			f.counters[i]--
		}
	}
}

// Victim returns the first way whose countdown has expired. If no countdown
// has reached 0 yet, the way with the lowest countdown is chosen, the lowest
// way index winning ties.
func (f *FIFOCountdown) Victim() int {
	victim := 0

	for i, v := range f.counters {
		if v == 0 {
			return i
		}

		if v < f.counters[victim] {
			victim = i
		}
	}

	return victim
}

// Countdown returns the countdown of a way.
func (f *FIFOCountdown) Countdown(wayID int) int {
	f.wayMustBeInRange(wayID)
	return f.counters[wayID]
}

// Counters returns a copy of all the countdowns, indexed by way.
func (f *FIFOCountdown) Counters() []int {
	return append([]int(nil), f.counters...)
}

func (f *FIFOCountdown) wayMustBeInRange(wayID int) {
	if wayID < 0 || wayID >= len(f.counters) {
		panic(fmt.Sprintf("way %d out of range", wayID))
	}
}
