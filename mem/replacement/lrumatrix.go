package replacement

import (
	"fmt"
	"strings"
)

// LRUMatrix is the hardware square-matrix LRU. Cell [i][j] is set when way i
// was accessed more recently than way j. The least recently used way is the
// one whose row is all zero.
type LRUMatrix struct {
	bits [][]bool
}

// NewLRUMatrix creates a numWays x numWays matrix with all bits cleared.
func NewLRUMatrix(numWays int) *LRUMatrix {
	if numWays <= 0 {
		panic(fmt.Sprintf("invalid number of ways %d", numWays))
	}

	m := &LRUMatrix{
		bits: make([][]bool, numWays),
	}

	for i := range m.bits {
		m.bits[i] = make([]bool, numWays)
	}

	return m
}

// Reset clears every bit.
func (m *LRUMatrix) Reset() {
	for i := range m.bits {
		for j := range m.bits[i] {
			m.bits[i][j] = false
		}
	}
}

// Touch sets row wayID and then clears column wayID, making the way more
// recent than every other way.
func (m *LRUMatrix) Touch(wayID int) {
	m.wayMustBeInRange(wayID)

	for j := range m.bits[wayID] {
		m.bits[wayID][j] = true
	}

	for i := range m.bits {
		m.bits[i][wayID] = false
	}
}

// Victim returns the first way whose row is all zero.
func (m *LRUMatrix) Victim() int {
	for i, row := range m.bits {
		if isAllZero(row) {
			return i
		}
	}

	panic("LRU matrix has no all-zero row")
}

func isAllZero(row []bool) bool {
	for _, b := range row {
		if b {
			return false
		}
	}

	return true
}

// MoreRecent tells if way i was accessed more recently than way j.
func (m *LRUMatrix) MoreRecent(i, j int) bool {
	m.wayMustBeInRange(i)
	m.wayMustBeInRange(j)

	return m.bits[i][j]
}

// String renders the matrix as one line of 0s and 1s per row.
func (m *LRUMatrix) String() string {
	sb := strings.Builder{}

	for i, row := range m.bits {
		if i > 0 {
			sb.WriteByte('\n')
		}

		for _, b := range row {
			if b {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}

	return sb.String()
}

func (m *LRUMatrix) wayMustBeInRange(wayID int) {
	if wayID < 0 || wayID >= len(m.bits) {
		panic(fmt.Sprintf("way %d out of range", wayID))
	}
}
