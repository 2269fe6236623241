// Package cache defines what every cache level of the hierarchy reports back
// to its caller. The levels themselves live in the writeback (L1) and
// writethrough (L2) subpackages.
package cache

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
)

// ErrWriteProtected is returned by the operations that report failures as
// errors when a write targets a read-only line or a protected set.
var ErrWriteProtected = errors.New("write protection exception")

// AccessType tells if an access reads or writes.
type AccessType int

// The access types.
const (
	Read AccessType = iota
	Write
)

func (t AccessType) String() string {
	switch t {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return fmt.Sprintf("AccessType(%d)", int(t))
	}
}

// MustBeValid panics if the access type is outside the declared domain.
func (t AccessType) MustBeValid() {
	if t != Read && t != Write {
		panic(fmt.Sprintf("unknown access type %d", int(t)))
	}
}

// Status is the outcome of a search.
type Status int

// The statuses a search can end with.
const (
	Hit Status = iota
	WriteSuccessful
	WriteProtectionException
	Miss
	MissPredetermined
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "Hit"
	case WriteSuccessful:
		return "WriteSuccessful"
	case WriteProtectionException:
		return "WriteProtectionException"
	case Miss:
		return "Miss"
	case MissPredetermined:
		return "MissPredetermined"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsMiss tells if the caller has to consult the next level.
func (s Status) IsMiss() bool {
	return s == Miss || s == MissPredetermined
}

// Result is what a search returns. Data is only set on a read Hit.
type Result struct {
	Status Status
	Data   []byte
	SetID  int
	WayID  int
}

// NewDumpWriter returns the tab-aligned writer used by the Dump methods of
// the cache and TLB levels.
func NewDumpWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
