// Package tracing turns the hook reports of the memory hierarchy into logs
// and database records.
package tracing

import (
	"log"

	"github.com/sarchlab/memhier/sim/hooking"
)

// LogHookBase provides the common logic for all log hooks.
type LogHookBase struct {
	*log.Logger
}

// AccessLogger is a hook that prints every access, fill, eviction,
// write-back, and flush.
type AccessLogger struct {
	LogHookBase

	positions map[*hooking.HookPos]bool
}

// NewAccessLogger returns a new AccessLogger which will write in to the
// logger. With no position given, it logs every position.
func NewAccessLogger(logger *log.Logger, positions ...*hooking.HookPos) *AccessLogger {
	h := new(AccessLogger)
	h.Logger = logger

	if len(positions) > 0 {
		h.positions = make(map[*hooking.HookPos]bool)
		for _, p := range positions {
			h.positions[p] = true
		}
	}

	return h
}

// Func writes the access information into the logger.
func (h *AccessLogger) Func(ctx hooking.HookCtx) {
	if h.positions != nil && !h.positions[ctx.Pos] {
		return
	}

	access, ok := ctx.Item.(hooking.Access)
	if !ok {
		return
	}

	if access.Status == "" {
		h.Logger.Printf("%s %s 0x%x set=%d way=%d",
			access.Where, access.What, access.Address,
			access.SetID, access.WayID)

		return
	}

	h.Logger.Printf("%s %s 0x%x set=%d way=%d %s",
		access.Where, access.What, access.Address,
		access.SetID, access.WayID, access.Status)
}
