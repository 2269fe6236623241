package tracing

import (
	"sync"

	"github.com/sarchlab/memhier/datarecording"
	"github.com/sarchlab/memhier/sim/hooking"
	"github.com/sarchlab/memhier/sim/id"
)

// AccessTableName is the table that AccessRecorder writes to.
const AccessTableName = "access"

// AccessRecord is one row of the access table.
type AccessRecord struct {
	ID       string
	Seq      uint64
	Position string
	Location string
	What     string
	Address  uint64
	SetID    int
	WayID    int
	Status   string
}

// AccessRecorder is a hook that stores every report into a DataRecorder.
type AccessRecorder struct {
	lock    sync.Mutex
	backend datarecording.DataRecorder
	idGen   id.IDGenerator
	seq     uint64
}

// NewAccessRecorder creates the access table in the backend and returns a
// hook that fills it.
func NewAccessRecorder(backend datarecording.DataRecorder) *AccessRecorder {
	backend.CreateTable(AccessTableName, AccessRecord{})

	return &AccessRecorder{
		backend: backend,
		idGen:   id.NewXIDGenerator(),
	}
}

// Func records the access carried by the hook context.
func (r *AccessRecorder) Func(ctx hooking.HookCtx) {
	access, ok := ctx.Item.(hooking.Access)
	if !ok {
		return
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.seq++
	r.backend.InsertData(AccessTableName, AccessRecord{
		ID:       r.idGen.Generate(),
		Seq:      r.seq,
		Position: ctx.Pos.Name,
		Location: access.Where,
		What:     access.What,
		Address:  access.Address,
		SetID:    access.SetID,
		WayID:    access.WayID,
		Status:   access.Status,
	})
}

// NumRecords returns how many records have been inserted.
func (r *AccessRecorder) NumRecords() uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.seq
}

// Flush writes the buffered records to the database.
func (r *AccessRecorder) Flush() {
	r.backend.Flush()
}
