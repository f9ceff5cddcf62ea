package camcache

import (
	"github.com/hwsimlab/hwblocks/datarecording"
	"github.com/hwsimlab/hwblocks/hooking"
)

// A TraceEntry is one recorded resolved command.
type TraceEntry struct {
	Seq     uint64
	ReqID   string
	Index   int
	Status  string
	Found   bool
	Granted bool
	Err     string
}

// A CommandRecorder is a hook that persists every resolved command through a
// DataRecorder. Attach it with comp.AcceptHook.
type CommandRecorder struct {
	recorder  datarecording.DataRecorder
	tableName string
	seq       uint64
}

// NewCommandRecorder creates a CommandRecorder writing into tableName.
func NewCommandRecorder(
	recorder datarecording.DataRecorder,
	tableName string,
) *CommandRecorder {
	recorder.CreateTable(tableName, TraceEntry{})

	return &CommandRecorder{
		recorder:  recorder,
		tableName: tableName,
	}
}

// Func records the response carried by a command-resolved hook.
func (r *CommandRecorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosCmdResolved {
		return
	}

	rsp := ctx.Item.(Response)

	entry := TraceEntry{
		Seq:     r.seq,
		ReqID:   rsp.ReqID,
		Index:   rsp.Index,
		Status:  rsp.Status.String(),
		Found:   rsp.Found,
		Granted: rsp.Granted,
	}
	if rsp.Err != nil {
		entry.Err = rsp.Err.Error()
	}

	r.seq++
	r.recorder.InsertData(r.tableName, entry)
}
