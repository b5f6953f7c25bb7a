package engine

import "github.com/polyvoice/engine/internal/param"

// ControlMessageKind discriminates the ControlMessage union.
type ControlMessageKind int

const (
	MsgScheduleEvent ControlMessageKind = iota
	MsgSetGlobalParam
	MsgLoadSample
	MsgFreezeBuffer
)

// ControlMessage is the single wire type carried across the lock-free
// Controls -> Playhead channel, mirroring the original's ControlMessage
// enum (ScheduleEvent/SetGlobalParam/LoadSample/FreezeBuffer).
type ControlMessage struct {
	Kind ControlMessageKind

	Event ScheduledEvent // MsgScheduleEvent

	Param param.Label // MsgSetGlobalParam
	Value param.Value

	BufferID int       // MsgLoadSample / MsgFreezeBuffer
	Length   int       // MsgLoadSample
	Content  []float32 // MsgLoadSample
}
