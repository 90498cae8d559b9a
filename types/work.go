package types

// Ordinal correlates a frame across submission and completion.
//
// FrameIndex is assigned by the caller and is opaque to the session.
type Ordinal struct {
	Timestamp     uint64
	FrameIndex    uint64
	CustomOrdinal uint64
}

// FrameData is the input or output side of a work item.
type FrameData struct {
	Flags        FrameFlags
	Ordinal      Ordinal
	Buffers      []Buffer
	ConfigUpdate []Param
}

// Worklet is an output placeholder inside a Work item.
type Worklet struct {
	// Tunings are per-work configuration overrides applied before processing.
	Tunings  []Param
	Failures []SettingResult
	Output   FrameData
}

// Work is one submission unit. Once queued it belongs to the component until
// it is returned through a completion or a flush.
type Work struct {
	Input             FrameData
	Worklets          []*Worklet
	WorkletsProcessed uint32
	Result            Status
}

// Reset zeroes the work item keeping nothing that could alias a previous user.
func (w *Work) Reset() {
	*w = Work{}
}
