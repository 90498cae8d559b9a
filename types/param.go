package types

import (
	"fmt"
)

// ParamIndex identifies a configuration parameter of a component.
type ParamIndex uint32

func (idx ParamIndex) String() string {
	switch idx {
	case ParamIndexPortBlockPoolsOutput:
		return "output.buffers.pool-ids"
	default:
		return fmt.Sprintf("0x%08X", uint32(idx))
	}
}

const (
	// ParamIndexPortBlockPoolsOutput is the index of PortBlockPoolsTuning
	// applied to the output port.
	ParamIndexPortBlockPoolsOutput ParamIndex = 0xD2010008
)

// Param is an opaque configuration parameter. Only its index is interpreted
// by the session manager.
type Param interface {
	Index() ParamIndex
}

// RawParam is a parameter carried as an index plus an opaque payload.
type RawParam struct {
	ParamIndex ParamIndex
	Value      []byte
}

var _ Param = (*RawParam)(nil)

func (p *RawParam) Index() ParamIndex {
	return p.ParamIndex
}

// PortBlockPoolsTuning registers block pools with the component's output port.
type PortBlockPoolsTuning struct {
	PoolIDs []BlockPoolLocalID
}

var _ Param = (*PortBlockPoolsTuning)(nil)

func (p *PortBlockPoolsTuning) Index() ParamIndex {
	return ParamIndexPortBlockPoolsOutput
}

// SettingFailure describes why a parameter could not be applied.
type SettingFailure uint32

const (
	SettingFailureReadOnly SettingFailure = iota
	SettingFailureMismatch
	SettingFailureBadValue
	SettingFailureBadType
	SettingFailureBadPort
	SettingFailureBadIndex
	SettingFailureInfoConflict
	SettingFailureConflict
	SettingFailureUnsupported
	SettingFailureInfoBadValue
)

func (f SettingFailure) String() string {
	switch f {
	case SettingFailureReadOnly:
		return "read_only"
	case SettingFailureMismatch:
		return "mismatch"
	case SettingFailureBadValue:
		return "bad_value"
	case SettingFailureBadType:
		return "bad_type"
	case SettingFailureBadPort:
		return "bad_port"
	case SettingFailureBadIndex:
		return "bad_index"
	case SettingFailureInfoConflict:
		return "info_conflict"
	case SettingFailureConflict:
		return "conflict"
	case SettingFailureUnsupported:
		return "unsupported"
	case SettingFailureInfoBadValue:
		return "info_bad_value"
	default:
		return fmt.Sprintf("<unexpected_%d>", uint32(f))
	}
}

// SettingResult is a per-parameter failure entry returned by a config call
// or reported with a trip.
type SettingResult struct {
	Index   ParamIndex
	Failure SettingFailure
}

func (r SettingResult) String() string {
	return fmt.Sprintf("%s:%s", r.Index, r.Failure)
}

// Uint32Param is a scalar parameter, e.g. a bitrate or a bitrate mode.
type Uint32Param struct {
	ParamIndex ParamIndex
	Value      uint32
}

var _ Param = (*Uint32Param)(nil)

func (p *Uint32Param) Index() ParamIndex {
	return p.ParamIndex
}

func (p *Uint32Param) String() string {
	return fmt.Sprintf("%s=%d", p.ParamIndex, p.Value)
}
