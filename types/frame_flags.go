package types

import (
	"strings"
)

// FrameFlags are the per-frame flags carried by FrameData (Codec2's flags_t).
type FrameFlags uint32

const (
	FrameFlagDropFrame    FrameFlags = 1 << 0
	FrameFlagEndOfStream  FrameFlags = 1 << 1
	FrameFlagDiscardFrame FrameFlags = 1 << 2
	FrameFlagIncomplete   FrameFlags = 1 << 3
	FrameFlagCorrupt      FrameFlags = 1 << 4
	FrameFlagCodecConfig  FrameFlags = 1 << 31
)

func (f FrameFlags) Has(flag FrameFlags) bool {
	return f&flag != 0
}

func (f FrameFlags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, item := range []struct {
		Flag FrameFlags
		Name string
	}{
		{FrameFlagDropFrame, "drop"},
		{FrameFlagEndOfStream, "eos"},
		{FrameFlagDiscardFrame, "discard"},
		{FrameFlagIncomplete, "incomplete"},
		{FrameFlagCorrupt, "corrupt"},
		{FrameFlagCodecConfig, "codec_config"},
	} {
		if f.Has(item.Flag) {
			names = append(names, item.Name)
			f &^= item.Flag
		}
	}
	if f != 0 {
		names = append(names, "unknown")
	}
	return strings.Join(names, "|")
}
