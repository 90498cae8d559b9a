package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusIsError(t *testing.T) {
	require.NoError(t, StatusOK.Err())

	err := fmt.Errorf("queue: %w", StatusBlocking.Err())
	require.ErrorIs(t, err, StatusBlocking)

	var status Status
	require.True(t, errors.As(err, &status))
	require.Equal(t, StatusBlocking, status)
	require.Equal(t, "BLOCKING", status.String())
}

func TestFrameFlagsString(t *testing.T) {
	require.Equal(t, "none", FrameFlags(0).String())
	require.Equal(t, "eos", FrameFlagEndOfStream.String())
	require.Equal(t, "drop|codec_config", (FrameFlagDropFrame | FrameFlagCodecConfig).String())
	require.Equal(t, "corrupt|unknown", (FrameFlagCorrupt | 1<<20).String())
}

func TestCodecTypeMode(t *testing.T) {
	for c := UndefinedCodecType + 1; c < EndOfCodecType; c++ {
		var parsed CodecType
		require.NoError(t, parsed.UnmarshalText([]byte(c.String())), c)
		require.Equal(t, c, parsed)
		require.True(t, c.Mode().IsValid(), c)
	}

	require.Equal(t, ModeVideoEncode, CodecTypeHEICVideoEncode.Mode())
	require.Equal(t, ModeVideoDecode, CodecTypeH265VideoDecode.Mode())
	require.Equal(t, DeviceClassAudio, CodecTypeAACAudioDecode.Mode().DeviceClass())

	var c CodecType
	require.Error(t, c.UnmarshalText([]byte("vp9_encode")))
}

func TestWorkReset(t *testing.T) {
	w := &Work{
		Input:             FrameData{Flags: FrameFlagEndOfStream, Buffers: []Buffer{&LinearBuffer{}}},
		Worklets:          []*Worklet{{}},
		WorkletsProcessed: 1,
		Result:            StatusCorrupted,
	}
	w.Reset()
	require.Equal(t, Work{}, *w)
}
