package types

import (
	"fmt"
	"strings"
)

// CodecType names a codec flavor; configuration maps it to a component name.
type CodecType uint32

const (
	UndefinedCodecType CodecType = iota
	CodecTypeH264VideoEncode
	CodecTypeH265VideoEncode
	CodecTypeHEICVideoEncode
	CodecTypeH264VideoDecode
	CodecTypeH265VideoDecode
	CodecTypeAACAudioEncode
	CodecTypeAACAudioDecode
	EndOfCodecType
)

func (t CodecType) String() string {
	switch t {
	case UndefinedCodecType:
		return "<undefined>"
	case CodecTypeH264VideoEncode:
		return "h264_encode"
	case CodecTypeH265VideoEncode:
		return "h265_encode"
	case CodecTypeHEICVideoEncode:
		return "heic_encode"
	case CodecTypeH264VideoDecode:
		return "h264_decode"
	case CodecTypeH265VideoDecode:
		return "h265_decode"
	case CodecTypeAACAudioEncode:
		return "aac_encode"
	case CodecTypeAACAudioDecode:
		return "aac_decode"
	default:
		return fmt.Sprintf("<unexpected_%d>", uint32(t))
	}
}

// Mode returns the work mode a component of this codec type runs in.
func (t CodecType) Mode() Mode {
	switch t {
	case CodecTypeH264VideoDecode, CodecTypeH265VideoDecode:
		return ModeVideoDecode
	case CodecTypeAACAudioEncode:
		return ModeAudioEncode
	case CodecTypeAACAudioDecode:
		return ModeAudioDecode
	default:
		return ModeVideoEncode
	}
}

func (t *CodecType) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for c := UndefinedCodecType + 1; c < EndOfCodecType; c++ {
		if c.String() == s {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown codec type '%s'", b)
}

func (t CodecType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
