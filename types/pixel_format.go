package types

import (
	"fmt"
	"strings"
)

// PixelFormat is a logical pixel format as understood by the vendor components.
type PixelFormat uint32

const (
	PixelFormatUnknown  PixelFormat = 0
	PixelFormatRGBA     PixelFormat = 1
	PixelFormatRGBAUBWC PixelFormat = 0xC2000000
	PixelFormatNV12     PixelFormat = 0x7FA30C04
	PixelFormatNV12UBWC PixelFormat = 0x7FA30C06
	PixelFormatTP10UBWC PixelFormat = 0x7FA30C09
	PixelFormatP010     PixelFormat = 0x7FA30C0A
	PixelFormatYV12     PixelFormat = 842094169
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatUnknown:
		return "unknown"
	case PixelFormatRGBA:
		return "rgba"
	case PixelFormatRGBAUBWC:
		return "rgba_ubwc"
	case PixelFormatNV12:
		return "nv12"
	case PixelFormatNV12UBWC:
		return "nv12_ubwc"
	case PixelFormatTP10UBWC:
		return "tp10_ubwc"
	case PixelFormatP010:
		return "p010"
	case PixelFormatYV12:
		return "yv12"
	default:
		return fmt.Sprintf("<unexpected_0x%08X>", uint32(f))
	}
}

func PixelFormatFromString(s string) (PixelFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range []PixelFormat{
		PixelFormatRGBA,
		PixelFormatRGBAUBWC,
		PixelFormatNV12,
		PixelFormatNV12UBWC,
		PixelFormatTP10UBWC,
		PixelFormatP010,
		PixelFormatYV12,
	} {
		if f.String() == s {
			return f, nil
		}
	}
	return PixelFormatUnknown, fmt.Errorf("unknown pixel format '%s'", s)
}
