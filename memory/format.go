package memory

import (
	"github.com/xaionaro-go/c2module/types"
)

// FormatMapper translates a logical pixel format into the allocator's
// concrete format and the usage bits it needs on top of CPU read/write.
type FormatMapper interface {
	MapFormat(format types.PixelFormat, isHEIF bool) (allocatorFormat uint32, extraUsage uint64, err error)
}

func fourcc(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

var (
	GBMFormatNV12                  = fourcc('N', 'V', '1', '2')
	GBMFormatImplementationDefined = fourcc('I', 'M', 'P', 'L')
	GBMFormatYCbCr420P010Venus     = fourcc('P', '0', '1', '0')
	GBMFormatYCbCr420TP10UBWC      = fourcc('Q', '1', '0', 'U')
)

const (
	GBMUsageUBWCAlignedQTI uint64 = 0x08000000
	GBMUsagePrivateHEIF    uint64 = 0x00100000
)

// GBMFormatMapper maps formats for GBM-backed allocators.
type GBMFormatMapper struct {
	// HEIFSupported tells if the platform GBM knows the private HEIF usage bit.
	HEIFSupported bool
}

var _ FormatMapper = GBMFormatMapper{}

func (m GBMFormatMapper) MapFormat(
	format types.PixelFormat,
	isHEIF bool,
) (uint32, uint64, error) {
	switch format {
	case types.PixelFormatNV12:
		if !isHEIF {
			return GBMFormatNV12, 0, nil
		}
		if !m.HEIFSupported {
			return 0, 0, ErrUnsupportedFormat{Format: format, Reason: "HEIF is not supported in GBM"}
		}
		return GBMFormatImplementationDefined, GBMUsagePrivateHEIF, nil
	case types.PixelFormatNV12UBWC:
		return GBMFormatNV12, GBMUsageUBWCAlignedQTI, nil
	case types.PixelFormatP010:
		return GBMFormatYCbCr420P010Venus, 0, nil
	case types.PixelFormatTP10UBWC:
		return GBMFormatYCbCr420TP10UBWC, GBMUsageUBWCAlignedQTI, nil
	}
	return 0, 0, ErrUnsupportedFormat{Format: format}
}

// PassthroughFormatMapper hands the logical format to the allocator as is.
type PassthroughFormatMapper struct{}

var _ FormatMapper = PassthroughFormatMapper{}

func (PassthroughFormatMapper) MapFormat(
	format types.PixelFormat,
	isHEIF bool,
) (uint32, uint64, error) {
	return uint32(format), 0, nil
}
