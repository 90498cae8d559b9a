package types

import (
	"fmt"
)

// Mode is the work mode of a codec component. It is fixed for the lifetime
// of a session.
type Mode uint32

const (
	ModeVideoEncode Mode = iota
	ModeVideoDecode
	ModeAudioEncode
	ModeAudioDecode
	EndOfMode
)

func (m Mode) String() string {
	switch m {
	case ModeVideoEncode:
		return "video_encode"
	case ModeVideoDecode:
		return "video_decode"
	case ModeAudioEncode:
		return "audio_encode"
	case ModeAudioDecode:
		return "audio_decode"
	default:
		return fmt.Sprintf("<unexpected_%d>", uint32(m))
	}
}

func (m Mode) IsValid() bool {
	return m < EndOfMode
}

func (m Mode) IsEncoder() bool {
	return m == ModeVideoEncode || m == ModeAudioEncode
}

func (m Mode) DeviceClass() DeviceClass {
	switch m {
	case ModeAudioEncode, ModeAudioDecode:
		return DeviceClassAudio
	default:
		return DeviceClassVideo
	}
}

// DeviceClass selects which vendor component store serves a mode.
type DeviceClass uint32

const (
	UndefinedDeviceClass DeviceClass = iota
	DeviceClassVideo
	DeviceClassAudio
	EndOfDeviceClass
)

func (c DeviceClass) String() string {
	switch c {
	case UndefinedDeviceClass:
		return "<undefined>"
	case DeviceClassVideo:
		return "video"
	case DeviceClassAudio:
		return "audio"
	default:
		return fmt.Sprintf("<unexpected_%d>", uint32(c))
	}
}

func (c *DeviceClass) UnmarshalText(b []byte) error {
	switch string(b) {
	case "video":
		*c = DeviceClassVideo
	case "audio":
		*c = DeviceClassAudio
	default:
		return fmt.Errorf("unknown device class '%s'", b)
	}
	return nil
}

func (c DeviceClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
