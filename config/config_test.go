package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/c2module/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	lib, err := cfg.Library(types.DeviceClassVideo)
	require.NoError(t, err)
	require.Equal(t, "libqcodec2_core.so", lib.Path)
	require.Equal(t, "QC2ComponentStoreFactoryGetter", lib.Symbol)

	lib, err = cfg.Library(types.DeviceClassAudio)
	require.NoError(t, err)
	require.Equal(t, "libqc2audio_core.so", lib.Path)

	name, err := cfg.ComponentName(types.CodecTypeHEICVideoEncode)
	require.NoError(t, err)
	require.Equal(t, "c2.qti.heic.encoder", name)
	require.Equal(t, Version{Major: 1, Minor: 0}, cfg.StoreFactoryVersion)
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
libraries:
  video:
    path: /vendor/lib64/libcustom.so
    symbol: CustomGetter
components:
  h264_encode: c2.vendor.avc.encoder
heif_supported: true
`))
	require.NoError(t, err)

	lib, err := cfg.Library(types.DeviceClassVideo)
	require.NoError(t, err)
	require.Equal(t, Library{Path: "/vendor/lib64/libcustom.so", Symbol: "CustomGetter"}, lib)

	// untouched entries keep their defaults
	lib, err = cfg.Library(types.DeviceClassAudio)
	require.NoError(t, err)
	require.Equal(t, "libqc2audio_core.so", lib.Path)

	name, err := cfg.ComponentName(types.CodecTypeH264VideoEncode)
	require.NoError(t, err)
	require.Equal(t, "c2.vendor.avc.encoder", name)
	require.True(t, cfg.HEIFSupported)
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader(`
components:
  vp9_encode: c2.vendor.vp9.encoder
`))
	require.Error(t, err)

	_, err = Load(strings.NewReader(`
libraries:
  video:
    path: libfoo.so
`))
	require.Error(t, err)
}

func TestWriteToRoundTrip(t *testing.T) {
	var buf strings.Builder
	_, err := Default().WriteTo(&buf)
	require.NoError(t, err)

	cfg, err := Load(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadEncoderParams(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
encoder_params:
  bitrate: 0x7F001000
`))
	require.NoError(t, err)
	require.EqualValues(t, 0x7F001000, cfg.EncoderParams.Bitrate)
	require.Equal(t, Default().EncoderParams.BitrateMode, cfg.EncoderParams.BitrateMode)
}
