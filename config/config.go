// Package config describes where the vendor component stores live and which
// component serves each codec type.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/xaionaro-go/c2module/quality"
	"github.com/xaionaro-go/c2module/types"
	"gopkg.in/yaml.v3"
)

// Library locates the store-factory entry point of a vendor library.
type Library struct {
	Path   string `yaml:"path"`
	Symbol string `yaml:"symbol"`
}

type Version struct {
	Major int `yaml:"major"`
	Minor int `yaml:"minor"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

type Config struct {
	// Libraries is keyed by device class ("video", "audio").
	Libraries map[string]Library `yaml:"libraries"`

	StoreFactoryVersion Version `yaml:"store_factory_version"`

	// Components maps codec types (e.g. "h264_encode") to component names.
	Components map[string]string `yaml:"components"`

	// HEIFSupported enables HEIF graphic blocks on GBM platforms.
	HEIFSupported bool `yaml:"heif_supported"`

	// EncoderParams are the indices of the rate control parameters.
	EncoderParams quality.ParamIndices `yaml:"encoder_params"`
}

func Default() *Config {
	return &Config{
		Libraries: map[string]Library{
			types.DeviceClassVideo.String(): {
				Path:   "libqcodec2_core.so",
				Symbol: "QC2ComponentStoreFactoryGetter",
			},
			types.DeviceClassAudio.String(): {
				Path:   "libqc2audio_core.so",
				Symbol: "QC2AudioComponentStoreFactoryGetter",
			},
		},
		StoreFactoryVersion: Version{Major: 1, Minor: 0},
		Components: map[string]string{
			types.CodecTypeH264VideoEncode.String(): "c2.qti.avc.encoder",
			types.CodecTypeH265VideoEncode.String(): "c2.qti.hevc.encoder",
			types.CodecTypeHEICVideoEncode.String(): "c2.qti.heic.encoder",
			types.CodecTypeH264VideoDecode.String(): "c2.qti.avc.decoder",
			types.CodecTypeH265VideoDecode.String(): "c2.qti.hevc.decoder",
			types.CodecTypeAACAudioEncode.String():  "c2.qti.aac.hw.encoder",
			types.CodecTypeAACAudioDecode.String():  "c2.qti.aac.hw.decoder",
		},
		EncoderParams: quality.ParamIndices{
			BitrateMode: 0xD2001D00,
			Bitrate:     0xD2001000,
			Quality:     0xD2001D01,
		},
	}
}

// Load reads a YAML document on top of Default().
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("unable to decode the config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open the config file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (cfg *Config) Validate() error {
	for _, class := range []types.DeviceClass{types.DeviceClassVideo, types.DeviceClassAudio} {
		lib, ok := cfg.Libraries[class.String()]
		if !ok {
			continue
		}
		if lib.Path == "" || lib.Symbol == "" {
			return fmt.Errorf("the %s library needs both a path and a symbol", class)
		}
	}
	for key := range cfg.Libraries {
		var class types.DeviceClass
		if err := class.UnmarshalText([]byte(key)); err != nil {
			return err
		}
	}
	for key := range cfg.Components {
		var codecType types.CodecType
		if err := codecType.UnmarshalText([]byte(key)); err != nil {
			return err
		}
	}
	return nil
}

// Library returns the library serving the device class.
func (cfg *Config) Library(class types.DeviceClass) (Library, error) {
	lib, ok := cfg.Libraries[class.String()]
	if !ok {
		return Library{}, fmt.Errorf("no library is configured for device class %s", class)
	}
	return lib, nil
}

func (cfg *Config) ComponentName(codecType types.CodecType) (string, error) {
	name, ok := cfg.Components[codecType.String()]
	if !ok || name == "" {
		return "", fmt.Errorf("no component is configured for %s", codecType)
	}
	return name, nil
}

func (cfg *Config) WriteTo(w io.Writer) (int64, error) {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}
