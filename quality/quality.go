// quality.go defines the interface for encoder quality settings.

// Package quality turns encoder quality settings into component parameters.
package quality

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/xaionaro-go/c2module/types"
)

// BitrateMode follows the numbering of the platform's rate control modes.
type BitrateMode uint32

const (
	BitrateModeConstantQuality BitrateMode = 0
	BitrateModeVariable        BitrateMode = 1
	BitrateModeConstant        BitrateMode = 2
)

// ParamIndices are the indices of the encoder parameters in the vendor's
// component interface.
type ParamIndices struct {
	BitrateMode types.ParamIndex `yaml:"bitrate_mode"`
	Bitrate     types.ParamIndex `yaml:"bitrate"`
	Quality     types.ParamIndex `yaml:"quality"`
}

type Quality interface {
	typeName() string

	// Params returns the parameters to apply to an encoder.
	Params(ParamIndices) []types.Param
}

type valueSetter interface {
	setValues(vq qualitySerializable) error
}

type qualitySerializable map[string]any

func (vq qualitySerializable) typeName() string {
	result, _ := vq["type"].(string)
	return result
}

func (vq qualitySerializable) setValues(in qualitySerializable) error {
	for k := range vq {
		delete(vq, k)
	}
	for k, v := range in {
		vq[k] = v
	}
	return nil
}

func (vq qualitySerializable) Convert() (Quality, error) {
	typeName, ok := vq["type"].(string)
	if !ok {
		return nil, fmt.Errorf("field 'type' is not set")
	}

	var r Quality
	for _, sample := range []Quality{
		ptr(ConstantBitrate(0)),
		ptr(VariableBitrate(0)),
		ptr(ConstantQuality(0)),
	} {
		if sample.typeName() == typeName {
			r = sample
			break
		}
	}
	if r == nil {
		return nil, fmt.Errorf("unknown type '%s'", typeName)
	}

	if err := r.(valueSetter).setValues(vq); err != nil {
		return nil, fmt.Errorf("unable to convert the value: %w", err)
	}
	return reflect.ValueOf(r).Elem().Interface().(Quality), nil
}

// Parse parses a JSON object like {"type":"constant_bitrate","bitrate":4000000}.
func Parse(b []byte) (Quality, error) {
	var vq qualitySerializable
	if err := json.Unmarshal(b, &vq); err != nil {
		return nil, fmt.Errorf("unable to unmarshal '%s': %w", b, err)
	}
	return vq.Convert()
}
