package quality

import (
	"encoding/json"
	"fmt"

	"github.com/xaionaro-go/c2module/types"
)

// ConstantQuality is a quality level, 0 (worst) to 100 (best).
type ConstantQuality uint8

func (ConstantQuality) typeName() string {
	return "constant_quality"
}

func (vq ConstantQuality) MarshalJSON() ([]byte, error) {
	return json.Marshal(qualitySerializable{
		"type":    vq.typeName(),
		"quality": uint(vq),
	})
}

func (vq *ConstantQuality) setValues(in qualitySerializable) error {
	quality, ok := in["quality"].(float64)
	if !ok {
		return fmt.Errorf("have not found float64 value using key 'quality' in %#+v", in)
	}
	if quality < 0 || quality > 100 {
		return fmt.Errorf("quality %v is out of range [0, 100]", quality)
	}

	*vq = ConstantQuality(quality)
	return nil
}

func (vq ConstantQuality) Params(idx ParamIndices) []types.Param {
	return []types.Param{
		&types.Uint32Param{ParamIndex: idx.BitrateMode, Value: uint32(BitrateModeConstantQuality)},
		&types.Uint32Param{ParamIndex: idx.Quality, Value: uint32(vq)},
	}
}
