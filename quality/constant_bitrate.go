package quality

import (
	"encoding/json"
	"fmt"

	"github.com/xaionaro-go/c2module/types"
)

// ConstantBitrate is a bitrate in bits per second.
type ConstantBitrate uint32

func (ConstantBitrate) typeName() string {
	return "constant_bitrate"
}

func (vq ConstantBitrate) MarshalJSON() ([]byte, error) {
	return json.Marshal(qualitySerializable{
		"type":    vq.typeName(),
		"bitrate": uint32(vq),
	})
}

func (vq *ConstantBitrate) setValues(in qualitySerializable) error {
	bitrate, ok := in["bitrate"].(float64)
	if !ok {
		return fmt.Errorf("have not found float64 value using key 'bitrate' in %#+v", in)
	}

	*vq = ConstantBitrate(bitrate)
	return nil
}

func (vq ConstantBitrate) Params(idx ParamIndices) []types.Param {
	return bitrateParams(idx, BitrateModeConstant, uint32(vq))
}

func bitrateParams(idx ParamIndices, mode BitrateMode, bitrate uint32) []types.Param {
	return []types.Param{
		&types.Uint32Param{ParamIndex: idx.BitrateMode, Value: uint32(mode)},
		&types.Uint32Param{ParamIndex: idx.Bitrate, Value: bitrate},
	}
}
