package quality

import (
	"encoding/json"
	"fmt"

	"github.com/xaionaro-go/c2module/types"
)

// VariableBitrate is a target bitrate in bits per second.
type VariableBitrate uint32

func (VariableBitrate) typeName() string {
	return "variable_bitrate"
}

func (vq VariableBitrate) MarshalJSON() ([]byte, error) {
	return json.Marshal(qualitySerializable{
		"type":    vq.typeName(),
		"bitrate": uint32(vq),
	})
}

func (vq *VariableBitrate) setValues(in qualitySerializable) error {
	bitrate, ok := in["bitrate"].(float64)
	if !ok {
		return fmt.Errorf("have not found float64 value using key 'bitrate' in %#+v", in)
	}

	*vq = VariableBitrate(bitrate)
	return nil
}

func (vq VariableBitrate) Params(idx ParamIndices) []types.Param {
	return bitrateParams(idx, BitrateModeVariable, uint32(vq))
}
