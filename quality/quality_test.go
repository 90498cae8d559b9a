package quality

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/c2module/types"
)

func TestParse(t *testing.T) {
	idx := ParamIndices{BitrateMode: 1, Bitrate: 2, Quality: 3}

	tests := []struct {
		name       string
		input      string
		want       Quality
		wantParams []types.Param
		wantErr    bool
	}{
		{
			name:  "constant bitrate",
			input: `{"type":"constant_bitrate","bitrate":4000000}`,
			want:  ConstantBitrate(4000000),
			wantParams: []types.Param{
				&types.Uint32Param{ParamIndex: 1, Value: uint32(BitrateModeConstant)},
				&types.Uint32Param{ParamIndex: 2, Value: 4000000},
			},
		},
		{
			name:  "variable bitrate",
			input: `{"type":"variable_bitrate","bitrate":2000000}`,
			want:  VariableBitrate(2000000),
			wantParams: []types.Param{
				&types.Uint32Param{ParamIndex: 1, Value: uint32(BitrateModeVariable)},
				&types.Uint32Param{ParamIndex: 2, Value: 2000000},
			},
		},
		{
			name:  "constant quality",
			input: `{"type":"constant_quality","quality":80}`,
			want:  ConstantQuality(80),
			wantParams: []types.Param{
				&types.Uint32Param{ParamIndex: 1, Value: uint32(BitrateModeConstantQuality)},
				&types.Uint32Param{ParamIndex: 3, Value: 80},
			},
		},
		{
			name:    "quality out of range",
			input:   `{"type":"constant_quality","quality":180}`,
			wantErr: true,
		},
		{
			name:    "unknown type",
			input:   `{"type":"lossless"}`,
			wantErr: true,
		},
		{
			name:    "missing value",
			input:   `{"type":"constant_bitrate"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantParams, got.Params(idx))

			b, err := json.Marshal(got)
			require.NoError(t, err)
			require.JSONEq(t, tt.input, string(b))
		})
	}
}
