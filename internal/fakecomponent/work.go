package fakecomponent

import (
	"github.com/xaionaro-go/c2module/types"
)

// OutputWork builds a completed work item with a single worklet.
func OutputWork(
	frameIndex, timestamp uint64,
	flags types.FrameFlags,
	processed uint32,
	buffers ...types.Buffer,
) *types.Work {
	return &types.Work{
		Worklets: []*types.Worklet{{
			Output: types.FrameData{
				Flags: flags,
				Ordinal: types.Ordinal{
					Timestamp:  timestamp,
					FrameIndex: frameIndex,
				},
				Buffers: buffers,
			},
		}},
		WorkletsProcessed: processed,
	}
}
