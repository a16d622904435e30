// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nn

import "github.com/BotaiXiong/Simd/hwy"

// AddBias adds bias[c] to every element of channel c of a channel-major
// tensor: dst is [channels][spatial] and each channel's spatial block is
// contiguous.
//
// A nil bias is a no-op. It panics if dst or bias is too short.
func AddBias(bias []float32, channels, spatial int, dst []float32) {
	if bias == nil {
		return
	}
	if len(bias) < channels {
		panic("nn: bias slice too short")
	}
	if len(dst) < channels*spatial {
		panic("nn: dst slice too short")
	}

	lanes := hwy.MaxLanes[float32]()
	spatialF := hwy.AlignLo[float32](spatial)
	for c := range channels {
		row := dst[c*spatial : (c+1)*spatial]
		b := bias[c]
		vB := hwy.Set(b)
		var i int
		for i = 0; i < spatialF; i += lanes {
			hwy.Store(hwy.Add(hwy.Load(row[i:]), vB), row[i:])
		}
		if i < spatial {
			mask := hwy.TailMask[float32](spatial - i)
			v := hwy.MaskLoad(mask, row[i:])
			hwy.MaskStore(mask, hwy.Add(v, vB), row[i:])
		}
	}
}
