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

import (
	"fmt"
	"testing"

	"github.com/BotaiXiong/Simd/hwy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBias(t *testing.T) {
	lanes := hwy.MaxLanes[float32]()
	for _, spatial := range []int{1, lanes - 1, lanes, lanes + 1, 3*lanes + 2} {
		t.Run(fmt.Sprintf("spatial=%d", spatial), func(t *testing.T) {
			const channels = 3
			bias := []float32{1, -2, 0.5}
			dst := make([]float32, channels*spatial+1)
			for i := range dst {
				dst[i] = float32(i)
			}
			sentinel := dst[len(dst)-1]

			AddBias(bias, channels, spatial, dst[:channels*spatial])

			for c := range channels {
				for i := range spatial {
					idx := c*spatial + i
					require.Equal(t, float32(idx)+bias[c], dst[idx], "channel %d position %d", c, i)
				}
			}
			assert.Equal(t, sentinel, dst[len(dst)-1], "write past the last channel")
		})
	}
}

func TestAddBiasNil(t *testing.T) {
	dst := []float32{1, 2, 3}
	AddBias(nil, 1, 3, dst)
	assert.Equal(t, []float32{1, 2, 3}, dst)
}

func TestAddBiasShortSlices(t *testing.T) {
	assert.Panics(t, func() { AddBias([]float32{1}, 2, 1, make([]float32, 2)) })
	assert.Panics(t, func() { AddBias([]float32{1, 2}, 2, 2, make([]float32, 3)) })
}
