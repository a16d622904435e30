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

package conv

import (
	"math/rand"
	"testing"

	"github.com/BotaiXiong/Simd/hwy"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// strategies builds every strategy able to run p.
func strategies(p Param) []Convolution {
	out := []Convolution{NewImgToCol(p), NewDirect(p)}
	if p.IsKernel(3) && p.IsStride(1) && p.IsDilation(1) && p.Group == 1 {
		out = append(out, NewWinograd2x3p(p))
	}
	return out
}

func TestSelectPriority(t *testing.T) {
	lanes := hwy.MaxLanes[float32]()
	wide := max(32, 2*lanes)
	testCases := []struct {
		name string
		p    Param
		want Kind
	}{
		{"winograd", square(16, 16, wide, 16, 3, 1, 1, 1, 1), KindWinograd2x3p},
		{"winograd-beats-direct", square(32, 32, wide, 32, 3, 1, 1, 1, 1), KindWinograd2x3p},
		{"direct-few-channels", square(3, 16, wide, 8, 3, 1, 1, 1, 1), KindDirect},
		{"direct-stride-2", square(16, 32, 2*wide, 16, 3, 2, 1, 1, 1), KindDirect},
		{"direct-grouped", square(16, 16, wide, 16, 3, 1, 1, 1, 2), KindDirect},
		{"imgtocol-narrow", square(16, 16, lanes-1, 16, 3, 1, 1, 1, 1), KindImgToCol},
		{"imgtocol-1x1", square(16, 16, wide, 16, 1, 1, 1, 0, 1), KindImgToCol},
		{"imgtocol-5x5", square(16, 16, wide, 16, 5, 1, 1, 2, 1), KindImgToCol},
		{"imgtocol-dilation", square(16, 16, wide, 16, 3, 1, 2, 2, 1), KindImgToCol},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Select(tc.p))
			// Selection is a pure function of the shape.
			require.Equal(t, Select(tc.p), Select(tc.p))

			c, err := New(tc.p)
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Kind())
			assert.Equal(t, tc.p, c.Param())
		})
	}
}

func TestCreate(t *testing.T) {
	c, err := Create(16, 20, 20, 16, 3, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, KindWinograd2x3p, c.Kind())
	assert.Equal(t, 20, c.Param().DstH)
	assert.Equal(t, 20, c.Param().DstW)

	c, err = Create(4, 10, 10, 4, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, KindImgToCol, c.Kind())
	assert.Equal(t, 0, c.BufferSize())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ImgToCol", KindImgToCol.String())
	assert.Equal(t, "Winograd2x3p", KindWinograd2x3p.String())
	assert.Equal(t, "Direct", KindDirect.String())
	assert.Equal(t, "unknown", Kind(-1).String())
}

// An identity kernel on a 5x5 single-channel source without padding yields
// the 3x3 interior of the source.
func TestIdentityKernel(t *testing.T) {
	p := square(1, 5, 5, 1, 3, 1, 1, 0, 1)
	src := make([]float32, 25)
	for i := range src {
		src[i] = float32(i + 1)
	}
	weight := []float32{0, 0, 0, 0, 1, 0, 0, 0, 0}
	want := []float32{
		7, 8, 9,
		12, 13, 14,
		17, 18, 19,
	}
	for _, c := range strategies(p) {
		t.Run(c.Kind().String(), func(t *testing.T) {
			c.SetWeight(weight, nil)
			dst := make([]float32, p.DstSize())
			c.Forward(src, nil, dst)
			requireClose(t, want, dst, 1e-5)
		})
	}
	c := must.M1(New(p))
	assert.Equal(t, KindImgToCol, c.Kind())
}

// With all-zero weights every output equals its channel's bias, whatever
// the source: bias is added once, never once per source channel.
func TestBiasOnly(t *testing.T) {
	lanes := hwy.MaxLanes[float32]()
	p := square(16, 34, 2*lanes+3, 16, 3, 1, 1, 0, 1)
	require.GreaterOrEqual(t, p.DstH*p.DstW, 256)
	rng := rand.New(rand.NewSource(31))
	src := randomSlice(rng, p.SrcSize())
	bias := randomSlice(rng, p.DstC)
	weight := make([]float32, p.WeightSize())

	all := strategies(p)
	require.Len(t, all, 3)
	for _, c := range all {
		t.Run(c.Kind().String(), func(t *testing.T) {
			c.SetWeight(weight, bias)
			dst := make([]float32, p.DstSize())
			c.Forward(src, make([]float32, c.BufferSize()), dst)
			plane := p.DstH * p.DstW
			for i, v := range dst {
				require.Equal(t, bias[i/plane], v, "index %d", i)
			}
		})
	}
}

// Output channels of one group depend only on the source channels of the
// same group.
func TestGroupIsolation(t *testing.T) {
	lanes := hwy.MaxLanes[float32]()
	p := square(4, 6, lanes+2, 6, 3, 1, 1, 1, 2)
	rng := rand.New(rand.NewSource(32))
	l := newLayer(rng, p)
	plane := p.SrcH * p.SrcW
	dstHalf := p.DstSize() / 2

	for _, c := range strategies(p) {
		t.Run(c.Kind().String(), func(t *testing.T) {
			before := l.run(c)

			// Perturb the source channels of group 1.
			changed := append([]float32(nil), l.src...)
			for i := 2 * plane; i < len(changed); i++ {
				changed[i] += 10
			}
			after := make([]float32, p.DstSize())
			c.Forward(changed, nil, after)
			assert.Equal(t, before[:dstHalf], after[:dstHalf])
			assert.NotEqual(t, before[dstHalf:], after[dstHalf:])
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	lanes := hwy.MaxLanes[float32]()
	for _, p := range []Param{
		square(16, 17, 2*lanes+1, 16, 3, 1, 1, 1, 1),
		square(16, 20, 2*lanes+2, 20, 3, 1, 1, 0, 1),
	} {
		l := newLayer(rng, p)
		want := referenceConv(p, l.src, l.weight, l.bias)
		for _, c := range strategies(p) {
			requireClose(t, want, l.run(c), 1e-3)
		}
	}
}
