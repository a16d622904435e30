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
	"math"
	"math/rand"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func randomSlice(rng *rand.Rand, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = rng.Float32()*2 - 1
	}
	return out
}

func requireClose(t *testing.T, want, got []float32, tol float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if math.Abs(float64(want[i]-got[i])) > tol {
			require.Failf(t, "mismatch", "dst[%d] = %g, want %g (tol %g)", i, got[i], want[i], tol)
		}
	}
}

// layer is a shape plus random weights, bias and source.
type layer struct {
	p                 Param
	src, weight, bias []float32
}

func newLayer(rng *rand.Rand, p Param) layer {
	return layer{
		p:      p,
		src:    randomSlice(rng, p.SrcSize()),
		weight: randomSlice(rng, p.WeightSize()),
		bias:   randomSlice(rng, p.DstC),
	}
}

// run builds the strategy with SetWeight and a right-sized workspace and
// returns its output.
func (l layer) run(c Convolution) []float32 {
	c.SetWeight(l.weight, l.bias)
	dst := make([]float32, l.p.DstSize())
	c.Forward(l.src, make([]float32, c.BufferSize()), dst)
	return dst
}

// referenceConv computes the convolution from its definition, accumulating
// in float64.
func referenceConv(p Param, src, weight, bias []float32) []float32 {
	srcCg, dstCg := p.SrcC/p.Group, p.DstC/p.Group
	dst := make([]float32, p.DstSize())
	for dc := range p.DstC {
		g := dc / dstCg
		for dy := range p.DstH {
			for dx := range p.DstW {
				var sum float64
				if bias != nil {
					sum = float64(bias[dc])
				}
				for s := range srcCg {
					sc := g*srcCg + s
					for ky := range p.KernelY {
						sy := dy*p.StrideY + ky*p.DilationY - p.PadY
						if sy < 0 || sy >= p.SrcH {
							continue
						}
						for kx := range p.KernelX {
							sx := dx*p.StrideX + kx*p.DilationX - p.PadX
							if sx < 0 || sx >= p.SrcW {
								continue
							}
							w := weight[((dc*srcCg+s)*p.KernelY+ky)*p.KernelX+kx]
							sum += float64(src[(sc*p.SrcH+sy)*p.SrcW+sx]) * float64(w)
						}
					}
				}
				dst[(dc*p.DstH+dy)*p.DstW+dx] = float32(sum)
			}
		}
	}
	return dst
}

// square builds a Param with square kernel, stride, dilation and symmetric
// padding.
func square(srcC, srcH, srcW, dstC, kernel, stride, dilation, pad, group int) Param {
	return must.M1(NewParam(srcC, srcH, srcW, dstC, kernel, kernel, dilation, dilation, stride, stride,
		pad, pad, pad, pad, group))
}
