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
	"github.com/BotaiXiong/Simd/hwy/contrib/matmul"
	"github.com/BotaiXiong/Simd/hwy/contrib/nn"
)

// ImgToCol is the general convolution strategy: every shape is expanded into
// a column matrix and multiplied by the weights, one GEMM per group.
//
// For group g the weights form an M x K matrix and the columns a K x N
// matrix, with M = DstC/Group, K = SrcC/Group*KernelY*KernelX and
// N = DstH*DstW.
type ImgToCol struct {
	param  Param
	weight []float32
	bias   []float32

	m, n, k                      int
	weightStep, srcStep, dstStep int
}

var _ Convolution = (*ImgToCol)(nil)

// ImgToColPreferable accepts every shape: ImgToCol is the universal fallback.
func ImgToColPreferable(Param) bool {
	return true
}

// NewImgToCol builds the ImgToCol strategy for a validated p.
func NewImgToCol(p Param) *ImgToCol {
	c := &ImgToCol{param: p}
	c.m = p.DstC / p.Group
	c.n = p.DstH * p.DstW
	c.k = p.SrcC / p.Group * p.KernelY * p.KernelX
	c.weightStep = c.m * c.k
	c.srcStep = c.k * c.n
	c.dstStep = c.m * c.n
	return c
}

// Param implements Convolution.
func (c *ImgToCol) Param() Param { return c.param }

// Kind implements Convolution.
func (c *ImgToCol) Kind() Kind { return KindImgToCol }

// BufferSize implements Convolution. 1x1 layers use the source directly
// and need no workspace.
func (c *ImgToCol) BufferSize() int {
	p := &c.param
	if p.Is1x1() {
		return 0
	}
	return p.SrcC * p.KernelY * p.KernelX * p.DstH * p.DstW
}

// SetWeight implements Convolution.
func (c *ImgToCol) SetWeight(weight, bias []float32) {
	c.weight = append(c.weight[:0], weight[:c.param.WeightSize()]...)
	c.bias = bias
}

// Forward implements Convolution.
func (c *ImgToCol) Forward(src, buf, dst []float32) {
	p := &c.param
	if !p.Is1x1() {
		buf = workspace(buf, c.BufferSize())
		imgToCol(p, src, buf)
		src = buf
	}
	c.gemmAndBias(src, dst)
}

func (c *ImgToCol) gemmAndBias(src, dst []float32) {
	p := &c.param
	for g := range p.Group {
		matmul.Gemm(c.m, c.n, c.k,
			c.weight[g*c.weightStep:], c.k,
			src[g*c.srcStep:], c.n,
			dst[g*c.dstStep:], c.n)
	}
	nn.AddBias(c.bias, p.DstC, p.DstH*p.DstW, dst)
}

// imgToCol expands src into the [SrcC*KernelY*KernelX][DstH*DstW] column
// matrix dst. Positions falling into the padding are zero.
func imgToCol(p *Param, src, dst []float32) {
	dstSize := p.DstH * p.DstW
	row := 0
	for c := range p.SrcC {
		plane := src[c*p.SrcH*p.SrcW : (c+1)*p.SrcH*p.SrcW]
		for ky := range p.KernelY {
			for kx := range p.KernelX {
				out := dst[row*dstSize : (row+1)*dstSize]
				row++
				offY := ky*p.DilationY - p.PadY
				offX := kx*p.DilationX - p.PadX
				// Output columns [xLo, xHi) read inside the source row.
				xLo, xHi := validRange(offX, p.StrideX, p.SrcW, p.DstW)
				for dy := range p.DstH {
					line := out[dy*p.DstW : (dy+1)*p.DstW]
					sy := dy*p.StrideY + offY
					if sy < 0 || sy >= p.SrcH || xLo >= xHi {
						clear(line)
						continue
					}
					srcRow := plane[sy*p.SrcW : (sy+1)*p.SrcW]
					clear(line[:xLo])
					if p.StrideX == 1 {
						copy(line[xLo:xHi], srcRow[xLo+offX:xHi+offX])
					} else {
						for dx := xLo; dx < xHi; dx++ {
							line[dx] = srcRow[dx*p.StrideX+offX]
						}
					}
					clear(line[xHi:])
				}
			}
		}
	}
}

// validRange returns the output positions [lo, hi) for which
// d*stride + off lies in [0, size).
func validRange(off, stride, size, dstSize int) (lo, hi int) {
	if off < 0 {
		lo = (-off + stride - 1) / stride
	}
	if last := size - 1 - off; last >= 0 {
		hi = last/stride + 1
	}
	lo = min(lo, dstSize)
	hi = max(lo, min(hi, dstSize))
	return lo, hi
}
