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
	"github.com/BotaiXiong/Simd/hwy/contrib/winograd"
)

// Winograd2x3p computes 3x3 stride-1 convolutions with the F(2,3) Winograd
// algorithm: the layer becomes 16 independent GEMMs in the coefficient
// domain, each of DstC x SrcC filters times SrcC x tiles inputs.
type Winograd2x3p struct {
	param  Param
	filter []float32
	bias   []float32
	tiles  int
}

var _ Convolution = (*Winograd2x3p)(nil)

// Winograd2x3pPreferable reports whether the Winograd strategy is worth using
// for p: a dense 3x3 stride-1 layer with enough channels and output area to
// amortize the transforms.
func Winograd2x3pPreferable(p Param) bool {
	return p.IsKernel(3) && p.IsDilation(1) && p.IsStride(1) && p.Group == 1 &&
		p.SrcC >= 16 && p.DstC >= 16 && p.DstH*p.DstW >= 256
}

// NewWinograd2x3p builds the Winograd strategy for a validated p. The caller
// is responsible for p being a 3x3 stride-1 dilation-1 single-group layer.
func NewWinograd2x3p(p Param) *Winograd2x3p {
	return &Winograd2x3p{param: p, tiles: winograd.TileCount(p.DstH, p.DstW)}
}

// Param implements Convolution.
func (c *Winograd2x3p) Param() Param { return c.param }

// Kind implements Convolution.
func (c *Winograd2x3p) Kind() Kind { return KindWinograd2x3p }

// BufferSize implements Convolution: the transformed input followed by the
// coefficient-domain output.
func (c *Winograd2x3p) BufferSize() int {
	p := &c.param
	return winograd.InputBufferSize(p.SrcC, p.DstH, p.DstW) + winograd.OutputBufferSize(p.DstC, p.DstH, p.DstW)
}

// SetWeight implements Convolution. The filters are transformed here, once.
func (c *Winograd2x3p) SetWeight(weight, bias []float32) {
	p := &c.param
	count := p.DstC * p.SrcC
	size := winograd.FilterBufferSize(count)
	if cap(c.filter) < size {
		c.filter = make([]float32, size)
	}
	c.filter = c.filter[:size]
	winograd.SetFilter(weight, count, c.filter)
	c.bias = bias
}

// Forward implements Convolution.
func (c *Winograd2x3p) Forward(src, buf, dst []float32) {
	p := &c.param
	buf = workspace(buf, c.BufferSize())
	inSize := winograd.InputBufferSize(p.SrcC, p.DstH, p.DstW)
	bufS, bufD := buf[:inSize], buf[inSize:]

	winograd.SetInput(src, p.SrcC, p.SrcH, p.SrcW, p.DstH, p.DstW, p.PadY, p.PadX, bufS)
	filterStep := p.DstC * p.SrcC
	srcStep := p.SrcC * c.tiles
	dstStep := p.DstC * c.tiles
	for i := range winograd.Count {
		matmul.Gemm(p.DstC, c.tiles, p.SrcC,
			c.filter[i*filterStep:], p.SrcC,
			bufS[i*srcStep:], c.tiles,
			bufD[i*dstStep:], c.tiles)
	}
	winograd.SetOutput(bufD, p.DstC, p.DstH, p.DstW, dst)
	nn.AddBias(c.bias, p.DstC, p.DstH*p.DstW, dst)
}
