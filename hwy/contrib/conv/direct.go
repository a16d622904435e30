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

import "github.com/BotaiXiong/Simd/hwy"

// Direct computes small-kernel convolutions by sliding the kernel over the
// source, one lane-sized chunk of output columns at a time. Only the shapes
// in directKernels are implemented; any other layer given to NewDirect is
// delegated to ImgToCol.
//
// For each output channel the first source channel of its group seeds the
// output with bias plus its contribution and every following source channel
// accumulates onto it. A row whose width is not a multiple of the lane count
// ends with a chunk at DstW-lanes that overlaps the previous one; only its
// last DstW%lanes lanes are merged, so no position is biased or accumulated
// twice.
type Direct struct {
	param    Param
	weight   []float32
	bias     []float32
	chunk    chunkFunc
	fallback *ImgToCol
}

var _ Convolution = (*Direct)(nil)

// DirectPreferable reports whether p has a direct kernel: 3x3, stride 1 or 2
// on both axes, no dilation, and an output at least one vector wide.
func DirectPreferable(p Param) bool {
	_, ok := directKernels[directShapeOf(p)]
	return ok && p.DstW >= hwy.MaxLanes[float32]()
}

// NewDirect builds the Direct strategy for a validated p.
func NewDirect(p Param) *Direct {
	c := &Direct{param: p}
	if DirectPreferable(p) {
		c.chunk = directKernels[directShapeOf(p)]
	} else {
		c.fallback = NewImgToCol(p)
	}
	return c
}

// Param implements Convolution.
func (c *Direct) Param() Param { return c.param }

// Kind implements Convolution.
func (c *Direct) Kind() Kind { return KindDirect }

// BufferSize implements Convolution: room for the zero-padded source when
// the layer has padding.
func (c *Direct) BufferSize() int {
	if c.fallback != nil {
		return c.fallback.BufferSize()
	}
	p := &c.param
	if p.IsPad(0) {
		return 0
	}
	return p.SrcC * (p.SrcH + p.PadY + p.PadH) * (p.SrcW + p.PadX + p.PadW)
}

// SetWeight implements Convolution.
func (c *Direct) SetWeight(weight, bias []float32) {
	if c.fallback != nil {
		c.fallback.SetWeight(weight, bias)
		return
	}
	c.weight = append(c.weight[:0], weight[:c.param.WeightSize()]...)
	c.bias = bias
}

// Forward implements Convolution.
func (c *Direct) Forward(src, buf, dst []float32) {
	if c.fallback != nil {
		c.fallback.Forward(src, buf, dst)
		return
	}
	p := &c.param
	srcH, srcW := p.SrcH, p.SrcW
	if !p.IsPad(0) {
		buf = workspace(buf, c.BufferSize())
		padSource(p, src, buf)
		src = buf
		srcH += p.PadY + p.PadH
		srcW += p.PadX + p.PadW
	}

	srcCg, dstCg := p.SrcC/p.Group, p.DstC/p.Group
	srcPlane, dstPlane := srcH*srcW, p.DstH*p.DstW
	kernelSize := p.KernelY * p.KernelX
	var w [9]hwy.Vec[float32]
	var rows [3][]float32
	for g := range p.Group {
		for d := range dstCg {
			dc := g*dstCg + d
			out := dst[dc*dstPlane : (dc+1)*dstPlane]
			var bias float32
			if c.bias != nil {
				bias = c.bias[dc]
			}
			vBias := hwy.Set(bias)
			for s := range srcCg {
				sc := g*srcCg + s
				plane := src[sc*srcPlane : (sc+1)*srcPlane]
				weight := c.weight[(dc*srcCg+s)*kernelSize:]
				for i := range w {
					w[i] = hwy.Set(weight[i])
				}
				for dy := range p.DstH {
					sy := dy * p.StrideY
					for k := range rows {
						rows[k] = plane[(sy+k)*srcW : (sy+k+1)*srcW]
					}
					directRow(c.chunk, &rows, &w, out[dy*p.DstW:(dy+1)*p.DstW], s == 0, vBias)
				}
			}
		}
	}
}

// directRow computes one output row. With seed set the row is overwritten
// with bias plus the contribution, otherwise the contribution is added.
func directRow(chunk chunkFunc, rows *[3][]float32, w *[9]hwy.Vec[float32], out []float32, seed bool, vBias hwy.Vec[float32]) {
	lanes := hwy.MaxLanes[float32]()
	dstW := len(out)
	full := hwy.AlignLo[float32](dstW)
	for x := 0; x < full; x += lanes {
		conv := chunk(rows, x, w)
		if seed {
			hwy.Store(hwy.Add(vBias, conv), out[x:])
		} else {
			hwy.Store(hwy.Add(hwy.Load(out[x:]), conv), out[x:])
		}
	}
	if full == dstW {
		return
	}

	// Overlapping tail: the first lanes-(dstW-full) lanes were already
	// written by the previous chunk and are kept as they are.
	x := dstW - lanes
	mask := hwy.LastNMask[float32](dstW - full)
	conv := chunk(rows, x, w)
	old := hwy.Load(out[x:])
	var fresh hwy.Vec[float32]
	if seed {
		fresh = hwy.Add(vBias, conv)
	} else {
		fresh = hwy.Add(old, conv)
	}
	hwy.Store(hwy.IfThenElse(mask, fresh, old), out[x:])
}

// padSource copies src into dst surrounded by the layer's zero padding.
func padSource(p *Param, src, dst []float32) {
	srcW := p.SrcW + p.PadX + p.PadW
	srcH := p.SrcH + p.PadY + p.PadH
	for c := range p.SrcC {
		plane := src[c*p.SrcH*p.SrcW : (c+1)*p.SrcH*p.SrcW]
		out := dst[c*srcH*srcW : (c+1)*srcH*srcW]
		clear(out[:p.PadY*srcW])
		for y := range p.SrcH {
			row := out[(p.PadY+y)*srcW : (p.PadY+y+1)*srcW]
			clear(row[:p.PadX])
			copy(row[p.PadX:], plane[y*p.SrcW:(y+1)*p.SrcW])
			clear(row[p.PadX+p.SrcW:])
		}
		clear(out[(p.PadY+p.SrcH)*srcW:])
	}
}
