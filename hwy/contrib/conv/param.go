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
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidParameter is wrapped by every error returned for an invalid
// convolution shape.
var ErrInvalidParameter = errors.New("invalid convolution parameter")

// Param describes one convolution layer. Values are immutable once built by
// NewParam; DstH and DstW are derived from the other fields.
type Param struct {
	SrcC, SrcH, SrcW     int
	DstC, DstH, DstW     int
	KernelY, KernelX     int
	DilationY, DilationX int
	StrideY, StrideX     int
	// PadY and PadX pad the top and left, PadH and PadW the bottom and right.
	PadY, PadX, PadH, PadW int
	Group                  int
}

// NewParam builds and validates a Param, computing the output size with the
// standard formula
//
//	DstH = (SrcH + PadY + PadH - (DilationY*(KernelY-1) + 1)) / StrideY + 1
//
// and likewise for DstW.
func NewParam(srcC, srcH, srcW, dstC, kernelY, kernelX, dilationY, dilationX, strideY, strideX,
	padY, padX, padH, padW, group int) (Param, error) {
	p := Param{
		SrcC: srcC, SrcH: srcH, SrcW: srcW,
		DstC: dstC,
		KernelY: kernelY, KernelX: kernelX,
		DilationY: dilationY, DilationX: dilationX,
		StrideY: strideY, StrideX: strideX,
		PadY: padY, PadX: padX, PadH: padH, PadW: padW,
		Group: group,
	}
	if err := p.checkHyperParams(); err != nil {
		return Param{}, err
	}
	p.DstH = outputSize(srcH, kernelY, dilationY, strideY, padY, padH)
	p.DstW = outputSize(srcW, kernelX, dilationX, strideX, padX, padW)
	if p.DstH <= 0 || p.DstW <= 0 {
		return Param{}, errors.Wrapf(ErrInvalidParameter, "empty output %dx%d for %s", p.DstH, p.DstW, p)
	}
	return p, nil
}

func outputSize(src, kernel, dilation, stride, padLo, padHi int) int {
	extent := src + padLo + padHi - (dilation*(kernel-1) + 1)
	if extent < 0 {
		return 0
	}
	return extent/stride + 1
}

func (p Param) checkHyperParams() error {
	dims := []struct {
		name  string
		value int
	}{
		{"srcC", p.SrcC}, {"srcH", p.SrcH}, {"srcW", p.SrcW}, {"dstC", p.DstC},
		{"kernelY", p.KernelY}, {"kernelX", p.KernelX},
		{"dilationY", p.DilationY}, {"dilationX", p.DilationX},
		{"strideY", p.StrideY}, {"strideX", p.StrideX},
		{"group", p.Group},
	}
	for _, d := range dims {
		if d.value <= 0 {
			return errors.Wrapf(ErrInvalidParameter, "%s must be positive, got %d", d.name, d.value)
		}
	}
	if p.PadY < 0 || p.PadX < 0 || p.PadH < 0 || p.PadW < 0 {
		return errors.Wrapf(ErrInvalidParameter, "negative padding %d,%d,%d,%d", p.PadY, p.PadX, p.PadH, p.PadW)
	}
	if p.SrcC%p.Group != 0 || p.DstC%p.Group != 0 {
		return errors.Wrapf(ErrInvalidParameter, "group %d must divide srcC %d and dstC %d", p.Group, p.SrcC, p.DstC)
	}
	return nil
}

// Validate checks a Param that was not built by NewParam, including that
// DstH and DstW match the output size formula.
func (p Param) Validate() error {
	if err := p.checkHyperParams(); err != nil {
		return err
	}
	dstH := outputSize(p.SrcH, p.KernelY, p.DilationY, p.StrideY, p.PadY, p.PadH)
	dstW := outputSize(p.SrcW, p.KernelX, p.DilationX, p.StrideX, p.PadX, p.PadW)
	if dstH <= 0 || dstW <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "empty output %dx%d for %s", dstH, dstW, p)
	}
	if p.DstH != dstH || p.DstW != dstW {
		return errors.Wrapf(ErrInvalidParameter, "output %dx%d, want %dx%d for %s", p.DstH, p.DstW, dstH, dstW, p)
	}
	return nil
}

// IsKernel reports whether the kernel is k x k.
func (p Param) IsKernel(k int) bool { return p.KernelY == k && p.KernelX == k }

// IsStride reports whether both strides equal s.
func (p Param) IsStride(s int) bool { return p.StrideY == s && p.StrideX == s }

// IsDilation reports whether both dilations equal d.
func (p Param) IsDilation(d int) bool { return p.DilationY == d && p.DilationX == d }

// IsPad reports whether all four paddings equal pad.
func (p Param) IsPad(pad int) bool {
	return p.PadY == pad && p.PadX == pad && p.PadH == pad && p.PadW == pad
}

// Is1x1 reports whether the convolution is a plain per-pixel channel mix:
// the source is then already the column matrix.
func (p Param) Is1x1() bool {
	return p.IsKernel(1) && p.IsStride(1) && p.IsDilation(1) && p.IsPad(0)
}

// SrcSize is the number of elements of the source feature map.
func (p Param) SrcSize() int { return p.SrcC * p.SrcH * p.SrcW }

// DstSize is the number of elements of the destination feature map.
func (p Param) DstSize() int { return p.DstC * p.DstH * p.DstW }

// WeightSize is the number of weight elements SetWeight reads.
func (p Param) WeightSize() int { return p.DstC * p.SrcC / p.Group * p.KernelY * p.KernelX }

// String implements fmt.Stringer.
func (p Param) String() string {
	return fmt.Sprintf("src=%dx%dx%d dst=%dx%dx%d kernel=%dx%d dilation=%dx%d stride=%dx%d pad=%d,%d,%d,%d group=%d",
		p.SrcC, p.SrcH, p.SrcW, p.DstC, p.DstH, p.DstW, p.KernelY, p.KernelX,
		p.DilationY, p.DilationX, p.StrideY, p.StrideX, p.PadY, p.PadX, p.PadH, p.PadW, p.Group)
}
