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
	"github.com/BotaiXiong/Simd/hwy"
	"k8s.io/klog/v2"
)

// Convolution is one convolution layer bound to a strategy.
type Convolution interface {
	// Param returns the layer shape.
	Param() Param

	// Kind returns the strategy executing the layer.
	Kind() Kind

	// BufferSize returns the number of float32 workspace elements Forward
	// needs. It may be 0.
	BufferSize() int

	// SetWeight prepares the weights, [DstC][SrcC/Group][KernelY][KernelX].
	// The weights are copied (or transformed); bias, [DstC] or nil for zero
	// bias, is retained by reference and must stay unchanged while the
	// layer is in use.
	SetWeight(weight, bias []float32)

	// Forward convolves src into dst using buf as scratch space. buf may be
	// nil or shorter than BufferSize, in which case a workspace is allocated
	// for the call.
	Forward(src, buf, dst []float32)
}

// Kind identifies a convolution strategy.
type Kind int

const (
	// KindImgToCol is the general column expansion + GEMM strategy.
	KindImgToCol Kind = iota

	// KindWinograd2x3p is the F(2,3) Winograd strategy.
	KindWinograd2x3p

	// KindDirect is the specialized sliding-window strategy.
	KindDirect
)

// String returns a human-readable name for the strategy.
func (k Kind) String() string {
	switch k {
	case KindImgToCol:
		return "ImgToCol"
	case KindWinograd2x3p:
		return "Winograd2x3p"
	case KindDirect:
		return "Direct"
	default:
		return "unknown"
	}
}

// Select returns the strategy Create would build for p: the first of
// Winograd2x3p, Direct and ImgToCol whose predicate accepts p.
func Select(p Param) Kind {
	switch {
	case Winograd2x3pPreferable(p):
		return KindWinograd2x3p
	case DirectPreferable(p):
		return KindDirect
	default:
		return KindImgToCol
	}
}

// Create validates the layer shape and builds the preferred strategy for it.
// The output size is derived from the other parameters.
func Create(srcC, srcH, srcW, dstC, kernelY, kernelX, dilationY, dilationX, strideY, strideX,
	padY, padX, padH, padW, group int) (Convolution, error) {
	p, err := NewParam(srcC, srcH, srcW, dstC, kernelY, kernelX, dilationY, dilationX, strideY, strideX,
		padY, padX, padH, padW, group)
	if err != nil {
		return nil, err
	}
	return New(p)
}

// New validates p and builds the preferred strategy for it.
func New(p Param) (Convolution, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	kind := Select(p)
	if klog.V(1).Enabled() {
		klog.Infof("conv: %s on %s (%d lanes) for %s", kind, hwy.CurrentName(), hwy.MaxLanes[float32](), p)
	}
	switch kind {
	case KindWinograd2x3p:
		return NewWinograd2x3p(p), nil
	case KindDirect:
		return NewDirect(p), nil
	default:
		return NewImgToCol(p), nil
	}
}

// workspace returns buf trimmed to size, or a fresh slice when buf is too
// short.
func workspace(buf []float32, size int) []float32 {
	if len(buf) >= size {
		return buf[:size]
	}
	return make([]float32, size)
}
