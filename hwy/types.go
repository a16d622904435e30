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

// Package hwy provides portable fixed-width vector operations used by the
// convolution kernels.
//
// The lane count is chosen once at process start from the widest vector
// register the CPU offers (see CurrentWidth) and never changes afterwards.
// Operations are written as short fixed-trip loops over the lanes so the
// compiler can keep them in registers; they never allocate.
//
// Basic usage:
//
//	import "github.com/BotaiXiong/Simd/hwy"
//
//	a := hwy.Load(data1)
//	b := hwy.Load(data2)
//	hwy.Store(hwy.Add(a, b), output)
package hwy

// maxVecBytes is the widest register supported (AVX-512).
const maxVecBytes = 64

// maxLanes bounds the lane storage of Vec and Mask.
const maxLanes = maxVecBytes / 4

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// Vec is a portable vector handle of MaxLanes[T]() lanes.
//
// Vec instances should not be created directly; use Load, Set, or Zero instead.
type Vec[T Floats] struct {
	data [maxLanes]T
	n    int
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return v.n
}

// Data returns a copy of the lanes.
// This is primarily for testing and should not be used in performance-critical code.
func (v Vec[T]) Data() []T {
	out := make([]T, v.n)
	copy(out, v.data[:v.n])
	return out
}

// Store writes the vector's lanes to dst.
// This is the method form of the hwy.Store function.
func (v Vec[T]) Store(dst []T) {
	Store(v, dst)
}

// Mask selects lanes for IfThenElse, MaskLoad and MaskStore.
//
// Masks are built with TailMask or LastNMask.
type Mask[T Floats] struct {
	bits [maxLanes]bool
	n    int
}

// NumLanes returns the number of lanes in this mask.
func (m Mask[T]) NumLanes() int {
	return m.n
}

// AllTrue returns true if all lanes in the mask are active.
func (m Mask[T]) AllTrue() bool {
	for i := range m.n {
		if !m.bits[i] {
			return false
		}
	}
	return true
}

// CountTrue returns the number of active lanes in the mask.
func (m Mask[T]) CountTrue() int {
	count := 0
	for i := range m.n {
		if m.bits[i] {
			count++
		}
	}
	return count
}

// GetBit returns whether lane i is active.
func (m Mask[T]) GetBit(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return m.bits[i]
}
