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

package hwy

// This file provides the pure Go implementations of the vector operations.
// Every operation works lane by lane over the first MaxLanes[T]() entries.
// Products and sums are rounded separately (no fused multiply-add), so a
// scalar loop performing the same operations in the same order produces
// bit-identical results.

// Load creates a vector from the first MaxLanes[T]() elements of src.
// It panics if src is shorter than a full vector.
func Load[T Floats](src []T) Vec[T] {
	n := MaxLanes[T]()
	_ = src[n-1]
	var v Vec[T]
	v.n = n
	copy(v.data[:n], src)
	return v
}

// LoadSlice creates a vector from up to MaxLanes[T]() elements of src.
// Missing lanes are zero.
func LoadSlice[T Floats](src []T) Vec[T] {
	n := MaxLanes[T]()
	var v Vec[T]
	v.n = n
	copy(v.data[:n], src[:min(n, len(src))])
	return v
}

// Store writes a vector's lanes to dst.
// It panics if dst is shorter than a full vector.
func Store[T Floats](v Vec[T], dst []T) {
	_ = dst[v.n-1]
	copy(dst, v.data[:v.n])
}

// Set creates a vector with all lanes set to the same value.
func Set[T Floats](value T) Vec[T] {
	var v Vec[T]
	v.n = MaxLanes[T]()
	for i := range v.n {
		v.data[i] = value
	}
	return v
}

// Zero creates a vector with all lanes set to zero.
func Zero[T Floats]() Vec[T] {
	return Vec[T]{n: MaxLanes[T]()}
}

// Add performs element-wise addition.
func Add[T Floats](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] += b.data[i]
	}
	return a
}

// Sub performs element-wise subtraction.
func Sub[T Floats](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] -= b.data[i]
	}
	return a
}

// Mul performs element-wise multiplication.
func Mul[T Floats](a, b Vec[T]) Vec[T] {
	for i := range a.n {
		a.data[i] = T(a.data[i] * b.data[i])
	}
	return a
}

// MulAdd computes a*b + c per lane, rounding the product before the sum.
func MulAdd[T Floats](a, b, c Vec[T]) Vec[T] {
	for i := range a.n {
		p := a.data[i] * b.data[i]
		c.data[i] = T(p) + c.data[i]
	}
	return c
}

// ReduceSum returns the sum of all lanes.
func ReduceSum[T Floats](v Vec[T]) T {
	var sum T
	for i := range v.n {
		sum += v.data[i]
	}
	return sum
}

// IfThenElse returns a where mask is true, b otherwise.
func IfThenElse[T Floats](mask Mask[T], a, b Vec[T]) Vec[T] {
	for i := range b.n {
		if mask.bits[i] {
			b.data[i] = a.data[i]
		}
	}
	return b
}

// IfThenElseZero returns a where mask is true, zero otherwise.
func IfThenElseZero[T Floats](mask Mask[T], a Vec[T]) Vec[T] {
	for i := range a.n {
		if !mask.bits[i] {
			a.data[i] = 0
		}
	}
	return a
}

// MaskLoad loads only the lanes where mask is true; other lanes are zero.
func MaskLoad[T Floats](mask Mask[T], src []T) Vec[T] {
	var v Vec[T]
	v.n = mask.n
	for i := range mask.n {
		if mask.bits[i] {
			v.data[i] = src[i]
		}
	}
	return v
}

// MaskStore stores only the lanes where mask is true.
// Elements of dst behind inactive lanes are neither read nor written.
func MaskStore[T Floats](mask Mask[T], v Vec[T], dst []T) {
	for i := range mask.n {
		if mask.bits[i] {
			dst[i] = v.data[i]
		}
	}
}
