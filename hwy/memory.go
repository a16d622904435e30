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

// LoadInterleaved2 loads interleaved pairs and deinterleaves them into two vectors.
//
// Input memory layout:
//
//	[a0, b0, a1, b1, a2, b2, a3, b3, ...]
//
// Output vectors:
//
//	vec_a = [a0, a1, a2, a3, ...]
//	vec_b = [b0, b1, b2, b3, ...]
//
// A stride-2 convolution row reads its even and odd taps this way. The
// final b lane may lie past the end of src; it is then left zero, while the
// a lanes are always loaded when present.
func LoadInterleaved2[T Floats](src []T) (Vec[T], Vec[T]) {
	n := MaxLanes[T]()
	a := Vec[T]{n: n}
	b := Vec[T]{n: n}
	for i := range n {
		j := 2 * i
		if j >= len(src) {
			break
		}
		a.data[i] = src[j]
		if j+1 < len(src) {
			b.data[i] = src[j+1]
		}
	}
	return a, b
}

// LoadEven loads src[0], src[2], src[4], ... into consecutive lanes.
// It panics if src does not hold a full vector of even elements.
func LoadEven[T Floats](src []T) Vec[T] {
	n := MaxLanes[T]()
	_ = src[2*(n-1)]
	v := Vec[T]{n: n}
	for i := range n {
		v.data[i] = src[2*i]
	}
	return v
}

// StoreInterleaved2 interleaves two vectors and stores them to dst.
//
// Output memory layout:
//
//	[a0, b0, a1, b1, a2, b2, a3, b3, ...]
//
// It panics if dst is shorter than two vectors.
func StoreInterleaved2[T Floats](a, b Vec[T], dst []T) {
	n := a.n
	_ = dst[2*n-1]
	for i := range n {
		dst[2*i] = a.data[i]
		dst[2*i+1] = b.data[i]
	}
}
