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

// TailMask creates a mask with the first 'count' lanes active.
// This is useful for handling the tail (remainder) of an array
// when the size is not a multiple of the vector width.
//
// Example:
//
//	maxLanes := hwy.MaxLanes[float32]()
//	remaining := len(data) % maxLanes
//	if remaining > 0 {
//	    mask := hwy.TailMask[float32](remaining)
//	    v := hwy.MaskLoad(mask, data[len(data)-remaining:])
//	    // ... process tail
//	    hwy.MaskStore(mask, result, output[len(output)-remaining:])
//	}
func TailMask[T Floats](count int) Mask[T] {
	maxLanes := MaxLanes[T]()
	count = max(0, min(count, maxLanes))
	m := Mask[T]{n: maxLanes}
	for i := range count {
		m.bits[i] = true
	}
	return m
}

// LastNMask creates a mask with the last 'count' lanes active.
//
// It serves tails handled with an overlapping vector: when a row of size
// elements is not a multiple of the vector width, the final vector is
// loaded at size-maxLanes, so it overlaps the previous one and only its
// last size%maxLanes lanes hold new positions.
//
//	remaining := size % maxLanes
//	x := size - maxLanes
//	mask := hwy.LastNMask[float32](remaining)
//	old := hwy.Load(out[x:])
//	hwy.Store(hwy.IfThenElse(mask, fresh, old), out[x:])
func LastNMask[T Floats](count int) Mask[T] {
	maxLanes := MaxLanes[T]()
	count = max(0, min(count, maxLanes))
	m := Mask[T]{n: maxLanes}
	for i := maxLanes - count; i < maxLanes; i++ {
		m.bits[i] = true
	}
	return m
}

// ProcessWithTail is a helper for processing arrays with SIMD that handles
// both full vectors and the tail (remainder) automatically.
//
// It calls:
//   - fullFn(offset) for each full vector (offset is the starting index)
//   - tailFn(offset, count) once for the tail if size is not a multiple of vector width
func ProcessWithTail[T Floats](size int, fullFn func(offset int), tailFn func(offset, count int)) {
	maxLanes := MaxLanes[T]()

	fullVectors := size / maxLanes
	for i := range fullVectors {
		fullFn(i * maxLanes)
	}

	remaining := size % maxLanes
	if remaining > 0 {
		tailFn(fullVectors*maxLanes, remaining)
	}
}

// AlignLo rounds size down to a multiple of the vector width.
func AlignLo[T Floats](size int) int {
	maxLanes := MaxLanes[T]()
	return size - size%maxLanes
}

// AlignedSize rounds up size to the next multiple of vector width.
// This is useful for allocating buffers that will be processed with SIMD.
func AlignedSize[T Floats](size int) int {
	maxLanes := MaxLanes[T]()
	return ((size + maxLanes - 1) / maxLanes) * maxLanes
}
