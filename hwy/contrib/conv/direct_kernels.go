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

// chunkFunc returns the convolution of lanes consecutive output columns
// starting at x. rows are the three source rows under the kernel and w the
// broadcast kernel taps in row-major order.
type chunkFunc func(rows *[3][]float32, x int, w *[9]hwy.Vec[float32]) hwy.Vec[float32]

type directShape struct {
	size, stride int
}

// directKernels is the closed set of implemented direct kernels.
var directKernels = map[directShape]chunkFunc{
	{size: 3, stride: 1}: conv3x3Stride1,
	{size: 3, stride: 2}: conv3x3Stride2,
}

// directShapeOf returns the table key for p, or the zero key when p is not a
// square, undilated, equal-stride layer.
func directShapeOf(p Param) directShape {
	if p.KernelY != p.KernelX || p.StrideY != p.StrideX || !p.IsDilation(1) {
		return directShape{}
	}
	return directShape{size: p.KernelX, stride: p.StrideX}
}

// Each kernel row is w0*s0 + (w1*s1 + w2*s2), and the three rows are summed
// as r0 + (r1 + r2).

func conv3x3Stride1(rows *[3][]float32, x int, w *[9]hwy.Vec[float32]) hwy.Vec[float32] {
	var r [3]hwy.Vec[float32]
	for k := range r {
		s := rows[k][x:]
		r[k] = hwy.Add(hwy.Mul(hwy.Load(s), w[3*k]),
			hwy.Add(hwy.Mul(hwy.Load(s[1:]), w[3*k+1]), hwy.Mul(hwy.Load(s[2:]), w[3*k+2])))
	}
	return hwy.Add(r[0], hwy.Add(r[1], r[2]))
}

func conv3x3Stride2(rows *[3][]float32, x int, w *[9]hwy.Vec[float32]) hwy.Vec[float32] {
	var r [3]hwy.Vec[float32]
	for k := range r {
		s := rows[k][2*x:]
		s0, s1 := hwy.LoadInterleaved2(s)
		s2 := hwy.LoadEven(s[2:])
		r[k] = hwy.Add(hwy.Mul(s0, w[3*k]),
			hwy.Add(hwy.Mul(s1, w[3*k+1]), hwy.Mul(s2, w[3*k+2])))
	}
	return hwy.Add(r[0], hwy.Add(r[1], r[2]))
}
