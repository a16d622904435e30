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

package matmul

import (
	"github.com/BotaiXiong/Simd/hwy"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"k8s.io/klog/v2"
)

// SmallGemmThreshold is the number of multiply-adds (M * N * K) below which
// the streaming kernel is used instead of BLAS.
// Below it, BLAS call and blocking overhead dominate.
const SmallGemmThreshold = 64 * 64 * 64

// Gemm computes C := A·B for row-major matrices.
//
//   - a is M×K with leading dimension lda (lda >= K)
//   - b is K×N with leading dimension ldb (ldb >= N)
//   - c is M×N with leading dimension ldc (ldc >= N)
//
// Previous contents of C are ignored. It panics if a slice is too short for
// its declared shape.
func Gemm(m, n, k int, a []float32, lda int, b []float32, ldb int, c []float32, ldc int) {
	if m <= 0 || n <= 0 {
		return
	}
	if k > 0 {
		if len(a) < lda*(m-1)+k {
			panic("matmul: a slice too short")
		}
		if len(b) < ldb*(k-1)+n {
			panic("matmul: b slice too short")
		}
	}
	if len(c) < ldc*(m-1)+n {
		panic("matmul: c slice too short")
	}

	if k == 0 {
		for i := range m {
			clear(c[i*ldc : i*ldc+n])
		}
		return
	}
	if m*n*k < SmallGemmThreshold {
		gemmStreaming(m, n, k, a, lda, b, ldb, c, ldc)
		return
	}
	gemmBLAS(m, n, k, a, lda, b, ldb, c, ldc)
}

// gemmStreaming computes one row of C at a time, broadcasting A[i,p] and
// streaming row p of B through vector lanes.
func gemmStreaming(m, n, k int, a []float32, lda int, b []float32, ldb int, c []float32, ldc int) {
	lanes := hwy.MaxLanes[float32]()
	nF := hwy.AlignLo[float32](n)
	for i := range m {
		cRow := c[i*ldc : i*ldc+n]
		clear(cRow)
		aRow := a[i*lda : i*lda+k]
		for p, aip := range aRow {
			bRow := b[p*ldb : p*ldb+n]
			vA := hwy.Set(aip)
			var j int
			for j = 0; j < nF; j += lanes {
				acc := hwy.Load(cRow[j:])
				hwy.Store(hwy.MulAdd(vA, hwy.Load(bRow[j:]), acc), cRow[j:])
			}
			for ; j < n; j++ {
				cRow[j] += float32(aip * bRow[j])
			}
		}
	}
}

func gemmBLAS(m, n, k int, a []float32, lda int, b []float32, ldb int, c []float32, ldc int) {
	if klog.V(2).Enabled() {
		klog.Infof("matmul: blas32.Gemm %dx%dx%d", m, n, k)
	}
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: lda, Data: a},
		blas32.General{Rows: k, Cols: n, Stride: ldb, Data: b},
		0,
		blas32.General{Rows: m, Cols: n, Stride: ldc, Data: c})
}
