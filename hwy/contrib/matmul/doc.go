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

// Package matmul provides the single-precision GEMM used by the convolution
// strategies.
//
// Example usage:
//
//	// C = A * B where A is MxK, B is KxN, C is MxN, all row-major.
//	matmul.Gemm(m, n, k, a, k, b, n, c, n)
//
// Leading dimensions (lda, ldb, ldc) allow operating on sub-matrices of
// larger buffers, e.g. one channel group of a weight tensor. C is always
// overwritten: the product is never accumulated into existing contents.
//
// The implementation selects the path by size:
//   - Small products: a streaming lane kernel built on hwy vectors
//   - Larger products: gonum's blocked, parallel BLAS Sgemm
package matmul
