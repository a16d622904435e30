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

// Package winograd provides the F(2,3) Winograd transforms for 3x3,
// stride-1 convolutions.
//
// A 3x3 filter g becomes U = G·g·Gᵀ (4x4), a 4x4 input tile d becomes
// V = Bᵀ·d·B, and the 2x2 output tile is Y = Aᵀ·(U ⊙ V)·A, with
//
//	G  = | 1    0    0  |   Bᵀ = | 1  0 -1  0 |   Aᵀ = | 1  1  1  0 |
//	     | 1/2  1/2  1/2|        | 0  1  1  0 |        | 0  1 -1 -1 |
//	     | 1/2 -1/2  1/2|        | 0 -1  1  0 |
//	     | 0    0    1  |        | 0  1  0 -1 |
//
// All three transforms store the 16 coefficient positions as separate
// slices ("position-major"), so that summing U ⊙ V over input channels is
// one matrix multiply per position:
//
//	filters: 16 slices of [dstC][srcC]
//	input:   16 slices of [srcC][tiles]
//	output:  16 slices of [dstC][tiles]
//
// Tiles advance by 2 in each direction over the padded input; tile (ty, tx)
// produces output rows 2ty..2ty+1 and columns 2tx..2tx+1.
package winograd
