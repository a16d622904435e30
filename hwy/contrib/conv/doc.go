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

// Package conv implements 2-D convolution over channel-major (CHW) float32
// feature maps with three interchangeable strategies:
//
//   - ImgToCol: explicit (or, for 1x1 kernels, implicit) column expansion
//     followed by one GEMM per channel group and a per-channel bias add.
//     It handles every shape and defines the reference result.
//   - Winograd2x3p: F(2,3) Winograd fast convolution for large 3x3, stride-1,
//     ungrouped layers: 16 GEMMs in the transformed domain.
//   - Direct: sliding-window kernels specialized for 3x3 filters with
//     stride 1 or 2, vectorized across output columns with a masked
//     overlapping tail.
//
// Create picks the strategy once per layer, in the fixed priority
// Winograd2x3p > Direct > ImgToCol:
//
//	c, err := conv.Create(srcC, srcH, srcW, dstC, 3, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1)
//	if err != nil {
//	    return err
//	}
//	c.SetWeight(weight, bias) // bias may be nil
//	buf := make([]float32, c.BufferSize())
//	c.Forward(src, buf, dst)
//
// Layouts: src is [SrcC][SrcH][SrcW], weight is
// [DstC][SrcC/Group][KernelY][KernelX], dst is [DstC][DstH][DstW].
//
// SetWeight must be called before Forward, and Forward does not validate
// slice lengths beyond Go's own bounds checks: violations panic. A strategy
// is safe for concurrent Forward calls as long as every call has its own
// workspace and destination.
package conv
