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

// Package nn provides SIMD-accelerated neural network layer helpers shared by
// the convolution strategies.
//
// # Supported Operations
//
//   - AddBias - per-channel bias broadcast over a channel's spatial block
//
// # Example Usage
//
//	import "github.com/BotaiXiong/Simd/hwy/contrib/nn"
//
//	// dst is [dstC][dstH*dstW]
//	nn.AddBias(bias, dstC, dstH*dstW, dst)
package nn
