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

package winograd

import "github.com/BotaiXiong/Simd/hwy"

// SetOutput inverse-transforms the coefficient-domain products in src
// (16 slices of [dstC][tiles]) and scatters the 2x2 tiles into the
// [dstC][dstH][dstW] destination.
//
// Edge tiles of an odd dstH or dstW are clipped: their second row or
// column is dropped, never written past the output.
func SetOutput(src []float32, dstC, dstH, dstW int, dst []float32) {
	if len(src) < OutputBufferSize(dstC, dstH, dstW) {
		panic("winograd: output buffer too short")
	}
	if len(dst) < dstC*dstH*dstW {
		panic("winograd: dst slice too short")
	}
	tileH, tileW := (dstH+1)/2, (dstW+1)/2
	tiles := tileH * tileW
	stride := dstC * tiles
	lanes := hwy.MaxLanes[float32]()
	// Tiles [0, txFull) of a row have both output columns inside dstW.
	txFull := dstW / 2

	for c := range dstC {
		in := src[c*tiles:]
		plane := dst[c*dstH*dstW : (c+1)*dstH*dstW]
		for ty := range tileH {
			y := 2 * ty
			tx := 0
			if y+1 < dstH {
				for ; tx+lanes <= txFull; tx += lanes {
					outputTilesVec(in[ty*tileW+tx:], stride, plane[y*dstW+2*tx:], dstW)
				}
			}
			for ; tx < tileW; tx++ {
				var m [16]float32
				t := ty*tileW + tx
				for i := range Count {
					m[i] = in[i*stride+t]
				}
				y00, y01, y10, y11 := outputTile(&m)
				x := 2 * tx
				plane[y*dstW+x] = y00
				if x+1 < dstW {
					plane[y*dstW+x+1] = y01
				}
				if y+1 < dstH {
					plane[(y+1)*dstW+x] = y10
					if x+1 < dstW {
						plane[(y+1)*dstW+x+1] = y11
					}
				}
			}
		}
	}
}

// outputTilesVec inverse-transforms MaxLanes consecutive tiles of one tile
// row whose 2x2 outputs are all inside the destination.
func outputTilesVec(in []float32, stride int, dst []float32, dstW int) {
	var m [16]hwy.Vec[float32]
	for i := range Count {
		m[i] = hwy.Load(in[i*stride:])
	}

	// r = Aᵀ·m
	var r [8]hwy.Vec[float32]
	for j := range 4 {
		r[j] = hwy.Add(hwy.Add(m[j], m[4+j]), m[8+j])
		r[4+j] = hwy.Sub(hwy.Sub(m[4+j], m[8+j]), m[12+j])
	}
	// Y = r·A
	for i := range 2 {
		r0, r1, r2, r3 := r[4*i], r[4*i+1], r[4*i+2], r[4*i+3]
		y0 := hwy.Add(hwy.Add(r0, r1), r2)
		y1 := hwy.Sub(hwy.Sub(r1, r2), r3)
		hwy.StoreInterleaved2(y0, y1, dst[i*dstW:])
	}
}
