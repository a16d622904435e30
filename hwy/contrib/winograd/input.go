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

// SetInput splits a [srcC][srcH][srcW] feature map into overlapping 4x4
// tiles and transforms every tile into the coefficient domain.
//
// Tile (ty, tx) reads source rows 2ty-padY .. 2ty-padY+3 and columns
// 2tx-padX .. 2tx-padX+3; positions outside the source read as zero, which
// covers leading and trailing padding alike. Position i of channel c and
// tile t is written to dst[i*srcC*tiles + c*tiles + t], tiles being
// TileCount(dstH, dstW).
func SetInput(src []float32, srcC, srcH, srcW, dstH, dstW, padY, padX int, dst []float32) {
	if len(src) < srcC*srcH*srcW {
		panic("winograd: src slice too short")
	}
	if len(dst) < InputBufferSize(srcC, dstH, dstW) {
		panic("winograd: input buffer too short")
	}
	tileH, tileW := (dstH+1)/2, (dstW+1)/2
	tiles := tileH * tileW
	stride := srcC * tiles
	lanes := hwy.MaxLanes[float32]()

	// Tiles [txLo, txHi) have all four columns inside the source.
	txLo := min(tileW, (padX+1)/2)
	txHi := txLo
	if last := srcW + padX - 4; last >= 0 {
		txHi = max(txLo, min(tileW, last/2+1))
	}

	for c := range srcC {
		plane := src[c*srcH*srcW : (c+1)*srcH*srcW]
		out := dst[c*tiles:]
		for ty := range tileH {
			y0 := 2*ty - padY
			rowsInside := y0 >= 0 && y0+4 <= srcH
			tx := 0
			if rowsInside {
				for ; tx < txLo; tx++ {
					inputTileAt(plane, srcH, srcW, y0, 2*tx-padX, out, stride, ty*tileW+tx)
				}
				for ; tx+lanes <= txHi; tx += lanes {
					inputTilesVec(plane[y0*srcW+2*tx-padX:], srcW, out[ty*tileW+tx:], stride)
				}
			}
			for ; tx < tileW; tx++ {
				inputTileAt(plane, srcH, srcW, y0, 2*tx-padX, out, stride, ty*tileW+tx)
			}
		}
	}
}

// inputTileAt gathers one 4x4 tile with its top-left corner at (y0, x0),
// zero-filling positions outside the plane, and stores its transform.
func inputTileAt(plane []float32, srcH, srcW, y0, x0 int, out []float32, stride, t int) {
	var d, v [16]float32
	for r := range 4 {
		y := y0 + r
		if y < 0 || y >= srcH {
			continue
		}
		row := plane[y*srcW : (y+1)*srcW]
		for s := range 4 {
			x := x0 + s
			if x >= 0 && x < srcW {
				d[4*r+s] = row[x]
			}
		}
	}
	inputTile(&d, &v)
	for i := range Count {
		out[i*stride+t] = v[i]
	}
}

// inputTilesVec transforms MaxLanes consecutive tiles of one tile row, all
// inside the source. src starts at the top-left corner of the first tile;
// lane k handles the tile two columns further right than lane k-1.
func inputTilesVec(src []float32, srcW int, out []float32, stride int) {
	var d [16]hwy.Vec[float32]
	for r := range 4 {
		row := src[r*srcW:]
		d[4*r], d[4*r+1] = hwy.LoadInterleaved2(row)
		d[4*r+2], d[4*r+3] = hwy.LoadInterleaved2(row[2:])
	}

	// t = Bᵀ·d
	var t [16]hwy.Vec[float32]
	for j := range 4 {
		t[j] = hwy.Sub(d[j], d[8+j])
		t[4+j] = hwy.Add(d[4+j], d[8+j])
		t[8+j] = hwy.Sub(d[8+j], d[4+j])
		t[12+j] = hwy.Sub(d[4+j], d[12+j])
	}
	// V = t·B
	for i := range 4 {
		t0, t1, t2, t3 := t[4*i], t[4*i+1], t[4*i+2], t[4*i+3]
		hwy.Store(hwy.Sub(t0, t2), out[(4*i)*stride:])
		hwy.Store(hwy.Add(t1, t2), out[(4*i+1)*stride:])
		hwy.Store(hwy.Sub(t2, t1), out[(4*i+2)*stride:])
		hwy.Store(hwy.Sub(t1, t3), out[(4*i+3)*stride:])
	}
}
