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

// Count is the number of coefficient positions of a transformed tile.
const Count = 16

// TileCount returns the number of 2x2 output tiles covering a dstH x dstW
// output.
func TileCount(dstH, dstW int) int {
	return ((dstH + 1) / 2) * ((dstW + 1) / 2)
}

// FilterBufferSize returns the number of elements SetFilter writes for count
// filters.
func FilterBufferSize(count int) int {
	return Count * count
}

// InputBufferSize returns the number of elements SetInput writes.
func InputBufferSize(srcC, dstH, dstW int) int {
	return Count * srcC * TileCount(dstH, dstW)
}

// OutputBufferSize returns the number of elements SetOutput reads.
func OutputBufferSize(dstC, dstH, dstW int) int {
	return Count * dstC * TileCount(dstH, dstW)
}

// SetFilter transforms count 3x3 filters, stored consecutively in src, into
// the coefficient domain. Position i of filter f is written to
// dst[i*count+f]. For weights laid out [dstC][srcC][3][3] each position
// slice is a dstC x srcC row-major matrix.
//
// Filters are transformed once per layer, so this runs scalar.
func SetFilter(src []float32, count int, dst []float32) {
	if len(src) < 9*count {
		panic("winograd: filter slice too short")
	}
	if len(dst) < Count*count {
		panic("winograd: transformed filter slice too short")
	}
	const r2 = 0.5
	var t [4][3]float32
	for f := range count {
		g := src[9*f : 9*f+9]
		// t = G·g
		for j := range 3 {
			g0, g1, g2 := g[j], g[3+j], g[6+j]
			t[0][j] = g0
			t[1][j] = r2 * (g0 + g1 + g2)
			t[2][j] = r2 * (g0 - g1 + g2)
			t[3][j] = g2
		}
		// U = t·Gᵀ
		for i := range 4 {
			t0, t1, t2 := t[i][0], t[i][1], t[i][2]
			dst[(4*i+0)*count+f] = t0
			dst[(4*i+1)*count+f] = r2 * (t0 + t1 + t2)
			dst[(4*i+2)*count+f] = r2 * (t0 - t1 + t2)
			dst[(4*i+3)*count+f] = t2
		}
	}
}

// inputTile computes V = Bᵀ·d·B for one 4x4 tile.
func inputTile(d *[16]float32, v *[16]float32) {
	var t [16]float32
	for j := range 4 {
		d0, d1, d2, d3 := d[j], d[4+j], d[8+j], d[12+j]
		t[j] = d0 - d2
		t[4+j] = d1 + d2
		t[8+j] = d2 - d1
		t[12+j] = d1 - d3
	}
	for i := range 4 {
		t0, t1, t2, t3 := t[4*i], t[4*i+1], t[4*i+2], t[4*i+3]
		v[4*i] = t0 - t2
		v[4*i+1] = t1 + t2
		v[4*i+2] = t2 - t1
		v[4*i+3] = t1 - t3
	}
}

// outputTile computes Y = Aᵀ·m·A for one tile.
func outputTile(m *[16]float32) (y00, y01, y10, y11 float32) {
	var r [2][4]float32
	for j := range 4 {
		m0, m1, m2, m3 := m[j], m[4+j], m[8+j], m[12+j]
		r[0][j] = m0 + m1 + m2
		r[1][j] = m1 - m2 - m3
	}
	y00 = r[0][0] + r[0][1] + r[0][2]
	y01 = r[0][1] - r[0][2] - r[0][3]
	y10 = r[1][0] + r[1][1] + r[1][2]
	y11 = r[1][1] - r[1][2] - r[1][3]
	return
}
