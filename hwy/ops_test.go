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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iota32(n int, start float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = start + float32(i)
	}
	return out
}

func TestDispatch(t *testing.T) {
	t.Logf("Dispatch level: %s, width %d bytes", CurrentName(), CurrentWidth())
	require.Contains(t, []int{16, 32, 64}, CurrentWidth())
	assert.Equal(t, CurrentWidth()/4, MaxLanes[float32]())
	assert.Equal(t, CurrentWidth()/8, MaxLanes[float64]())
	assert.LessOrEqual(t, MaxLanes[float32](), maxLanes)
}

func TestLoad(t *testing.T) {
	lanes := MaxLanes[float32]()
	data := iota32(lanes+3, 1)
	v := Load(data)
	require.Equal(t, lanes, v.NumLanes())
	assert.Equal(t, data[:lanes], v.Data())

	assert.Panics(t, func() { Load(data[:lanes-1]) })
}

func TestLoadSlice(t *testing.T) {
	lanes := MaxLanes[float32]()
	v := LoadSlice([]float32{7, 8})
	want := make([]float32, lanes)
	want[0], want[1] = 7, 8
	assert.Equal(t, want, v.Data())
}

func TestSetZero(t *testing.T) {
	for _, x := range Set[float32](42).Data() {
		assert.Equal(t, float32(42), x)
	}
	for _, x := range Zero[float64]().Data() {
		assert.Equal(t, 0.0, x)
	}
}

func TestArithmetic(t *testing.T) {
	lanes := MaxLanes[float32]()
	a := Load(iota32(lanes, 1))
	b := Set[float32](2)
	c := Set[float32](0.5)

	sum := Add(a, b).Data()
	diff := Sub(a, b).Data()
	prod := Mul(a, b).Data()
	fma := MulAdd(a, b, c).Data()
	for i := range lanes {
		x := float32(i + 1)
		assert.Equal(t, x+2, sum[i])
		assert.Equal(t, x-2, diff[i])
		assert.Equal(t, x*2, prod[i])
		assert.Equal(t, x*2+0.5, fma[i])
	}
	// Operations work on copies.
	assert.Equal(t, iota32(lanes, 1), a.Data())
}

func TestReduceSum(t *testing.T) {
	lanes := MaxLanes[float32]()
	v := Load(iota32(lanes, 1))
	assert.Equal(t, float32(lanes*(lanes+1)/2), ReduceSum(v))
}

func TestIfThenElse(t *testing.T) {
	lanes := MaxLanes[float32]()
	a := Set[float32](1)
	b := Set[float32](2)

	mask := TailMask[float32](1)
	got := IfThenElse(mask, a, b).Data()
	assert.Equal(t, float32(1), got[0])
	for i := 1; i < lanes; i++ {
		assert.Equal(t, float32(2), got[i])
	}

	got = IfThenElseZero(LastNMask[float32](1), a).Data()
	for i := 0; i < lanes-1; i++ {
		assert.Equal(t, float32(0), got[i])
	}
	assert.Equal(t, float32(1), got[lanes-1])
}

func TestMaskLoadStore(t *testing.T) {
	lanes := MaxLanes[float32]()
	src := iota32(lanes, 10)
	mask := TailMask[float32](2)

	v := MaskLoad(mask, src[:2])
	got := v.Data()
	assert.Equal(t, []float32{10, 11}, got[:2])
	for _, x := range got[2:] {
		assert.Equal(t, float32(0), x)
	}

	// Inactive lanes beyond the slice are never touched.
	dst := []float32{-1, -1}
	MaskStore(mask, Set[float32](3), dst)
	assert.Equal(t, []float32{3, 3}, dst)
}

func TestStorePanicsOnShortDst(t *testing.T) {
	lanes := MaxLanes[float32]()
	assert.Panics(t, func() { Store(Zero[float32](), make([]float32, lanes-1)) })
}
