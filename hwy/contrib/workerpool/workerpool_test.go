// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()
	assert.Equal(t, 4, pool.NumWorkers())

	def := New(0)
	defer def.Close()
	assert.Equal(t, runtime.GOMAXPROCS(0), def.NumWorkers())
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for _, n := range []int{0, 1, 3, 4, 5, 100} {
		hits := make([]int32, n)
		pool.ParallelFor(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			require.Equal(t, int32(1), h, "n=%d index %d", n, i)
		}
	}
}

func TestParallelForAtomic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)
	pool.ParallelForAtomic(n, func(i int) {
		results[i] = i * 2
	})
	for i, r := range results {
		require.Equal(t, 2*i, r)
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(2)
	pool.Close()
	pool.Close()
}

func TestClosedPoolRunsSequentially(t *testing.T) {
	pool := New(4)
	pool.Close()

	var count atomic.Int32
	pool.ParallelForAtomic(10, func(int) { count.Add(1) })
	pool.ParallelFor(10, func(start, end int) { count.Add(int32(end - start)) })
	assert.Equal(t, int32(20), count.Load())
}

func BenchmarkPoolOverhead(b *testing.B) {
	pool := New(runtime.GOMAXPROCS(0))
	defer pool.Close()
	for b.Loop() {
		pool.ParallelForAtomic(64, func(int) {})
	}
}
