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

package main

import (
	"bytes"
	"math"
	"testing"

	"github.com/BotaiXiong/Simd/hwy/contrib/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunAuto(t *testing.T) {
	out, err := execute(t, "--src-c", "16", "--src-h", "20", "--src-w", "20", "--dst-c", "16",
		"--iters", "2", "--verify")
	require.NoError(t, err)
	assert.Contains(t, out, "strategy:  Winograd2x3p")
	assert.Contains(t, out, "verify:")
}

func TestRunStrategies(t *testing.T) {
	for _, s := range []string{"imgtocol", "direct", "winograd"} {
		t.Run(s, func(t *testing.T) {
			out, err := execute(t, "--src-c", "4", "--src-h", "9", "--src-w", "40", "--dst-c", "6",
				"--strategy", s, "--iters", "1", "--parallel", "3", "--verify")
			require.NoError(t, err)
			assert.Contains(t, out, "verify:")
		})
	}
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "--src-c", "3", "--group", "2")
	require.Error(t, err)

	_, err = execute(t, "--strategy", "fft")
	require.ErrorContains(t, err, "unknown strategy")

	_, err = execute(t, "--stride", "2", "--strategy", "winograd")
	require.ErrorContains(t, err, "winograd needs")
}

func TestMaxAbsDiff(t *testing.T) {
	want := make([]float32, 10000)
	got := make([]float32, len(want))
	got[9000] = 0.5
	assert.Equal(t, 0.5, maxAbsDiff(want, got, nil))

	pool := workerpool.New(3)
	defer pool.Close()
	assert.Equal(t, 0.5, maxAbsDiff(want, got, pool))

	got[10] = float32(math.NaN())
	assert.True(t, math.IsInf(maxAbsDiff(want, got, pool), 1))
}
