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

package conv

import "github.com/BotaiXiong/Simd/hwy/contrib/workerpool"

// Job is one Forward call of a Batch. Jobs of a batch must not share Buf or
// Dst; they may share Conv and Src, which Forward only reads.
type Job struct {
	Conv          Convolution
	Src, Buf, Dst []float32
}

// Batch runs every job's Forward and returns when all are done. Jobs are
// spread over pool; a nil pool runs them in order on the caller's goroutine.
func Batch(pool *workerpool.Pool, jobs []Job) {
	run := func(i int) {
		j := &jobs[i]
		j.Conv.Forward(j.Src, j.Buf, j.Dst)
	}
	if pool == nil {
		for i := range jobs {
			run(i)
		}
		return
	}
	pool.ParallelForAtomic(len(jobs), run)
}
