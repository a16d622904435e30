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

// Command convbench builds a convolution layer from flags, reports the
// strategy the factory selects for it and times its Forward pass.
//
// Usage:
//
//	convbench --src-c 32 --src-h 56 --src-w 56 --dst-c 64 --kernel 3 --pad 1 --verify
//	convbench --kernel 3 --stride 2 --parallel 8 --iters 100 -v 1
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/BotaiXiong/Simd/hwy"
	"github.com/BotaiXiong/Simd/hwy/contrib/conv"
	"github.com/BotaiXiong/Simd/hwy/contrib/workerpool"
	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

type options struct {
	srcC, srcH, srcW, dstC int
	kernel, stride         int
	dilation, pad, group   int
	iters, parallel        int
	seed                   int64
	strategy               string
	verify                 bool
	tolerance              float64
}

var constructors = map[string]func(conv.Param) conv.Convolution{
	"imgtocol": func(p conv.Param) conv.Convolution { return conv.NewImgToCol(p) },
	"winograd": func(p conv.Param) conv.Convolution { return conv.NewWinograd2x3p(p) },
	"direct":   func(p conv.Param) conv.Convolution { return conv.NewDirect(p) },
}

func newCommand() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:          "convbench",
		Short:        "Time a convolution layer with the strategy chosen for its shape",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.srcC, "src-c", 32, "source channels")
	f.IntVar(&o.srcH, "src-h", 56, "source height")
	f.IntVar(&o.srcW, "src-w", 56, "source width")
	f.IntVar(&o.dstC, "dst-c", 32, "destination channels")
	f.IntVar(&o.kernel, "kernel", 3, "square kernel size")
	f.IntVar(&o.stride, "stride", 1, "stride on both axes")
	f.IntVar(&o.dilation, "dilation", 1, "dilation on both axes")
	f.IntVar(&o.pad, "pad", 1, "zero padding on all four sides")
	f.IntVar(&o.group, "group", 1, "number of channel groups")
	f.IntVar(&o.iters, "iters", 10, "Forward calls per instance")
	f.IntVar(&o.parallel, "parallel", 1, "independent instances run concurrently through the worker pool")
	f.Int64Var(&o.seed, "seed", 1, "random seed for weights and source")
	f.StringVar(&o.strategy, "strategy", "auto", "auto, imgtocol, winograd or direct")
	f.BoolVar(&o.verify, "verify", false, "compare the output with ImgToCol")
	f.Float64Var(&o.tolerance, "tolerance", 1e-3, "maximum absolute difference accepted by --verify")

	goFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(goFlags)
	cmd.PersistentFlags().AddGoFlagSet(goFlags)
	return cmd
}

func main() {
	defer klog.Flush()
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLayer(p conv.Param, o *options) (conv.Convolution, error) {
	if o.strategy == "auto" {
		return conv.New(p)
	}
	build, ok := constructors[o.strategy]
	if !ok {
		return nil, errors.Errorf("unknown strategy %q", o.strategy)
	}
	if o.strategy == "winograd" && !(p.IsKernel(3) && p.IsStride(1) && p.IsDilation(1) && p.Group == 1) {
		return nil, errors.Errorf("winograd needs a 3x3 stride 1 single-group layer, got %s", p)
	}
	return build(p), nil
}

func run(cmd *cobra.Command, o *options) error {
	hwy.LogDispatch()
	p, err := conv.NewParam(o.srcC, o.srcH, o.srcW, o.dstC, o.kernel, o.kernel, o.dilation, o.dilation,
		o.stride, o.stride, o.pad, o.pad, o.pad, o.pad, o.group)
	if err != nil {
		return err
	}
	c, err := newLayer(p, o)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(o.seed))
	src := randomSlice(rng, p.SrcSize())
	weight := randomSlice(rng, p.WeightSize())
	bias := randomSlice(rng, p.DstC)
	c.SetWeight(weight, bias)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "layer:     %s\n", p)
	fmt.Fprintf(out, "dispatch:  %s, %d float32 lanes\n", hwy.CurrentName(), hwy.MaxLanes[float32]())
	fmt.Fprintf(out, "strategy:  %s (auto selects %s)\n", c.Kind(), conv.Select(p))
	fmt.Fprintf(out, "workspace: %s\n", humanize.IBytes(uint64(4*c.BufferSize())))
	fmt.Fprintf(out, "weights:   %s\n", humanize.IBytes(uint64(4*p.WeightSize())))

	parallel := max(1, o.parallel)
	jobs := lo.Times(parallel, func(int) conv.Job {
		return conv.Job{
			Conv: c,
			Src:  src,
			Buf:  make([]float32, c.BufferSize()),
			Dst:  make([]float32, p.DstSize()),
		}
	})
	var pool *workerpool.Pool
	if parallel > 1 {
		pool = workerpool.New(min(parallel, runtime.GOMAXPROCS(0)))
		defer pool.Close()
	}

	start := time.Now()
	for range o.iters {
		conv.Batch(pool, jobs)
	}
	elapsed := time.Since(start)
	calls := max(1, o.iters*parallel)
	macs := uint64(p.DstSize()) * uint64(p.SrcC/p.Group*p.KernelY*p.KernelX)
	perCall := elapsed / time.Duration(calls)
	fmt.Fprintf(out, "forward:   %d calls in %s, %s per call, %s MAC/s\n",
		calls, elapsed.Round(time.Microsecond), perCall,
		humanize.SIWithDigits(float64(macs)*float64(calls)/max(elapsed.Seconds(), 1e-9), 2, ""))

	if !o.verify {
		return nil
	}
	return verify(cmd, p, weight, bias, jobs, pool, o.tolerance)
}

// verify recomputes the layer with ImgToCol and checks every job's output
// against it.
func verify(cmd *cobra.Command, p conv.Param, weight, bias []float32, jobs []conv.Job, pool *workerpool.Pool, tol float64) error {
	ref := conv.NewImgToCol(p)
	ref.SetWeight(weight, bias)
	want := make([]float32, p.DstSize())
	ref.Forward(jobs[0].Src, nil, want)

	diffs := make([]float64, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			diffs[i] = maxAbsDiff(want, j.Dst, pool)
			if diffs[i] > tol {
				return errors.Errorf("job %d: max difference %g exceeds %g", i, diffs[i], tol)
			}
			return nil
		})
	}
	err := g.Wait()
	fmt.Fprintf(cmd.OutOrStdout(), "verify:    max difference %g against ImgToCol\n", lo.Max(diffs))
	return err
}

// maxAbsDiff compares want and got in chunks spread over pool.
func maxAbsDiff(want, got []float32, pool *workerpool.Pool) float64 {
	if pool == nil {
		return rangeMaxAbsDiff(want, got)
	}
	const chunkSize = 4096
	chunks := make([]float64, (len(want)+chunkSize-1)/chunkSize)
	pool.ParallelFor(len(chunks), func(start, end int) {
		for c := start; c < end; c++ {
			from, to := c*chunkSize, min((c+1)*chunkSize, len(want))
			chunks[c] = rangeMaxAbsDiff(want[from:to], got[from:to])
		}
	})
	return lo.Max(chunks)
}

func rangeMaxAbsDiff(want, got []float32) float64 {
	var d float64
	for i := range want {
		e := math.Abs(float64(want[i]) - float64(got[i]))
		if math.IsNaN(e) {
			return math.Inf(1)
		}
		d = max(d, e)
	}
	return d
}

func randomSlice(rng *rand.Rand, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = rng.Float32()*2 - 1
	}
	return out
}
