package positions

import (
	"context"
	"io"
	"runtime"

	"github.com/golang/glog"
	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"golang.org/x/sync/errgroup"

	"github.com/bcdannyboy/blackvol/volatility"
)

// BatchOptions tunes EvaluateOptions and EvaluateStrips.
type BatchOptions struct {
	// Workers caps concurrent evaluations; 0 uses every logical CPU.
	Workers int
	// VolGuess seeds every solve; 0 uses volatility.VolGuess.
	VolGuess float64
	// Progress receives the progress bar. Nil disables it.
	Progress io.Writer
}

func (o BatchOptions) volGuess() float64 {
	if o.VolGuess > 0 {
		return o.VolGuess
	}
	return volatility.VolGuess
}

func workerCount(requested int) int {
	if requested > 0 {
		return requested
	}
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		glog.Warningf("Could not count CPUs (%v), using runtime.NumCPU", err)
		return runtime.NumCPU()
	}
	return n
}

func newProgress(total int, name string, out io.Writer) (*mpb.Progress, *mpb.Bar) {
	p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(out))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)
	return p, bar
}

// EvaluateOptions solves every option quote and reports its greeks at the
// implied volatility. Results keep the order of jobs. A job that cannot be
// solved gets an Error in its row; only cancellation of ctx fails the batch.
func EvaluateOptions(ctx context.Context, jobs []OptionJob, opts BatchOptions) ([]Result, error) {
	guess := opts.volGuess()
	return run(ctx, len(jobs), "Options", opts, func(i int) Result {
		return evaluateOption(jobs[i], guess)
	})
}

// EvaluateStrips is EvaluateOptions for strips priced at one common volatility.
func EvaluateStrips(ctx context.Context, jobs []StripJob, opts BatchOptions) ([]Result, error) {
	guess := opts.volGuess()
	return run(ctx, len(jobs), "Strips", opts, func(i int) Result {
		return evaluateStrip(jobs[i], guess)
	})
}

func run(parent context.Context, n int, name string, opts BatchOptions, eval func(int) Result) ([]Result, error) {
	results := make([]Result, n)
	if n == 0 {
		return results, nil
	}
	workers := workerCount(opts.Workers)
	glog.Infof("Evaluating %d %s using %d workers", n, name, workers)

	var (
		p   *mpb.Progress
		bar *mpb.Bar
	)
	if opts.Progress != nil {
		p, bar = newProgress(n, name, opts.Progress)
	}
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = eval(i)
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	err := g.Wait()
	if p != nil {
		if err != nil {
			bar.Abort(false)
		}
		p.Wait()
	}
	if err != nil {
		return nil, err
	}

	if glog.V(1) {
		if usage, err := cpu.Percent(0, false); err == nil && len(usage) > 0 {
			glog.Infof("%s done, CPU usage %.2f%%", name, usage[0])
		}
	}
	return results, nil
}

func evaluateOption(job OptionJob, guess float64) Result {
	res := Result{ID: job.ID, Price: job.Price}
	vol, err := ImpliedVolatilityOfLegWithGuess(job.Leg, job.Price, guess)
	if err != nil {
		glog.V(1).Infof("option %s: %v", job.ID, err)
		res.Error = err.Error()
		return res
	}
	greeks, err := job.Leg.Greeks(vol)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	greeks = sanitizeGreeks(job.ID, greeks)
	res.ImpliedVolatility = vol
	res.Greeks = &greeks
	return res
}

func evaluateStrip(job StripJob, guess float64) Result {
	res := Result{ID: job.ID, Price: job.Price}
	vol, err := ImpliedVolatilityWithGuess(job.Legs, job.Price, guess)
	if err != nil {
		glog.V(1).Infof("strip %s: %v", job.ID, err)
		res.Error = err.Error()
		return res
	}
	greeks, err := SumGreeks(job.Legs, vol)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	greeks = sanitizeGreeks(job.ID, greeks)
	res.ImpliedVolatility = vol
	res.Greeks = &greeks
	return res
}
