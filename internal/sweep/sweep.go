// Package sweep runs families of simulations across a stimulus
// parameter, currently voltage sweeps for IV curves.
package sweep

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/san-kum/ionsim/internal/channel"
	"github.com/san-kum/ionsim/internal/engine"
)

// IVPoint is one voltage step of an IV curve with its late current.
type IVPoint struct {
	VoltageMV       float64
	SteadyCurrentPA float64
}

// VoltageRange enumerates voltages from..to inclusive at the given
// step. step must be positive.
func VoltageRange(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	var vs []float64
	for v := from; v <= to+step*1e-9; v += step {
		vs = append(vs, v)
	}
	return vs
}

// IVCurve simulates the model once per voltage and reports the steady
// current at each. Every run holds the membrane at a single voltage
// for the whole duration; the protocol's epochs are dropped and only
// its concentrations and volumes carry over. Runs execute in parallel,
// one engine per goroutine.
func IVCurve(ctx context.Context, model *channel.Model, protocol *channel.Protocol, voltages []float64, cfg engine.RunConfig) ([]IVPoint, error) {
	if len(voltages) == 0 {
		return nil, fmt.Errorf("sweep: no voltages given")
	}

	points := make([]IVPoint, len(voltages))
	errs := make([]error, len(voltages))

	var wg sync.WaitGroup
	for i, v := range voltages {
		wg.Add(1)
		go func(i int, v float64) {
			defer wg.Done()
			points[i], errs[i] = runAt(ctx, model, protocol, v, cfg)
		}(i, v)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sweep: %.1f mV: %w", voltages[i], err)
		}
	}

	sort.Slice(points, func(a, b int) bool { return points[a].VoltageMV < points[b].VoltageMV })
	return points, nil
}

func runAt(ctx context.Context, model *channel.Model, protocol *channel.Protocol, v float64, cfg engine.RunConfig) (IVPoint, error) {
	hv := protocol.HoldingValues
	hv.VoltageMV = v

	held, err := channel.NewProtocol(fmt.Sprintf("%s_iv_%+.1fmV", protocol.ProtocolID, v), hv, nil)
	if err != nil {
		return IVPoint{}, err
	}

	e, err := engine.New(model, held)
	if err != nil {
		return IVPoint{}, err
	}
	res, err := e.Run(ctx, cfg)
	if err != nil {
		return IVPoint{}, err
	}

	return IVPoint{VoltageMV: v, SteadyCurrentPA: steadyCurrent(res)}, nil
}

// steadyCurrent averages the last tenth of the current trace.
func steadyCurrent(res *engine.Result) float64 {
	n := res.Len()
	tail := n / 10
	if tail < 1 {
		tail = 1
	}
	sum := 0.0
	for _, i := range res.TotalCurrentPA[n-tail:] {
		sum += i
	}
	return sum / float64(tail)
}
