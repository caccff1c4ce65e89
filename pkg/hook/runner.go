package hook

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	pkgLogger "github.com/Layr-Labs/sui-operator-go/pkg/logger"
)

// Runner calls a hook repeatedly at a bounded rate.
type Runner struct {
	caller  *Caller
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRunner allows at most callsPerSecond calls per second with no bursting. A nil logger discards output.
func NewRunner(caller *Caller, callsPerSecond float64, logger *zap.Logger) (*Runner, error) {
	if caller == nil {
		return nil, fmt.Errorf("caller cannot be nil")
	}
	if callsPerSecond <= 0 {
		return nil, fmt.Errorf("calls per second must be positive, got %v", callsPerSecond)
	}
	return &Runner{
		caller:  caller,
		limiter: rate.NewLimiter(rate.Limit(callsPerSecond), 1),
		logger:  pkgLogger.NewNopOrDefault(logger),
	}, nil
}

// Run calls the hook n times, or until ctx is done when n is zero. It stops at the first failed
// call and returns the results gathered so far along with the error.
func (r *Runner) Run(ctx context.Context, n int, typeArgs []string, args []interface{}) ([]*CallResult, error) {
	results := make([]*CallResult, 0)
	for i := 0; n <= 0 || i < n; i++ {
		if err := r.limiter.Wait(ctx); err != nil {
			if n <= 0 && ctx.Err() != nil {
				r.logger.Sugar().Infow("Hook runner stopped", "calls", len(results))
				return results, nil
			}
			return results, err
		}

		res, err := r.caller.Call(ctx, typeArgs, args)
		if err != nil && n <= 0 && ctx.Err() != nil {
			r.logger.Sugar().Infow("Hook runner stopped", "calls", len(results))
			return results, nil
		}
		if err != nil {
			r.logger.Sugar().Errorw("Hook call failed", "call", i+1, "error", err)
			return results, fmt.Errorf("hook call %d failed: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}
