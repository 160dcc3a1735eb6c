package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Probe calls check until the named backing service answers or cfg runs out.
// Every attempt gets its own attemptTimeout so one hung dial cannot use up
// the whole budget.
func Probe(ctx context.Context, cfg Config, service string, attemptTimeout time.Duration, check func(context.Context) error) error {
	attempt := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		defer cancel()
		return check(attemptCtx)
	}

	return DoWithLog(ctx, cfg, service, attempt, func(n int, err error, nextDelay time.Duration) {
		log.Warn().
			Err(err).
			Str("service", service).
			Int("attempt", n).
			Dur("next_delay", nextDelay).
			Msg("Backing service not ready")
	})
}
