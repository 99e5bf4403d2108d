package monitoring

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Pruner deletes rows that stopped mattering before cutoff.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventPruner deletes activity events older than cutoff.
type EventPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// IdleSweeper forgets per-client state unused for longer than maxIdle.
type IdleSweeper interface {
	Sweep(maxIdle time.Duration) int
}

// PruneRevokedTokensJob drops denylist entries whose tokens have expired.
func PruneRevokedTokensJob(p Pruner, now func() time.Time) Job {
	return Job{
		Name: "prune-revoked-tokens",
		Spec: "@hourly",
		Run: func(ctx context.Context) error {
			n, err := p.Prune(ctx, now())
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int64("removed", n).Msg("Pruned expired revoked tokens")
			}
			return nil
		},
	}
}

// PruneEventsJob keeps the activity log within retention.
func PruneEventsJob(p EventPruner, retention time.Duration, now func() time.Time) Job {
	return Job{
		Name: "prune-events",
		Spec: "@daily",
		Run: func(ctx context.Context) error {
			n, err := p.PruneBefore(ctx, now().Add(-retention))
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int64("removed", n).Dur("retention", retention).Msg("Pruned old events")
			}
			return nil
		},
	}
}

// SweepIdleJob clears idle entries, such as per-IP login limiters.
func SweepIdleJob(name string, s IdleSweeper, maxIdle time.Duration) Job {
	return Job{
		Name: name,
		Spec: "@every 5m",
		Run: func(context.Context) error {
			if n := s.Sweep(maxIdle); n > 0 {
				log.Debug().Int("removed", n).Str("job", name).Msg("Swept idle entries")
			}
			return nil
		},
	}
}
