package retention

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Purger deletes analytics events older than retentionDays.
type Purger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// Run purges expired analytics once at start and then every interval until
// ctx is cancelled.
func Run(ctx context.Context, logger zerolog.Logger, purger Purger, retentionDays int, interval time.Duration) error {
	if retentionDays <= 0 {
		logger.Info().Msg("Analytics retention disabled, nothing to do")
		<-ctx.Done()
		return nil
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	logger.Info().Int("retention_days", retentionDays).Dur("interval", interval).Msg("Starting retention orchestrator")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		purgeOnce(ctx, logger, purger, retentionDays)

		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down retention orchestrator")
			return nil
		case <-ticker.C:
		}
	}
}

func purgeOnce(ctx context.Context, logger zerolog.Logger, purger Purger, retentionDays int) {
	start := time.Now()
	n, err := purger.Purge(ctx, retentionDays)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error().Err(err).Msg("Error purging analytics")
		}
		return
	}
	logger.Info().Int64("deleted", n).Dur("took", time.Since(start)).Msg("Purged expired analytics")
}
