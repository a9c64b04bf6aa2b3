package tasks

import (
	"context"
	"time"

	userstore "github.com/eventra/eventra/internal/app/store/users"
	"go.uber.org/zap"
)

// UnverifiedAccountPurgeJob removes accounts that never completed email
// verification. Registrations older than maxAge whose verification token is
// still outstanding are deleted, freeing their username and email.
func UnverifiedAccountPurgeJob(users *userstore.Store, logger *zap.Logger, maxAge time.Duration) Job {
	return Job{
		Name:     "unverified-account-purge",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().Add(-maxAge)
			count, err := users.DeleteUnverifiedBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("purged unverified accounts",
					zap.Int64("count", count), zap.Time("cutoff", cutoff))
			}
			return nil
		},
	}
}
