package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

const deleteExpiredKeys = `DELETE FROM local_storage WHERE expires_at > 0 AND expires_at <= $1`

// StartExpiredKeyCleaner removes expired entries from local storage every
// interval until ctx is done.
func StartExpiredKeyCleaner(ctx context.Context, db *sql.DB, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				removed, err := purgeExpired(ctx, db, now)
				switch {
				case err != nil && ctx.Err() != nil:
					return
				case err != nil:
					log.Error("failed to clean expired storage keys", zap.Error(err))
				case removed > 0:
					log.Info("cleaned expired storage keys", zap.Int64("removed", removed))
				}
			}
		}
	}()
}

// purgeExpired deletes the keys that expired at or before now.
func purgeExpired(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, deleteExpiredKeys, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
