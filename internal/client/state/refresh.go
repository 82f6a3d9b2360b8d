package state

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartAutoRefresh re-fetches the blog list of the user reported by userID
// every interval until ctx is done. Ticks are skipped while userID returns "".
func StartAutoRefresh(ctx context.Context, blogs *BlogContainer, userID func() string, interval time.Duration, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("blog refresh stopped")
				return
			case <-ticker.C:
				id := userID()
				if id == "" {
					continue
				}
				if _, err := blogs.FetchBlogs(ctx, id); err != nil {
					log.Warn("blog refresh failed", zap.String("userId", id), zap.Error(err))
				}
			}
		}
	}()
}
