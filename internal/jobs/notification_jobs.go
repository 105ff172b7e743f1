package jobs

import (
	"context"
	"time"

	"roomstay-backend/internal/logger"
)

// notificationRetention is how long read notifications are kept around.
const notificationRetention = 30 * 24 * time.Hour

// PurgeReadNotifications deletes read notifications older than the retention
// window
func (jr *JobRunner) PurgeReadNotifications() {
	jr.runWithRecovery("PurgeReadNotifications", func() {
		ctx := context.Background()

		cutoff := time.Now().Add(-notificationRetention)
		deleted, err := jr.store.NotificationRepository.DeleteReadBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to purge read notifications", "error", err)
			return
		}
		logger.Info("Purged read notifications", "count", deleted, "cutoff", cutoff.Format("2006-01-02"))
	})
}
