// SPDX-License-Identifier: Apache-2.0

package job

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amaziapp/shiftsheet/internal/store"
)

// StartRetention schedules a nightly sweep deleting unconfirmed uploads
// older than retentionDays. Returns the running scheduler so the caller can
// stop it on shutdown.
func StartRetention(st *store.PostgresStore, retentionDays int) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("0 3 * * *", func() {
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		n, err := st.PurgeStaleUploads(context.Background(), cutoff)
		if err != nil {
			log.Printf("retention sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("retention sweep purged %d stale upload(s)", n)
		}
	})
	if err != nil {
		log.Printf("retention schedule invalid: %v", err)
		return c
	}
	c.Start()
	return c
}
