// Package maintenance runs the portal's scheduled housekeeping:
// purging expired refresh tokens and stale temporary upload files.
package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/brfkastanjen/member-portal/internal/repository"
	"github.com/brfkastanjen/member-portal/internal/storage"
)

// Start schedules the nightly cleanup and returns the running cron so
// the caller can Stop it on shutdown. The schedule can be overridden
// for testing via the spec argument; pass "" for the default (03:00
// every night).
func Start(spec string, tokens *repository.TokenRepo, store *storage.Store) (*cron.Cron, error) {
	if spec == "" {
		spec = "0 3 * * *"
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Tokens that expired or were revoked over a week ago carry no
		// audit value.
		cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)
		if n, err := tokens.PurgeExpired(ctx, cutoff); err != nil {
			log.Printf("maintenance: purge refresh tokens: %v", err)
		} else if n > 0 {
			log.Printf("maintenance: purged %d refresh tokens", n)
		}

		if store != nil {
			if n, err := store.PurgeTempFiles(time.Now().Add(-24 * time.Hour)); err != nil {
				log.Printf("maintenance: purge temp files: %v", err)
			} else if n > 0 {
				log.Printf("maintenance: removed %d stale temp files", n)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
