package services

import (
	"context"
	"log"
	"time"
)

// DefaultSweepInterval matches the hourly schedule of the expiry job.
const DefaultSweepInterval = time.Hour

type alertExpirer interface {
	ExpireStale(now time.Time) (int, error)
}

// Sweeper periodically expires stale emergency alerts. It only ever
// transitions active alerts, so it is safe to run alongside client
// traffic.
type Sweeper struct {
	alerts   alertExpirer
	interval time.Duration
}

func NewSweeper(alerts alertExpirer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{alerts: alerts, interval: interval}
}

func (sweeper *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(sweeper.interval)
	go func() {
		defer ticker.Stop()

		sweeper.run()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweeper.run()
			}
		}
	}()
}

func (sweeper *Sweeper) run() {
	expired, err := sweeper.alerts.ExpireStale(time.Now())
	if err != nil {
		log.Printf("sweeper: expire stale alerts failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("sweeper: expired %d stale alert(s)", expired)
	}
}
