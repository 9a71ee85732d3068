package jobs

import (
	"context"
	"log/slog"
	"time"

	"ovation/internal/messaging"
	"ovation/internal/metrics"
	"ovation/internal/models"
	"ovation/internal/repository"
)

// HoldReaperJob reclaims expired seat holds in the background. Expired
// holds are already dead at confirm time, so the sweep only advances
// observable availability; it never changes a confirmation outcome.
type HoldReaperJob struct {
	seatRepo   *repository.SeatRepository
	natsClient *messaging.NATSClient
	interval   time.Duration
	ticker     *time.Ticker
	done       chan bool
}

func NewHoldReaperJob(seatRepo *repository.SeatRepository, natsClient *messaging.NATSClient, interval time.Duration) *HoldReaperJob {
	return &HoldReaperJob{
		seatRepo:   seatRepo,
		natsClient: natsClient,
		interval:   interval,
		done:       make(chan bool),
	}
}

// Start begins the periodic sweep. The first sweep runs immediately.
func (j *HoldReaperJob) Start(ctx context.Context) {
	slog.Info("Starting hold reaper job", "interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.sweep(ctx)
			case <-j.done:
				slog.Info("Hold reaper job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the job
func (j *HoldReaperJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

// sweep reclaims every expired hold in one bulk update
func (j *HoldReaperJob) sweep(ctx context.Context) {
	reclaimed, err := j.seatRepo.ReapExpiredHolds(ctx)
	if err != nil {
		slog.Error("Failed to reap expired holds", "error", err)
		return
	}

	if reclaimed == 0 {
		slog.Debug("No expired holds found")
		return
	}

	metrics.HoldsReapedTotal.Add(float64(reclaimed))
	slog.Info("Reclaimed expired holds", "count", reclaimed)

	event := models.HoldsReapedEvent{
		Reclaimed: reclaimed,
		Timestamp: time.Now(),
	}
	if err := j.natsClient.Publish(models.EventHoldsReaped, event); err != nil {
		slog.Error("Failed to publish holds reaped event",
			"error", err,
			"event_type", models.EventHoldsReaped)
	}
}
