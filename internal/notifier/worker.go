// Package notifier delivers best-effort "task written" notifications.
//
// The store appends an event for every task insert and update. The Worker
// claims those events in batches and hands each one to a Sender. A claimed
// event is gone: delivery failures are logged and never retried, and
// nothing here ever touches the task write itself.
package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/taskboard/internal/logger"
	"github.com/julianstephens/taskboard/internal/models"
	"github.com/julianstephens/taskboard/internal/storage"
)

// EventSource is the store's task change feed plus owner lookup.
type EventSource interface {
	ClaimTaskEvents(ctx context.Context, limit int) ([]models.TaskEvent, error)
	GetUser(ctx context.Context, id string) (models.UserProfile, error)
}

type Worker struct {
	source    EventSource
	sender    Sender
	interval  time.Duration
	batchSize int
	fallback  string
}

// Stats counts the outcome of one batch.
type Stats struct {
	Claimed int
	Sent    int
	Failed  int
	Skipped int
}

func NewWorker(source EventSource, sender Sender, interval time.Duration, batchSize int, fallbackRecipient string) *Worker {
	return &Worker{
		source:    source,
		sender:    sender,
		interval:  interval,
		batchSize: batchSize,
		fallback:  fallbackRecipient,
	}
}

// RunOnce claims one batch and delivers it. Only a failure to claim is
// returned; delivery failures are counted and logged.
func (w *Worker) RunOnce(ctx context.Context) (Stats, error) {
	events, err := w.source.ClaimTaskEvents(ctx, w.batchSize)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Claimed: len(events)}
	for _, e := range events {
		to := w.recipient(ctx, e)
		if to == "" {
			logger.Warn("No recipient for task notification", "task", e.TaskID, "owner", e.OwnerID)
			stats.Skipped++
			continue
		}

		p := NewPayload(e, to)
		if err := w.sender.Send(ctx, p); err != nil {
			logger.Error("Error sending notification", "transport", w.sender.Name(), "task", e.TaskID, "to", to, "error", err)
			stats.Failed++
			continue
		}
		logger.Info("Notification sent", "transport", w.sender.Name(), "task", e.TaskID, "action", e.Action, "to", to)
		stats.Sent++
	}
	return stats, nil
}

// Run polls until ctx is cancelled. A full batch is followed immediately
// by another claim so a backlog drains without waiting.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		stats, err := w.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Failed to claim task events", "error", err)
		}
		if err == nil && stats.Claimed == w.batchSize {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Worker) recipient(ctx context.Context, e models.TaskEvent) string {
	profile, err := w.source.GetUser(ctx, e.OwnerID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Owner lookup failed", "owner", e.OwnerID, "error", err)
	}
	if err == nil && profile.Email != "" {
		return profile.Email
	}
	return w.fallback
}
