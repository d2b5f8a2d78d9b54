package tasks

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-admin/internal/lock"
	"github.com/noah-isme/storefront-admin/internal/special"
)

// TypeSpecialRecompute is the periodic task that rewrites stale
// special status labels from their windows.
const TypeSpecialRecompute = "special:recompute_status"

const recomputeLockKey = "lock:special_recompute"

// NewSpecialRecomputeTask builds the recompute task. It carries no
// payload; the handler derives everything from the clock.
func NewSpecialRecomputeTask() *asynq.Task {
	return asynq.NewTask(TypeSpecialRecompute, nil)
}

// RecomputeHandler processes the recompute task under a distributed
// lock so overlapping schedules collapse to one run.
type RecomputeHandler struct {
	Specials *special.Service
	Locker   lock.Locker
	LockTTL  time.Duration
	Logger   zerolog.Logger
}

// ProcessTask implements asynq.Handler.
func (h *RecomputeHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	return h.Locker.WithLock(ctx, recomputeLockKey, h.LockTTL, func(ctx context.Context) error {
		changed, err := h.Specials.RecomputeStatuses(ctx)
		if err != nil {
			h.Logger.Error().Err(err).Msg("special status recompute failed")
			return err
		}
		h.Logger.Info().Int64("changed", changed).Msg("special status recompute done")
		return nil
	})
}
