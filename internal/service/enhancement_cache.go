package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"concierge/internal/model"

	"go.uber.org/zap"
)

// EnhancementCache holds enhancement jobs for the whole process, keyed by
// (listing, image index). At most one external call runs per key.
type EnhancementCache struct {
	renovator Renovator
	logger    *zap.Logger

	mu       sync.Mutex
	jobs     map[model.JobKey]*model.EnhancementJob
	inflight map[model.JobKey]chan struct{}
}

// NewEnhancementCache creates an empty cache backed by renovator
func NewEnhancementCache(renovator Renovator, logger *zap.Logger) *EnhancementCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnhancementCache{
		renovator: renovator,
		logger:    logger,
		jobs:      make(map[model.JobKey]*model.EnhancementJob),
		inflight:  make(map[model.JobKey]chan struct{}),
	}
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Request returns a channel closed once the entry for key is settled, and whether
// this call issued a new job.
//
// A ready entry generated with equal params is returned as is. A pending entry is
// joined whatever its params. Anything else, error entries included, issues a job.
func (c *EnhancementCache) Request(key model.JobKey, params model.EnhancementParams) (<-chan struct{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job := c.jobs[key]
	if job != nil {
		switch job.Status {
		case model.JobPending:
			return c.inflight[key], false
		case model.JobReady:
			if job.Params.Equal(params) {
				return closedDone, false
			}
		}
	}

	done := make(chan struct{})
	c.jobs[key] = &model.EnhancementJob{Key: key, Status: model.JobPending, Params: params}
	c.inflight[key] = done

	c.logger.Info("Enhancement job issued",
		zap.String("key", key.String()),
		zap.String("style", params.Style),
		zap.String("mode", string(params.Mode)),
	)

	// Not tied to any session: closing the overlay does not cancel the job
	go c.run(key, params, done)

	return done, true
}

func (c *EnhancementCache) run(key model.JobKey, params model.EnhancementParams, done chan struct{}) {
	startTime := time.Now()
	result, err := c.renovator.Renovate(context.Background(), params)
	if err == nil && result == nil {
		err = errors.New("renovation service returned no result")
	}
	completedAt := time.Now()

	c.mu.Lock()
	job := &model.EnhancementJob{Key: key, Params: params, CompletedAt: &completedAt}
	if err != nil {
		job.Status = model.JobError
		job.Error = err.Error()
	} else {
		job.Status = model.JobReady
		job.EnhancementResult = *result
		if job.SelectedVariant < 0 || job.SelectedVariant >= len(job.Variants) {
			job.SelectedVariant = 0
		}
	}
	c.jobs[key] = job
	delete(c.inflight, key)
	c.mu.Unlock()

	close(done)

	if err != nil {
		c.logger.Warn("Enhancement job failed",
			zap.String("key", key.String()),
			zap.Duration("took", completedAt.Sub(startTime)),
			zap.Error(err),
		)
		return
	}
	c.logger.Info("Enhancement job ready",
		zap.String("key", key.String()),
		zap.Int("variants", len(job.Variants)),
		zap.Duration("took", completedAt.Sub(startTime)),
	)
}

// Get returns a copy of the entry for key; unknown keys read as idle
func (c *EnhancementCache) Get(key model.JobKey) model.EnhancementJob {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[key]
	if !ok {
		return model.EnhancementJob{Key: key, Status: model.JobIdle}
	}
	return job.Clone()
}

// SelectVariant changes the selected variant of a ready entry
func (c *EnhancementCache) SelectVariant(key model.JobKey, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[key]
	if !ok || job.Status != model.JobReady || index < 0 || index >= len(job.Variants) {
		return ErrInvalidVariant
	}
	job.SelectedVariant = index
	return nil
}

// DisplayImage resolves what the renovation panel shows for key: the original while
// comparing or while no ready variant exists, else the selected variant.
func (c *EnhancementCache) DisplayImage(key model.JobKey, original string, comparing bool) string {
	if comparing {
		return original
	}
	job := c.Get(key)
	if img := job.SelectedImage(); img != "" {
		return img
	}
	return original
}

// Wait blocks until done is closed or ctx ends
func Wait(ctx context.Context, done <-chan struct{}) error {
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
