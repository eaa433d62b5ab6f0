// Package queue implements component D: a durable, Redis-backed FIFO
// job queue with bounded retries, stall reclamation, and bounded
// retention of terminal jobs. It is the sole synchronization point
// between the ingest API, the worker fleet, and the progress stream.
package queue

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"placescout/internal/model"
)

// Config controls retry, stall-detection, and retention behavior. It
// is a narrow view of config.Config so this package does not import
// the whole process configuration.
type Config struct {
	MaxAttempts     int
	BackoffBase     time.Duration
	StallInterval   time.Duration
	RetainCompleted int
	RetainFailed    int
}

// Store is the Redis-backed implementation of the Queue & Store
// contract (spec §4.2).
type Store struct {
	rdb      *redis.Client
	cfg      Config
	draining atomic.Bool
}

// NewStore wraps an existing redis client. The caller owns the
// client's lifecycle (construction and Close).
func NewStore(rdb *redis.Client, cfg Config) *Store {
	return &Store{rdb: rdb, cfg: cfg}
}

// Enqueue durably records a new waiting Job for input and appends it
// to the FIFO waiting list, preserving enqueue order within a batch.
func (s *Store) Enqueue(ctx context.Context, batchID string, input model.InputRecord) (string, error) {
	if s.draining.Load() {
		return "", ErrDraining
	}
	jobID := uuid.New().String()
	job := &model.Job{
		JobID:     jobID,
		BatchID:   batchID,
		Input:     input,
		CreatedAt: time.Now().UTC(),
		State:     model.JobWaiting,
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, keyJob(jobID), toHash(job))
	pipe.SAdd(ctx, keyBatch(batchID), jobID)
	pipe.RPush(ctx, keyWaiting, jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("queue: enqueue %s: %w", jobID, err)
	}
	return jobID, nil
}

// Discard removes a still-waiting job's durable record entirely: its
// hash, its batch-set membership, and its place in the waiting list.
// It is used to unwind a partially-enqueued batch so a failed upload
// never leaves orphaned jobs behind (spec §7's enqueue_error
// invariant: all rows or none). Safe to call on a job that has already
// been picked up or discarded; the pipeline ops are no-ops in that case.
func (s *Store) Discard(ctx context.Context, batchID, jobID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, keyJob(jobID))
	pipe.SRem(ctx, keyBatch(batchID), jobID)
	pipe.LRem(ctx, keyWaiting, 1, jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue: discard %s: %w", jobID, err)
	}
	return nil
}

// NextJob blocks until a job is available, the slot's draining, or
// ctx is cancelled. A short internal poll interval lets Drain and
// context cancellation interrupt a blocked pull promptly.
func (s *Store) NextJob(ctx context.Context, workerID string, slot int) (*model.Job, error) {
	const pollTimeout = 1 * time.Second
	for {
		if s.draining.Load() {
			return nil, ErrDraining
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		res, err := s.rdb.BLPop(ctx, pollTimeout, keyWaiting).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("queue: next job: %w", err)
		}
		jobID := res[1]

		job, err := s.markActive(ctx, jobID)
		if err != nil {
			// Job hash vanished (evicted) between push and pop; move on.
			continue
		}
		return job, nil
	}
}

func (s *Store) markActive(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job.State = model.JobActive
	if job.StartedAt == nil {
		job.StartedAt = &now
	}
	job.Attempts++
	job.Progress = 10 // E's "enter" checkpoint

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, keyJob(jobID), toHash(job))
	pipe.ZAdd(ctx, keyActive, redis.Z{Score: float64(now.Unix()), Member: jobID})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("queue: mark active %s: %w", jobID, err)
	}
	return job, nil
}

// UpdateProgress sets a job's progress checkpoint (0-100) and refreshes
// its stall-detection heartbeat.
func (s *Store) UpdateProgress(ctx context.Context, jobID string, progress int) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.State != model.JobActive {
		return nil
	}
	if progress < job.Progress {
		progress = job.Progress // progress is non-decreasing within an attempt
	}
	job.Progress = progress

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, keyJob(jobID), toHash(job))
	pipe.ZAdd(ctx, keyActive, redis.Z{Score: float64(time.Now().UTC().Unix()), Member: jobID})
	_, err = pipe.Exec(ctx)
	return err
}

// Complete marks a job completed with result. Idempotent: calling it
// again for an already-terminal job is a no-op.
func (s *Store) Complete(ctx context.Context, jobID string, result *model.ScrapeResult) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if isTerminal(job.State) {
		return nil
	}

	now := time.Now().UTC()
	job.State = model.JobCompleted
	job.FinishedAt = &now
	job.Progress = 100
	job.Result = result

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, keyJob(jobID), toHash(job))
	pipe.ZRem(ctx, keyActive, jobID)
	pipe.RPush(ctx, keyCompleted, jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue: complete %s: %w", jobID, err)
	}
	return s.enforceRetention(ctx, keyCompleted, s.cfg.RetainCompleted)
}

// Fail records a failed attempt. If attempts remain, the job is
// re-enqueued after an exponential backoff delay; otherwise it
// becomes terminally failed. Idempotent per the same rule as
// Complete.
func (s *Store) Fail(ctx context.Context, jobID string, reason string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if isTerminal(job.State) {
		return nil
	}

	if job.Attempts < s.cfg.MaxAttempts {
		job.State = model.JobWaiting
		job.Progress = 0 // progress resets on retry
		job.FailureReason = reason

		if _, err := s.rdb.HSet(ctx, keyJob(jobID), toHash(job)).Result(); err != nil {
			return fmt.Errorf("queue: requeue %s: %w", jobID, err)
		}
		s.rdb.ZRem(ctx, keyActive, jobID)

		delay := BackoffDuration(job.Attempts, s.cfg.BackoffBase)
		go s.requeueAfter(jobID, delay)
		return nil
	}

	now := time.Now().UTC()
	job.State = model.JobFailed
	job.FinishedAt = &now
	job.FailureReason = reason

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, keyJob(jobID), toHash(job))
	pipe.ZRem(ctx, keyActive, jobID)
	pipe.RPush(ctx, keyFailed, jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue: fail %s: %w", jobID, err)
	}
	return s.enforceRetention(ctx, keyFailed, s.cfg.RetainFailed)
}

func (s *Store) requeueAfter(jobID string, delay time.Duration) {
	time.Sleep(delay)
	bg := context.Background()
	s.rdb.RPush(bg, keyWaiting, jobID)
}

// BatchJobs groups a batch's jobs by state, each exposing the full
// job record.
type BatchJobs struct {
	Waiting   []*model.Job
	Active    []*model.Job
	Completed []*model.Job
	Failed    []*model.Job
}

// ListByBatch returns every job in the batch, bucketed by state.
// Jobs that were evicted by retention are silently omitted, per
// spec §4.2's partial-eviction tolerance.
func (s *Store) ListByBatch(ctx context.Context, batchID string) (BatchJobs, error) {
	ids, err := s.rdb.SMembers(ctx, keyBatch(batchID)).Result()
	if err != nil {
		return BatchJobs{}, fmt.Errorf("queue: list batch %s: %w", batchID, err)
	}

	var out BatchJobs
	for _, id := range ids {
		job, err := s.getJob(ctx, id)
		if err != nil {
			continue // evicted; batch aggregation tolerates this
		}
		switch job.State {
		case model.JobWaiting:
			out.Waiting = append(out.Waiting, job)
		case model.JobActive:
			out.Active = append(out.Active, job)
		case model.JobCompleted:
			out.Completed = append(out.Completed, job)
		case model.JobFailed:
			out.Failed = append(out.Failed, job)
		}
	}
	return out, nil
}

// Drain stops the queue from handing out new jobs and waits up to
// grace for in-flight jobs to reach a terminal state. It does not
// itself force-terminate jobs; callers combine it with a worker-side
// shutdown timeout.
func (s *Store) Drain(ctx context.Context, grace time.Duration) error {
	s.draining.Store(true)

	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		n, err := s.rdb.ZCard(ctx, keyActive).Result()
		if err != nil {
			return fmt.Errorf("queue: drain: %w", err)
		}
		if n == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return nil
}

// ReclaimStalled scans the active set for jobs whose last heartbeat
// is older than the stall interval and fails their current attempt so
// they either retry or terminate. Intended to be called periodically
// from a background goroutine (see StartStallReclaimer).
func (s *Store) ReclaimStalled(ctx context.Context) (int, error) {
	cutoff := float64(time.Now().Add(-s.cfg.StallInterval).Unix())
	stale, err := s.rdb.ZRangeByScore(ctx, keyActive, &redis.ZRangeBy{Min: "0", Max: fmt.Sprintf("%f", cutoff)}).Result()
	if err != nil {
		return 0, fmt.Errorf("queue: reclaim stalled: %w", err)
	}
	for _, jobID := range stale {
		if err := s.Fail(ctx, jobID, "stalled: no heartbeat within stall interval"); err != nil {
			continue
		}
	}
	return len(stale), nil
}

// StartStallReclaimer launches a background goroutine that calls
// ReclaimStalled on the configured interval until ctx is cancelled.
func (s *Store) StartStallReclaimer(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.StallInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = s.ReclaimStalled(ctx)
			}
		}
	}()
}

func (s *Store) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	h, err := s.rdb.HGetAll(ctx, keyJob(jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("queue: get job %s: %w", jobID, err)
	}
	job, ok := fromHash(h)
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *Store) enforceRetention(ctx context.Context, key string, keep int) error {
	if keep <= 0 {
		return nil
	}
	ids, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("queue: retention %s: %w", key, err)
	}
	_, evicted := TrimRetained(ids, keep)
	if len(evicted) == 0 {
		return nil
	}
	pipe := s.rdb.TxPipeline()
	for _, id := range evicted {
		pipe.Del(ctx, keyJob(id))
	}
	pipe.LTrim(ctx, key, int64(-keep), -1)
	_, err = pipe.Exec(ctx)
	return err
}

func isTerminal(state model.JobState) bool {
	return state == model.JobCompleted || state == model.JobFailed
}
