package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/reelsbot/reels/internal/config"
	"github.com/reelsbot/reels/internal/media"
	"github.com/reelsbot/reels/internal/models"
)

// JobStore is the durable queue the worker claims jobs from.
type JobStore interface {
	ClaimJob(ctx context.Context, workerID string, lockDuration time.Duration) (*models.AssemblyJob, error)
	CompleteJob(ctx context.Context, jobID uuid.UUID) error
	RetryOrFailJob(ctx context.Context, job *models.AssemblyJob, jobErr error, policy config.RetryPolicy) (models.JobStatus, error)
	CancelJob(ctx context.Context, jobID uuid.UUID) error
}

// Worker polls the queue and runs the assembly pipeline for each claimed
// job. One Worker processes one job at a time; run several processes for
// parallelism — the claim operation keeps them from colliding.
type Worker struct {
	jobs      JobStore
	videos    VideoStore
	fetcher   Fetcher
	encoder   media.Encoder
	assembler *media.Assembler
	uploader  Uploader
	aligner   WordAligner // nil disables alignment
	music     MusicResolver

	workerID     string
	mode         string
	pollInterval time.Duration
	lockDuration time.Duration
	maxRuntime   time.Duration
	maxJobs      int
	retry        config.RetryPolicy
	tempDir      string

	log *logrus.Entry

	jobsProcessed int
}

type Deps struct {
	Jobs      JobStore
	Videos    VideoStore
	Fetcher   Fetcher
	Encoder   media.Encoder
	Assembler *media.Assembler
	Uploader  Uploader
	Aligner   WordAligner
	Music     MusicResolver
}

func New(deps Deps, cfg *config.Config, logger *logrus.Logger) *Worker {
	workerID := cfg.WorkerID
	if workerID == "" {
		workerID = "worker-" + uuid.NewString()[:8]
	}
	return &Worker{
		jobs:         deps.Jobs,
		videos:       deps.Videos,
		fetcher:      deps.Fetcher,
		encoder:      deps.Encoder,
		assembler:    deps.Assembler,
		uploader:     deps.Uploader,
		aligner:      deps.Aligner,
		music:        deps.Music,
		workerID:     workerID,
		mode:         cfg.WorkerMode,
		pollInterval: cfg.PollInterval,
		lockDuration: cfg.LockDuration,
		maxRuntime:   cfg.MaxRuntime,
		maxJobs:      cfg.MaxJobs,
		retry:        cfg.Retry,
		tempDir:      cfg.TempDir,
		log:          logger.WithField("worker_id", workerID),
	}
}

// Run is the poll loop. In service mode it runs until the context is
// canceled or a runtime/job cap is hit; in job mode it exits as soon as the
// queue is empty.
func (w *Worker) Run(ctx context.Context) error {
	start := time.Now()
	w.log.WithField("mode", w.mode).Info("worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return ctx.Err()
		default:
		}

		if w.maxRuntime > 0 && time.Since(start) >= w.maxRuntime {
			w.log.Info("max runtime reached, stopping")
			return nil
		}
		if w.maxJobs > 0 && w.jobsProcessed >= w.maxJobs {
			w.log.Info("max job count reached, stopping")
			return nil
		}

		job, err := w.jobs.ClaimJob(ctx, w.workerID, w.lockDuration)
		if err != nil {
			w.log.WithError(err).Error("claim failed")
			if !w.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		if job == nil {
			if w.mode == "job" {
				w.log.Info("queue empty, exiting")
				return nil
			}
			if !w.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		w.processJob(ctx, job)
		w.jobsProcessed++
	}
}

// processJob runs one claimed job end to end, translating every outcome —
// success, cancellation, failure, panic — into a queue transition. Nothing
// here is allowed to crash the poll loop.
func (w *Worker) processJob(ctx context.Context, job *models.AssemblyJob) {
	log := w.log.WithFields(logrus.Fields{"job_id": job.ID, "video_id": job.VideoID, "attempt": job.Attempts})
	log.Info("processing job")

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic during assembly: %v", rec)
			log.WithError(err).Error("job panicked")
			w.transitionFailed(ctx, job, err, log)
		}
	}()

	// Honor a cancellation requested while the job waited in the queue.
	if status, err := w.videos.VideoStatus(ctx, job.SourceType, job.VideoID); err == nil && status == models.VideoStatusCanceled {
		log.Info("video canceled before execution")
		if err := w.jobs.CancelJob(ctx, job.ID); err != nil {
			log.WithError(err).Error("failed to mark job canceled")
		}
		return
	}

	p := job.Payload
	hasBGM := p.BGMURL != "" || (p.MusicMood != "" && w.music != nil)
	hasCaptions := p.IncludeCaptions && len(p.Beats) > 0
	steps := PipelineSteps(hasBGM, hasCaptions, w.aligner != nil)

	reporter := NewReporter(w.videos, job.SourceType, job.VideoID, steps, w.log.Logger)

	videoURL, err := w.runAssembly(ctx, job, reporter)

	switch {
	case err == nil && reporter.Canceled(ctx):
		// Pipeline finished but the sentinel appeared along the way: the
		// job is canceled, not completed.
		reporter.AckCanceled(ctx)
		if err := w.jobs.CancelJob(ctx, job.ID); err != nil {
			log.WithError(err).Error("failed to mark job canceled")
		}

	case err == nil:
		reporter.Complete(ctx, videoURL)
		if err := w.jobs.CompleteJob(ctx, job.ID); err != nil {
			log.WithError(err).Error("failed to mark job completed")
		}
		log.WithField("video_url", videoURL).Info("job completed")

	case errors.Is(err, ErrCanceled):
		reporter.AckCanceled(ctx)
		if err := w.jobs.CancelJob(ctx, job.ID); err != nil {
			log.WithError(err).Error("failed to mark job canceled")
		}

	default:
		reporter.Fail(ctx, err.Error())
		w.transitionFailed(ctx, job, err, log)
	}
}

func (w *Worker) transitionFailed(ctx context.Context, job *models.AssemblyJob, jobErr error, log *logrus.Entry) {
	status, err := w.jobs.RetryOrFailJob(ctx, job, jobErr, w.retry)
	if err != nil {
		log.WithError(err).Error("failed to transition job after error")
		return
	}
	log.WithFields(logrus.Fields{"status": status, "cause": jobErr.Error()}).Warn("job attempt failed")
}

func (w *Worker) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.pollInterval):
		return true
	}
}
