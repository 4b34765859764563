package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reelsbot/reels/internal/models"
)

// cancelCheckInterval bounds how often the reporter re-reads the video's
// status looking for the cancellation sentinel.
const cancelCheckInterval = 5 * time.Second

// VideoStore is the external record the reporter writes progress into.
type VideoStore interface {
	UpdateVideo(ctx context.Context, sourceType models.SourceType, videoID string, update models.VideoUpdate) ([]string, error)
	VideoStatus(ctx context.Context, sourceType models.SourceType, videoID string) (string, error)
}

// Reporter pushes per-step progress, ETA, and terminal status to the video
// record, and polls it for cooperative cancellation. Once the sentinel is
// seen, every non-terminal write is suppressed; the only write still allowed
// is the final canceled acknowledgement.
type Reporter struct {
	store      VideoStore
	sourceType models.SourceType
	videoID    string
	steps      []string
	log        *logrus.Entry

	now             func() time.Time
	startedAt       time.Time
	completedSteps  int
	lastCancelCheck time.Time
	canceled        bool
}

// PipelineSteps builds the ordered step list for a job. Optional stages are
// present only when the payload asks for them, so progress percentages stay
// honest.
func PipelineSteps(hasBGM, hasCaptions, hasAligner bool) []string {
	steps := []string{"downloading_images", "downloading_audio"}
	if hasBGM {
		steps = append(steps, "downloading_bgm")
	}
	steps = append(steps, "building_segments", "joining_clips", "mixing_audio", "merging_audio_video")
	if hasCaptions {
		if hasAligner {
			steps = append(steps, "aligning_words")
		}
		steps = append(steps, "burning_captions")
	}
	return append(steps, "uploading_video")
}

func NewReporter(store VideoStore, sourceType models.SourceType, videoID string, steps []string, logger *logrus.Logger) *Reporter {
	r := &Reporter{
		store:      store,
		sourceType: sourceType,
		videoID:    videoID,
		steps:      steps,
		log:        logger.WithField("video_id", videoID),
		now:        time.Now,
	}
	r.startedAt = r.now()
	return r
}

// Canceled reports whether the cancellation sentinel has been observed,
// re-reading the video record at most once per cancelCheckInterval.
func (r *Reporter) Canceled(ctx context.Context) bool {
	if r.canceled {
		return true
	}
	if r.now().Sub(r.lastCancelCheck) < cancelCheckInterval {
		return false
	}
	r.lastCancelCheck = r.now()

	status, err := r.store.VideoStatus(ctx, r.sourceType, r.videoID)
	if err != nil {
		r.log.WithError(err).Warn("cancellation check failed")
		return false
	}
	if status == models.VideoStatusCanceled {
		r.canceled = true
	}
	return r.canceled
}

// Step records entering the named stage and pushes a progress update.
// Returns false when the job has been canceled, signalling the pipeline to
// stop at this checkpoint.
func (r *Reporter) Step(ctx context.Context, stage, logLine string) bool {
	if r.Canceled(ctx) {
		return false
	}

	completed := r.stepIndex(stage)
	r.completedSteps = completed

	update := models.VideoUpdate{
		Status:         models.StrPtr(models.VideoStatusAssembling),
		Progress:       models.IntPtr(r.progress(completed)),
		Stage:          models.StrPtr(stage),
		ElapsedSeconds: models.IntPtr(r.elapsedSeconds()),
		Log:            models.StrPtr(logLine),
		StartedAt:      models.TimePtr(r.startedAt),
	}
	if eta, ok := r.eta(completed); ok {
		update.ETASeconds = models.IntPtr(eta)
	}
	r.push(ctx, update)

	r.log.WithFields(logrus.Fields{"stage": stage, "progress": r.progress(completed)}).Info(logLine)
	return true
}

// Fail writes the terminal failed state with a diagnostic reason.
func (r *Reporter) Fail(ctx context.Context, reason string) {
	if r.Canceled(ctx) {
		return
	}
	r.push(ctx, models.VideoUpdate{
		Status:         models.StrPtr(models.VideoStatusAssemblyFailed),
		Stage:          models.StrPtr("failed"),
		Reason:         models.StrPtr(reason),
		Log:            models.StrPtr("Assembly failed: " + reason),
		ElapsedSeconds: models.IntPtr(r.elapsedSeconds()),
	})
	r.log.WithField("reason", reason).Error("assembly failed")
}

// Complete writes the terminal completed state with the published URL.
func (r *Reporter) Complete(ctx context.Context, videoURL string) {
	r.push(ctx, models.VideoUpdate{
		Status:         models.StrPtr(models.VideoStatusCompleted),
		Progress:       models.IntPtr(100),
		Stage:          models.StrPtr("completed"),
		VideoURL:       models.StrPtr(videoURL),
		Log:            models.StrPtr("Assembly completed"),
		ElapsedSeconds: models.IntPtr(r.elapsedSeconds()),
		CompletedAt:    models.TimePtr(r.now()),
	})
	r.log.WithField("video_url", videoURL).Info("assembly completed")
}

// AckCanceled writes the one post-cancellation update the record still gets.
func (r *Reporter) AckCanceled(ctx context.Context) {
	r.push(ctx, models.VideoUpdate{
		Stage:          models.StrPtr("canceled"),
		Log:            models.StrPtr("Assembly canceled"),
		ElapsedSeconds: models.IntPtr(r.elapsedSeconds()),
	})
	r.log.Info("assembly canceled")
}

func (r *Reporter) push(ctx context.Context, update models.VideoUpdate) {
	dropped, err := r.store.UpdateVideo(ctx, r.sourceType, r.videoID, update)
	if err != nil {
		r.log.WithError(err).Warn("progress update failed")
		return
	}
	if len(dropped) > 0 {
		r.log.WithField("columns", dropped).Warn("progress update dropped unknown columns")
	}
}

// progress maps completed steps to a percentage clamped into [1, 99]; only
// the terminal Complete write reports 100.
func (r *Reporter) progress(completed int) int {
	if len(r.steps) == 0 {
		return 1
	}
	p := 100 * completed / len(r.steps)
	if p < 1 {
		p = 1
	}
	if p > 99 {
		p = 99
	}
	return p
}

// eta extrapolates remaining time linearly from elapsed-per-completed-step.
func (r *Reporter) eta(completed int) (int, bool) {
	if completed <= 0 {
		return 0, false
	}
	elapsed := r.now().Sub(r.startedAt)
	estimatedTotal := elapsed / time.Duration(completed) * time.Duration(len(r.steps))
	remaining := int((estimatedTotal - elapsed).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

func (r *Reporter) elapsedSeconds() int {
	return int(r.now().Sub(r.startedAt).Seconds())
}

func (r *Reporter) stepIndex(stage string) int {
	for i, s := range r.steps {
		if s == stage {
			return i
		}
	}
	return r.completedSteps
}
