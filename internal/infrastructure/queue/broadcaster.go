package queue

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/api/metrics"
	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// broadcastJob is one session-created announcement to fan out.
type broadcastJob struct {
	ID               string
	SessionID        string
	SessionTitle     string
	OrganizationName string
}

// delivery is one recipient of one job.
type delivery struct {
	job       broadcastJob
	recipient string
}

// Broadcaster fans a session-created announcement out to every active job
// seeker. Intake resolves the audience; deliveries are sharded across a fixed
// worker set by recipient id, so notifications for one user arrive in the
// order their jobs were enqueued.
type Broadcaster struct {
	intake   chan broadcastJob
	workers  []chan delivery
	users    ports.UserRepository
	notifier ports.NotificationService
	log      zerolog.Logger
}

func NewBroadcaster(numWorkers int, users ports.UserRepository, notifier ports.NotificationService, log zerolog.Logger) *Broadcaster {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	b := &Broadcaster{
		intake:   make(chan broadcastJob, channelBuffer),
		workers:  make([]chan delivery, numWorkers),
		users:    users,
		notifier: notifier,
		log:      log,
	}
	for i := range b.workers {
		b.workers[i] = make(chan delivery, channelBuffer)
	}
	return b
}

// Start launches the intake loop and all delivery workers. They stop when
// ctx is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	go b.runIntake(ctx)
	for i, ch := range b.workers {
		go b.runWorker(ctx, i, ch)
	}
}

// EnqueueSessionCreated submits a fan-out job. Non-blocking up to buffer
// capacity; when the buffer is full the job is dropped with a log line
// rather than stalling the posting request.
func (b *Broadcaster) EnqueueSessionCreated(sessionID, sessionTitle, organizationName string) {
	job := broadcastJob{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		SessionTitle:     sessionTitle,
		OrganizationName: organizationName,
	}
	select {
	case b.intake <- job:
	default:
		b.log.Error().Str("session", sessionID).Msg("broadcast queue full, job dropped")
	}
}

func (b *Broadcaster) runIntake(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-b.intake:
			if !ok {
				return
			}
			b.resolveAudience(ctx, job)
		}
	}
}

// resolveAudience looks up the recipients once per job and shards the
// deliveries out to the workers.
func (b *Broadcaster) resolveAudience(ctx context.Context, job broadcastJob) {
	seekers, err := b.users.FindActiveJobSeekers(ctx)
	if err != nil {
		b.log.Error().Err(err).
			Str("job_id", job.ID).
			Str("session", job.SessionID).
			Msg("failed to resolve broadcast audience")
		return
	}

	b.log.Info().
		Str("job_id", job.ID).
		Str("session", job.SessionID).
		Int("recipients", len(seekers)).
		Msg("session broadcast started")

	for _, seeker := range seekers {
		b.workers[b.shardIndex(seeker.ID)] <- delivery{job: job, recipient: seeker.ID}
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (b *Broadcaster) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(b.workers)
}

func (b *Broadcaster) runWorker(ctx context.Context, id int, ch <-chan delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-ch:
			if !ok {
				return
			}
			message := fmt.Sprintf("%s posted a new session: %s", d.job.OrganizationName, d.job.SessionTitle)
			if _, err := b.notifier.Notify(ctx, d.recipient, domain.NotificationSessionUpdate, "New Session Available", message); err != nil {
				metrics.BroadcastDeliveriesTotal.WithLabelValues("error").Inc()
				b.log.Error().Err(err).
					Str("job_id", d.job.ID).
					Str("recipient", d.recipient).
					Int("worker_id", id).
					Msg("broadcast delivery failed")
				continue
			}
			metrics.BroadcastDeliveriesTotal.WithLabelValues("ok").Inc()
		}
	}
}
