package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onboardly/onboarding-system/internal/core/domain"
	"github.com/onboardly/onboarding-system/internal/core/ports"
)

type fakeUserRepo struct {
	seekers []*domain.User
	err     error
}

func (f *fakeUserRepo) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) FindActiveJobSeekers(context.Context) ([]*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.seekers, nil
}

func (f *fakeUserRepo) Deactivate(context.Context, string) error { return nil }

// recordingNotifier captures Notify calls; safe for concurrent workers.
type recordingNotifier struct {
	mu       sync.Mutex
	messages map[string][]string // recipient -> messages in delivery order
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: make(map[string][]string)}
}

func (r *recordingNotifier) Notify(_ context.Context, userID string, _ domain.NotificationType, _ string, message string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[userID] = append(r.messages[userID], message)
	return &domain.Notification{User: userID, Message: message}, nil
}

func (r *recordingNotifier) CheckUpcomingSessions(context.Context, string) error { return nil }

func (r *recordingNotifier) List(context.Context, string, int, int, bool) (*ports.NotificationPage, error) {
	return &ports.NotificationPage{}, nil
}

func (r *recordingNotifier) MarkRead(context.Context, string, string) error { return nil }

func (r *recordingNotifier) MarkAllRead(context.Context, string) error { return nil }

func (r *recordingNotifier) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, msgs := range r.messages {
		n += len(msgs)
	}
	return n
}

func (r *recordingNotifier) forUser(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages[userID]...)
}

func waitForDeliveries(t *testing.T, n *recordingNotifier, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n.total() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d deliveries, got %d", want, n.total())
}

func seekers(n int) []*domain.User {
	users := make([]*domain.User, n)
	for i := range users {
		users[i] = &domain.User{ID: fmt.Sprintf("seeker_%d", i), Role: domain.RoleJobSeeker, IsActive: true}
	}
	return users
}

func TestBroadcaster_NotifiesEveryActiveJobSeeker(t *testing.T) {
	users := &fakeUserRepo{seekers: seekers(25)}
	notifier := newRecordingNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcaster(4, users, notifier, zerolog.Nop())
	b.Start(ctx)

	b.EnqueueSessionCreated("sess_1", "Backend Onboarding", "Acme Corp")
	waitForDeliveries(t, notifier, 25)

	for _, seeker := range users.seekers {
		msgs := notifier.forUser(seeker.ID)
		require.Len(t, msgs, 1, "seeker %s", seeker.ID)
		assert.Equal(t, "Acme Corp posted a new session: Backend Onboarding", msgs[0])
	}
}

func TestBroadcaster_PerRecipientOrdering(t *testing.T) {
	users := &fakeUserRepo{seekers: seekers(10)}
	notifier := newRecordingNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcaster(4, users, notifier, zerolog.Nop())
	b.Start(ctx)

	b.EnqueueSessionCreated("sess_1", "First", "Acme Corp")
	b.EnqueueSessionCreated("sess_2", "Second", "Acme Corp")
	waitForDeliveries(t, notifier, 20)

	for _, seeker := range users.seekers {
		msgs := notifier.forUser(seeker.ID)
		require.Len(t, msgs, 2, "seeker %s", seeker.ID)
		assert.Contains(t, msgs[0], "First")
		assert.Contains(t, msgs[1], "Second")
	}
}

func TestBroadcaster_AudienceLookupFailureDropsJob(t *testing.T) {
	users := &fakeUserRepo{err: errors.New("mongo down")}
	notifier := newRecordingNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcaster(2, users, notifier, zerolog.Nop())
	b.Start(ctx)

	b.EnqueueSessionCreated("sess_1", "Backend Onboarding", "Acme Corp")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, notifier.total())
}

func TestBroadcaster_EnqueueNeverBlocksCaller(t *testing.T) {
	users := &fakeUserRepo{seekers: seekers(1)}
	notifier := newRecordingNotifier()

	// Not started: intake fills up, further jobs must drop instead of block.
	b := NewBroadcaster(2, users, notifier, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < channelBuffer+10; i++ {
			b.EnqueueSessionCreated("sess_1", "Backend Onboarding", "Acme Corp")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("EnqueueSessionCreated blocked on a full queue")
	}
}
