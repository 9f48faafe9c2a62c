package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
	"github.com/mentorconnect/mentorconnect-core/internal/infrastructure/service"
)

const (
	jobMentorID     = "11111111-1111-4111-8111-111111111111"
	jobMenteeID     = "22222222-2222-4222-8222-222222222222"
	jobMentorshipID = "44444444-4444-4444-8444-444444444444"
	jobSessionID    = "55555555-5555-4555-8555-555555555555"
)

// ─────────────────────────────────────────────────────────────────
// Fakes
// Only the methods the jobs touch are implemented; the embedded
// interface panics on anything else, which would flag a test gap.
// ─────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	session.Repository
	upcoming []*session.Session
}

func (f *fakeSessionRepo) ListUpcoming(_ context.Context, _ time.Duration, _ session.ListOptions) ([]*session.Session, error) {
	return f.upcoming, nil
}

type fakeMentorshipRepo struct {
	mentorship.Repository
	byID  map[shared.MentorshipID]*mentorship.Mentorship
	stale []*mentorship.Mentorship
}

func (f *fakeMentorshipRepo) GetByID(_ context.Context, id shared.MentorshipID) (*mentorship.Mentorship, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, shared.ErrMentorshipNotFound
	}
	return m, nil
}

func (f *fakeMentorshipRepo) ListStaleRequests(_ context.Context, _ time.Time, _ mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	return f.stale, nil
}

type fakeDirectory struct {
	identity.Directory
	users map[shared.UserID]*identity.User
}

func (f *fakeDirectory) GetByID(_ context.Context, id shared.UserID) (*identity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeDirectory) GetByIDs(_ context.Context, ids []shared.UserID) ([]*identity.User, error) {
	var out []*identity.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	saved map[string]*notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{saved: make(map[string]*notification.Notification)}
}

func (f *fakeNotificationRepo) Save(_ context.Context, n *notification.Notification) error {
	f.saved[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id string) (*notification.Notification, error) {
	n, ok := f.saved[id]
	if !ok {
		return nil, shared.ErrNotificationNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) ListPending(_ context.Context, limit int) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range f.saved {
		if n.Status == notification.StatusPending {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID shared.UserID, limit int) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range f.saved {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountFailedSince(_ context.Context, _ time.Time) (int64, error) {
	var count int64
	for _, n := range f.saved {
		if n.Status == notification.StatusFailed {
			count++
		}
	}
	return count, nil
}

type alwaysDeliverChannel struct{}

func (alwaysDeliverChannel) Type() notification.ChannelType { return notification.ChannelEmail }

func (alwaysDeliverChannel) Send(_ context.Context, n *notification.Notification) notification.DeliveryResult {
	return notification.NewSuccessResult(notification.ChannelEmail, n.ID)
}

func (alwaysDeliverChannel) IsAvailable(_ context.Context) bool { return true }

// ─────────────────────────────────────────────────────────────────
// Builders
// ─────────────────────────────────────────────────────────────────

func activeUser(id, name, email string) *identity.User {
	return &identity.User{
		ID:          shared.UserID(id),
		DisplayName: name,
		Email:       identity.Email(email),
		Status:      identity.StatusActive,
	}
}

func activePair(t *testing.T) *mentorship.Mentorship {
	t.Helper()

	m, err := mentorship.NewMentorship(mentorship.NewMentorshipParams{
		ID:       shared.MentorshipID(jobMentorshipID),
		MentorID: shared.UserID(jobMentorID),
		MenteeID: shared.UserID(jobMenteeID),
	})
	assert.NoError(t, err)
	assert.NoError(t, m.Accept(shared.UserID(jobMentorID)))
	return m
}

func scheduledSession(t *testing.T, startsAt time.Time) *session.Session {
	t.Helper()

	s, err := session.NewSession(session.NewSessionParams{
		ID:               shared.SessionID(jobSessionID),
		MentorshipID:     shared.MentorshipID(jobMentorshipID),
		RequestedBy:      shared.UserID(jobMentorID),
		StartsAt:         startsAt,
		DurationMinutes:  60,
		Topic:            "Interfaces and composition",
		AuthoredByMentor: true,
	})
	assert.NoError(t, err)
	return s
}

func newTestDeps(t *testing.T) (*fakeSessionRepo, *fakeMentorshipRepo, *fakeDirectory, *fakeNotificationRepo, *service.NotificationService) {
	t.Helper()

	m := activePair(t)
	sessions := &fakeSessionRepo{
		upcoming: []*session.Session{scheduledSession(t, time.Now().Add(3*time.Hour))},
	}
	mentorships := &fakeMentorshipRepo{
		byID: map[shared.MentorshipID]*mentorship.Mentorship{m.ID: m},
	}
	directory := &fakeDirectory{users: map[shared.UserID]*identity.User{
		shared.UserID(jobMentorID): activeUser(jobMentorID, "Aigerim", "mentor@example.com"),
		shared.UserID(jobMenteeID): activeUser(jobMenteeID, "Dana", "mentee@example.com"),
	}}
	notifications := newFakeNotificationRepo()
	svc := service.NewNotificationService(
		notifications,
		nil,
		service.DefaultNotificationServiceConfig(),
		alwaysDeliverChannel{},
	)
	return sessions, mentorships, directory, notifications, svc
}

// ─────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────

func TestSessionRemindersJob_RemindsBothParties(t *testing.T) {
	sessions, mentorships, directory, notifications, svc := newTestDeps(t)

	job := NewSessionRemindersJob(sessions, mentorships, directory, notifications, svc, nil, DefaultSessionRemindersConfig())

	err := job.Run(context.Background())
	assert.NoError(t, err)

	stats := job.LastRunStats()
	assert.Equal(t, 1, stats.SessionsFound)
	assert.Equal(t, 2, stats.RemindersSent)
	assert.Len(t, notifications.saved, 2)

	for _, n := range notifications.saved {
		assert.Equal(t, notification.TypeSessionReminder, n.Type)
		assert.Equal(t, notification.StatusSent, n.Status)
	}
}

func TestSessionRemindersJob_SecondRunIsIdempotent(t *testing.T) {
	sessions, mentorships, directory, notifications, svc := newTestDeps(t)

	job := NewSessionRemindersJob(sessions, mentorships, directory, notifications, svc, nil, DefaultSessionRemindersConfig())

	assert.NoError(t, job.Run(context.Background()))
	assert.NoError(t, job.Run(context.Background()))

	assert.Len(t, notifications.saved, 2, "rerun must not duplicate reminders")
	assert.Equal(t, 2, job.LastRunStats().Skipped)
	assert.Equal(t, 0, job.LastRunStats().RemindersSent)
}

func TestSessionRemindersJob_SkipsSuspendedRecipient(t *testing.T) {
	sessions, mentorships, directory, notifications, svc := newTestDeps(t)
	directory.users[shared.UserID(jobMenteeID)].Status = identity.StatusSuspended

	job := NewSessionRemindersJob(sessions, mentorships, directory, notifications, svc, nil, DefaultSessionRemindersConfig())

	assert.NoError(t, job.Run(context.Background()))

	assert.Len(t, notifications.saved, 1)
	assert.Equal(t, 1, job.LastRunStats().Skipped)
}

func TestStaleRequestsJob_NudgesMentorOnce(t *testing.T) {
	_, mentorships, directory, notifications, svc := newTestDeps(t)

	stale, err := mentorship.NewMentorship(mentorship.NewMentorshipParams{
		ID:       shared.MentorshipID(jobMentorshipID),
		MentorID: shared.UserID(jobMentorID),
		MenteeID: shared.UserID(jobMenteeID),
	})
	assert.NoError(t, err)
	mentorships.stale = []*mentorship.Mentorship{stale}

	job := NewStaleRequestsJob(mentorships, directory, notifications, svc, nil, DefaultStaleRequestsConfig())

	assert.NoError(t, job.Run(context.Background()))
	assert.Len(t, notifications.saved, 1)

	for _, n := range notifications.saved {
		assert.Equal(t, shared.UserID(jobMentorID), n.RecipientID)
		assert.Equal(t, notification.TypeMentorshipRequested, n.Type)
	}

	// a second run finds the stored nudge and stays quiet
	assert.NoError(t, job.Run(context.Background()))
	assert.Len(t, notifications.saved, 1)
}
