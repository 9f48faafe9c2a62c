package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ─────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────

type fakeNotificationRepo struct {
	saved map[string]*notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{saved: make(map[string]*notification.Notification)}
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *notification.Notification) error {
	r.saved[n.ID] = n
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*notification.Notification, error) {
	n, ok := r.saved[id]
	if !ok {
		return nil, shared.ErrNotificationNotFound
	}
	return n, nil
}

func (r *fakeNotificationRepo) ListPending(_ context.Context, limit int) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range r.saved {
		if n.Status == notification.StatusPending {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID shared.UserID, limit int) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range r.saved {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountFailedSince(_ context.Context, _ time.Time) (int64, error) {
	var count int64
	for _, n := range r.saved {
		if n.Status == notification.StatusFailed {
			count++
		}
	}
	return count, nil
}

type fakeChannel struct {
	typ     notification.ChannelType
	results []notification.DeliveryResult
	calls   int
}

func (c *fakeChannel) Type() notification.ChannelType { return c.typ }

func (c *fakeChannel) Send(_ context.Context, _ *notification.Notification) notification.DeliveryResult {
	idx := c.calls
	if idx >= len(c.results) {
		idx = len(c.results) - 1
	}
	c.calls++
	return c.results[idx]
}

func (c *fakeChannel) IsAvailable(_ context.Context) bool { return true }

func emailNotification(t *testing.T, id string) *notification.Notification {
	t.Helper()

	n, err := notification.NewNotification(notification.NewNotificationParams{
		ID:             id,
		RecipientID:    shared.UserID("7ed99bd0-87b2-4dbb-a97b-596c3f29c49b"),
		RecipientEmail: "mentee@example.com",
		Type:           notification.TypeMentorshipAccepted,
		Subject:        "Request accepted",
		Body:           "Your mentorship request has been accepted.",
	})
	assert.NoError(t, err)
	return n
}

func successResult() notification.DeliveryResult {
	return notification.NewSuccessResult(notification.ChannelEmail, "msg-001")
}

func retryableFailure() notification.DeliveryResult {
	return notification.NewFailureResult(notification.ChannelEmail, errors.New("gateway timeout"), true)
}

func permanentFailure() notification.DeliveryResult {
	return notification.NewFailureResult(notification.ChannelEmail, errors.New("recipient rejected"), false)
}

// ─────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────

func TestNotificationService_DeliverSuccess(t *testing.T) {
	repo := newFakeNotificationRepo()
	email := &fakeChannel{typ: notification.ChannelEmail, results: []notification.DeliveryResult{successResult()}}
	svc := NewNotificationService(repo, nil, DefaultNotificationServiceConfig(), email)

	n := emailNotification(t, "n-1")
	result := svc.Deliver(context.Background(), n)

	assert.True(t, result.Success)
	assert.Equal(t, notification.StatusSent, n.Status)
	assert.Equal(t, 1, n.Attempts)
	assert.Contains(t, repo.saved, "n-1")
}

func TestNotificationService_RetryableFailureStaysPending(t *testing.T) {
	repo := newFakeNotificationRepo()
	email := &fakeChannel{typ: notification.ChannelEmail, results: []notification.DeliveryResult{retryableFailure()}}
	svc := NewNotificationService(repo, nil, DefaultNotificationServiceConfig(), email)

	n := emailNotification(t, "n-2")
	result := svc.Deliver(context.Background(), n)

	assert.False(t, result.Success)
	// below the attempt budget the notification stays queued for redelivery
	assert.Equal(t, notification.StatusPending, n.Status)
	assert.Equal(t, 1, n.Attempts)
}

func TestNotificationService_PermanentFailureMarksFailed(t *testing.T) {
	repo := newFakeNotificationRepo()
	email := &fakeChannel{typ: notification.ChannelEmail, results: []notification.DeliveryResult{permanentFailure()}}
	svc := NewNotificationService(repo, nil, DefaultNotificationServiceConfig(), email)

	n := emailNotification(t, "n-3")
	result := svc.Deliver(context.Background(), n)

	assert.False(t, result.Success)
	assert.Equal(t, notification.StatusFailed, n.Status)
}

func TestNotificationService_AttemptBudgetExhausted(t *testing.T) {
	repo := newFakeNotificationRepo()
	email := &fakeChannel{typ: notification.ChannelEmail, results: []notification.DeliveryResult{
		retryableFailure(), retryableFailure(), retryableFailure(),
	}}
	config := DefaultNotificationServiceConfig()
	config.RespectQuietHours = false
	svc := NewNotificationService(repo, nil, config, email)

	n := emailNotification(t, "n-4")

	svc.Deliver(context.Background(), n)
	assert.Equal(t, notification.StatusPending, n.Status)

	svc.Deliver(context.Background(), n)
	assert.Equal(t, notification.StatusPending, n.Status)

	// the third attempt exhausts the budget
	svc.Deliver(context.Background(), n)
	assert.Equal(t, notification.StatusFailed, n.Status)
	assert.Equal(t, 3, n.Attempts)
}

func TestNotificationService_FallsBackToInApp(t *testing.T) {
	repo := newFakeNotificationRepo()
	inApp := &fakeChannel{typ: notification.ChannelInApp, results: []notification.DeliveryResult{
		notification.NewSuccessResult(notification.ChannelInApp, "n-5"),
	}}
	svc := NewNotificationService(repo, nil, DefaultNotificationServiceConfig(), inApp)

	n := emailNotification(t, "n-5")
	result := svc.Deliver(context.Background(), n)

	assert.True(t, result.Success)
	assert.Equal(t, notification.ChannelInApp, n.Channel)
	assert.Equal(t, notification.StatusSent, n.Status)
}

func TestNotificationService_NoChannelAtAll(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, nil, DefaultNotificationServiceConfig())

	n := emailNotification(t, "n-6")
	result := svc.Deliver(context.Background(), n)

	assert.False(t, result.Success)
	assert.Equal(t, notification.StatusFailed, n.Status)
}
