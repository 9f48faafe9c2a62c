package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

func testNotification(t *testing.T) *notification.Notification {
	t.Helper()

	n, err := notification.NewNotification(notification.NewNotificationParams{
		ID:             "9ca4322d-ebd5-4ffa-a340-56fe811bbab1",
		RecipientID:    shared.UserID("7ed99bd0-87b2-4dbb-a97b-596c3f29c49b"),
		RecipientEmail: "mentee@example.com",
		Type:           notification.TypeSessionScheduled,
		Subject:        "Session scheduled",
		Body:           "Your session has been confirmed.",
	})
	assert.NoError(t, err)
	return n
}

func newTestGateway(baseURL string) *MailGateway {
	cfg := DefaultMailGatewayConfig(baseURL, "test-api-key")
	cfg.Timeout = 2 * time.Second
	return NewMailGateway(cfg)
}

func TestMailGateway_SendSuccess(t *testing.T) {
	var gotAuth string
	var gotReq sendMailRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sendMailResponse{
			ID:     "msg-001",
			Status: "queued",
		})
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	result := gw.Send(context.Background(), testNotification(t))

	assert.True(t, result.Success)
	assert.Equal(t, "msg-001", result.MessageID)
	assert.Equal(t, notification.ChannelEmail, result.Channel)

	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, "mentee@example.com", gotReq.To)
	assert.Equal(t, "Session scheduled", gotReq.Subject)
	// the notification ID doubles as the gateway idempotency key
	assert.Equal(t, "9ca4322d-ebd5-4ffa-a340-56fe811bbab1", gotReq.MessageID)
}

func TestMailGateway_SendClientError_NotRetryable(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(gatewayErrorResponse{
			Error: "invalid recipient address",
			Code:  "invalid_recipient",
		})
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	result := gw.Send(context.Background(), testNotification(t))

	assert.False(t, result.Success)
	assert.False(t, result.Retryable)
	assert.Equal(t, http.StatusBadRequest, result.ErrorCode)
	assert.Equal(t, 1, calls, "4xx must not be retried")
}

func TestMailGateway_SendServerError_Retried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(sendMailResponse{ID: "msg-002", Status: "queued"})
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	result := gw.Send(context.Background(), testNotification(t))

	assert.True(t, result.Success)
	assert.Equal(t, "msg-002", result.MessageID)
	assert.Equal(t, 3, calls)
}

func TestMailGateway_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(gatewayErrorResponse{
			Error:      "rate limit exceeded",
			Code:       "rate_limited",
			RetryAfter: 30,
		})
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	result := gw.Send(context.Background(), testNotification(t))

	assert.False(t, result.Success)
	assert.True(t, result.Retryable)
	assert.Equal(t, 30*time.Second, result.RetryAfter)
}

func TestMailGateway_MissingRecipientEmail(t *testing.T) {
	gw := newTestGateway("http://gateway.invalid")

	n := testNotification(t)
	n.RecipientEmail = ""

	result := gw.Send(context.Background(), n)

	assert.False(t, result.Success)
	assert.False(t, result.Retryable)
}

func TestMailGateway_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	n := testNotification(t)

	for i := 0; i < 3; i++ {
		result := gw.Send(context.Background(), n)
		assert.False(t, result.Success)
	}

	assert.False(t, gw.IsAvailable(context.Background()))
}

func TestInAppChannel_AlwaysDelivers(t *testing.T) {
	ch := NewInAppChannel()
	n := testNotification(t)

	result := ch.Send(context.Background(), n)

	assert.True(t, result.Success)
	assert.Equal(t, notification.ChannelInApp, result.Channel)
	assert.Equal(t, n.ID, result.MessageID)
	assert.True(t, ch.IsAvailable(context.Background()))
}
