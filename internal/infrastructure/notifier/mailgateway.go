// Package notifier implements delivery channels for outgoing notifications.
// The mail gateway client talks to the platform's transactional email service;
// the in-app channel persists notifications for the web client to poll.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
	"github.com/mentorconnect/mentorconnect-core/pkg/circuitbreaker"
	"github.com/mentorconnect/mentorconnect-core/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// MailGatewayConfig contains configuration for the mail gateway client.
type MailGatewayConfig struct {
	// BaseURL is the mail gateway base URL
	BaseURL string

	// APIKey authenticates requests to the gateway
	APIKey string

	// SenderAddress is the From address for outgoing mail
	SenderAddress string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultMailGatewayConfig returns sensible defaults.
func DefaultMailGatewayConfig(baseURL, apiKey string) MailGatewayConfig {
	return MailGatewayConfig{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		SenderAddress: "noreply@mentorconnect.app",
		Timeout:       15 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// GATEWAY API TYPES
// ══════════════════════════════════════════════════════════════════════════════

// sendMailRequest is the gateway's message payload.
// MessageID doubles as an idempotency key, so redelivering the same
// notification does not produce duplicate emails.
type sendMailRequest struct {
	MessageID string `json:"message_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Category  string `json:"category,omitempty"`
}

// sendMailResponse is the gateway's success payload.
type sendMailResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// gatewayErrorResponse is the gateway's error payload.
type gatewayErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	RetryAfter int    `json:"retry_after_seconds,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// MailGateway is the HTTP client for the transactional email service.
// It implements notification.NotificationChannel.
type MailGateway struct {
	config     MailGatewayConfig
	httpClient *http.Client
	logger     *slog.Logger
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
}

// NewMailGateway creates a new mail gateway client.
func NewMailGateway(config MailGatewayConfig) *MailGateway {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.SenderAddress == "" {
		config.SenderAddress = "noreply@mentorconnect.app"
	}

	logger := config.Logger

	return &MailGateway{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:  logger,
		retrier: retry.MailGatewayRetrier(),
		breaker: circuitbreaker.MailGatewayBreaker(func(name string, from, to circuitbreaker.State) {
			logger.Warn("mail gateway circuit state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		}),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION CHANNEL IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// Type returns the channel type.
func (g *MailGateway) Type() notification.ChannelType {
	return notification.ChannelEmail
}

// Send delivers a single notification through the mail gateway.
func (g *MailGateway) Send(ctx context.Context, n *notification.Notification) notification.DeliveryResult {
	if n.RecipientEmail == "" {
		return notification.NewFailureResult(
			notification.ChannelEmail,
			notification.ErrRecipientUnreachable,
			false,
		)
	}

	payload := sendMailRequest{
		MessageID: n.ID,
		From:      g.config.SenderAddress,
		To:        n.RecipientEmail,
		Subject:   n.Subject,
		Body:      n.Body,
		Category:  string(n.Type),
	}

	var resp sendMailResponse
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.retrier.Do(ctx, func(ctx context.Context) error {
			return g.doSend(ctx, payload, &resp)
		})
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			return notification.NewFailureResult(
				notification.ChannelEmail,
				notification.ErrChannelUnavailable,
				true,
			)
		}

		var apiErr *GatewayError
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusTooManyRequests {
				return notification.NewRateLimitedResult(
					notification.ChannelEmail,
					time.Duration(apiErr.RetryAfter)*time.Second,
				)
			}
			result := notification.NewFailureResult(notification.ChannelEmail, apiErr, apiErr.Retryable())
			result.ErrorCode = apiErr.StatusCode
			return result
		}

		return notification.NewFailureResult(notification.ChannelEmail, err, true)
	}

	return notification.NewSuccessResult(notification.ChannelEmail, resp.ID)
}

// IsAvailable checks the gateway health endpoint.
func (g *MailGateway) IsAvailable(ctx context.Context) bool {
	if g.breaker.IsOpen() {
		return false
	}

	url := fmt.Sprintf("%s/v1/health", g.config.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// ══════════════════════════════════════════════════════════════════════════════
// API CALL HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// doSend performs a single send request.
// Retryable failures are wrapped with retry.Retryable so the retrier
// distinguishes them from permanent rejections.
func (g *MailGateway) doSend(ctx context.Context, payload sendMailRequest, result *sendMailResponse) error {
	url := fmt.Sprintf("%s/v1/messages", g.config.BaseURL)

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return retry.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	if g.config.Debug {
		g.logger.Debug("mail gateway call", "message_id", payload.MessageID, "to", payload.To)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		apiErr := &GatewayError{StatusCode: resp.StatusCode}

		var errResp gatewayErrorResponse
		if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr == nil {
			apiErr.Message = errResp.Error
			apiErr.Code = errResp.Code
			apiErr.RetryAfter = errResp.RetryAfter
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}

		if apiErr.Retryable() {
			return retry.Retryable(apiErr)
		}
		return retry.Permanent(apiErr)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return retry.Permanent(fmt.Errorf("unmarshal response: %w", err))
		}
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// GatewayError represents a mail gateway API error.
type GatewayError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter int
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("mail gateway error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mail gateway error %d", e.StatusCode)
}

// Retryable reports whether the request may be retried.
// Rate limits and server-side failures are retryable, other client
// errors (bad address, rejected content) are not.
func (e *GatewayError) Retryable() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode >= 500
}
