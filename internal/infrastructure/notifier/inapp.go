package notifier

import (
	"context"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/notification"
)

// InAppChannel delivers notifications to the user's in-platform inbox.
// The notification row itself is the inbox entry, so delivery amounts to
// marking it visible; the web client reads it through the repository.
type InAppChannel struct{}

// NewInAppChannel creates a new in-app channel.
func NewInAppChannel() *InAppChannel {
	return &InAppChannel{}
}

// Type returns the channel type.
func (c *InAppChannel) Type() notification.ChannelType {
	return notification.ChannelInApp
}

// Send marks the notification as delivered to the inbox.
func (c *InAppChannel) Send(_ context.Context, n *notification.Notification) notification.DeliveryResult {
	return notification.NewSuccessResult(notification.ChannelInApp, n.ID)
}

// IsAvailable always reports true: the inbox shares the primary database.
func (c *InAppChannel) IsAvailable(_ context.Context) bool {
	return true
}
