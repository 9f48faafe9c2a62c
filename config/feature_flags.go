package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and gradual rollouts.
// Supports percentage rollout, role targeting, and per-user overrides.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[string]map[string]bool // userID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int

	// Role targeting ("mentor", "mentee")
	// Empty means all roles
	TargetRoles []string

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time

	// A/B test variant (for experiments)
	Variants []string
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID  string // User UUID
	Role    string // "mentor" or "mentee"
	IsAdmin bool
}

// Predefined feature flag names.
const (
	// === Notification Features ===
	FeatureNotifyMentorshipLifecycle = "notify.mentorship_lifecycle" // request/accept/decline/close mail
	FeatureNotifySessionLifecycle    = "notify.session_lifecycle"    // session request/schedule/cancel mail
	FeatureNotifySessionReminder     = "notify.session_reminder"     // upcoming session reminders
	FeatureNotifyStaleRequestNudge   = "notify.stale_request_nudge"  // nudge mentors about old requests

	// === Session Features ===
	FeatureSessionMeetingLink = "session.meeting_link" // store meeting link on sessions

	// === Limits ===
	FeatureLimitsRequestRate = "limits.request_rate" // fixed-window rate limiter

	// === Messaging ===
	FeatureMessagingSharedBus = "messaging.shared_bus" // fan events out over Redis Pub/Sub

	// === Experimental Features ===
	FeatureExperimentalWebhookChannel = "experimental.webhook_channel" // webhook delivery channel
	FeatureExperimentalAnalytics      = "experimental.analytics"       // program statistics dashboard
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[string]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Notification features - enabled by default
	ff.features[FeatureNotifyMentorshipLifecycle] = &Feature{
		Name:           FeatureNotifyMentorshipLifecycle,
		Description:    "Email on mentorship request, accept, decline and close",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifySessionLifecycle] = &Feature{
		Name:           FeatureNotifySessionLifecycle,
		Description:    "Email on session request, schedule, reject and cancel",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifySessionReminder] = &Feature{
		Name:           FeatureNotifySessionReminder,
		Description:    "Reminders ahead of scheduled sessions",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyStaleRequestNudge] = &Feature{
		Name:           FeatureNotifyStaleRequestNudge,
		Description:    "Nudge mentors about requests pending past the threshold",
		Enabled:        true,
		RolloutPercent: 50, // Gradual rollout
		TargetRoles:    []string{"mentor"},
	}

	// Session features
	ff.features[FeatureSessionMeetingLink] = &Feature{
		Name:           FeatureSessionMeetingLink,
		Description:    "Store a meeting link on scheduled sessions",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Limits
	ff.features[FeatureLimitsRequestRate] = &Feature{
		Name:           FeatureLimitsRequestRate,
		Description:    "Rate limit request-type commands per actor",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Messaging - off by default; a single worker instance has no peers
	ff.features[FeatureMessagingSharedBus] = &Feature{
		Name:           FeatureMessagingSharedBus,
		Description:    "Fan domain events out to peer instances over Redis Pub/Sub",
		Enabled:        false,
		RolloutPercent: 0,
	}

	// Experimental features - disabled by default
	ff.features[FeatureExperimentalWebhookChannel] = &Feature{
		Name:           FeatureExperimentalWebhookChannel,
		Description:    "Deliver notifications to external systems over HTTP",
		Enabled:        false,
		RolloutPercent: 0,
	}

	ff.features[FeatureExperimentalAnalytics] = &Feature{
		Name:           FeatureExperimentalAnalytics,
		Description:    "Program statistics dashboard",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_NOTIFY_SESSION_REMINDER=true
// Example: FEATURE_NOTIFY_STALE_REQUEST_NUDGE=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "notify.session_reminder" -> "FEATURE_NOTIFY_SESSION_REMINDER"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check user overrides first
	if ctx != nil && ctx.UserID != "" {
		if userOverrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := userOverrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check role targeting
	if len(feature.TargetRoles) > 0 && ctx != nil && ctx.Role != "" {
		roleMatch := false
		for _, r := range feature.TargetRoles {
			if r == ctx.Role {
				roleMatch = true
				break
			}
		}
		if !roleMatch {
			return false
		}
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != "" {
		return ff.isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a user is in the rollout percentage.
// Uses consistent hashing so users stay in their bucket.
func (ff *FeatureFlags) isInRollout(userID string, featureName string, percent int) bool {
	// Create a consistent hash for this user+feature combination
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(userID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// GetVariant returns the A/B test variant for a user.
// Returns empty string if no variants defined or feature disabled.
func (ff *FeatureFlags) GetVariant(featureName string, ctx *FeatureContext) string {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok || !ff.IsEnabled(featureName, ctx) {
		return ""
	}

	if len(feature.Variants) == 0 {
		return ""
	}

	// Use consistent hashing to assign variant
	h := fnv.New32a()
	h.Write([]byte(featureName + "_variant"))
	h.Write([]byte(ctx.UserID))
	hash := h.Sum32()

	variantIndex := int(hash % uint32(len(feature.Variants)))
	return feature.Variants[variantIndex]
}

// SetUserOverride sets a feature override for a specific user.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetUserOverride(userID string, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// NotificationsEnabled checks if any notification features are enabled.
func (ff *FeatureFlags) NotificationsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureNotifyMentorshipLifecycle, ctx) ||
		ff.IsEnabled(FeatureNotifySessionLifecycle, ctx) ||
		ff.IsEnabled(FeatureNotifySessionReminder, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
