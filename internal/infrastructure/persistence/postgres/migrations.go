package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users table
-- Version: 001
-- Accounts are mirrored from the registration system; this service only reads them.

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    display_name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    gender VARCHAR(10) NOT NULL DEFAULT '',
    roles TEXT[] NOT NULL DEFAULT '{}',
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    bio TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_user_status CHECK (status IN ('active', 'inactive', 'suspended')),
    CONSTRAINT valid_gender CHECK (gender IN ('', 'male', 'female'))
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_status ON users(status);
CREATE INDEX IF NOT EXISTS idx_users_roles ON users USING GIN(roles);

-- Mentor search scans active mentors of one gender
CREATE INDEX IF NOT EXISTS idx_users_gender_status ON users(gender, status);
`

const migration001Down = `
DROP TABLE IF EXISTS users CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE MENTORSHIPS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create mentorships table
-- Version: 002

CREATE TABLE IF NOT EXISTS mentorships (
    id UUID PRIMARY KEY,
    mentor_id UUID NOT NULL REFERENCES users(id),
    mentee_id UUID NOT NULL REFERENCES users(id),
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    notes TEXT NOT NULL DEFAULT '',
    closed_by UUID,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    accepted_at TIMESTAMP WITH TIME ZONE,
    closed_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_mentorship_status CHECK (status IN ('pending', 'active', 'declined', 'cancelled', 'completed')),
    CONSTRAINT no_self_mentorship CHECK (mentor_id != mentee_id)
);

CREATE INDEX IF NOT EXISTS idx_mentorships_mentor_id ON mentorships(mentor_id);
CREATE INDEX IF NOT EXISTS idx_mentorships_mentee_id ON mentorships(mentee_id);
CREATE INDEX IF NOT EXISTS idx_mentorships_status ON mentorships(status);
CREATE INDEX IF NOT EXISTS idx_mentorships_created_at ON mentorships(created_at DESC);

-- Stale-request reminders scan old pending rows
CREATE INDEX IF NOT EXISTS idx_mentorships_pending_created ON mentorships(created_at) WHERE status = 'pending';

-- At most one open (pending or active) mentorship per pair. The transactional
-- check in the application is backed by this index under concurrency.
CREATE UNIQUE INDEX IF NOT EXISTS uq_mentorships_open_pair
    ON mentorships(mentor_id, mentee_id)
    WHERE status IN ('pending', 'active');
`

const migration002Down = `
DROP TABLE IF EXISTS mentorships CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE SESSIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create sessions table
-- Version: 003

CREATE TABLE IF NOT EXISTS sessions (
    id UUID PRIMARY KEY,
    mentorship_id UUID NOT NULL REFERENCES mentorships(id),
    requested_by UUID NOT NULL REFERENCES users(id),
    starts_at TIMESTAMP WITH TIME ZONE NOT NULL,
    duration_minutes INTEGER NOT NULL,
    topic TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    meeting_link TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    cancelled_by UUID,
    cancellation_reason TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_session_status CHECK (status IN ('pending', 'scheduled', 'cancelled', 'completed')),
    CONSTRAINT valid_duration CHECK (duration_minutes BETWEEN 15 AND 240)
);

CREATE INDEX IF NOT EXISTS idx_sessions_mentorship_id ON sessions(mentorship_id);
CREATE INDEX IF NOT EXISTS idx_sessions_starts_at ON sessions(starts_at);

-- Overlap checks scan slot-reserving sessions of one mentorship
CREATE INDEX IF NOT EXISTS idx_sessions_mentorship_starts
    ON sessions(mentorship_id, starts_at)
    WHERE status IN ('pending', 'scheduled');

-- Reminder job scans upcoming scheduled sessions
CREATE INDEX IF NOT EXISTS idx_sessions_scheduled_starts
    ON sessions(starts_at)
    WHERE status = 'scheduled';
`

const migration003Down = `
DROP TABLE IF EXISTS sessions CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE ACTIVITY LOG
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create activity log table
-- Version: 004
-- Append-only audit trail. One row per lifecycle transition.

CREATE TABLE IF NOT EXISTS activity_log (
    id UUID PRIMARY KEY,
    actor_id UUID NOT NULL,
    action VARCHAR(50) NOT NULL,
    entity_type VARCHAR(20) NOT NULL,
    entity_id UUID NOT NULL,
    details JSONB NOT NULL DEFAULT '{}'::jsonb,
    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_entity_type CHECK (entity_type IN ('mentorship', 'session'))
);

CREATE INDEX IF NOT EXISTS idx_activity_log_entity ON activity_log(entity_type, entity_id, occurred_at DESC);
CREATE INDEX IF NOT EXISTS idx_activity_log_actor ON activity_log(actor_id, occurred_at DESC);
CREATE INDEX IF NOT EXISTS idx_activity_log_action ON activity_log(action);

-- Retention job deletes by age
CREATE INDEX IF NOT EXISTS idx_activity_log_occurred_at ON activity_log(occurred_at);
`

const migration004Down = `
DROP TABLE IF EXISTS activity_log CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 005: CREATE NOTIFICATIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration005Up = `
-- Migration: Create notifications table
-- Version: 005

CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    recipient_id UUID NOT NULL,
    recipient_email VARCHAR(255) NOT NULL,
    type VARCHAR(50) NOT NULL,
    channel VARCHAR(20) NOT NULL DEFAULT 'email',
    subject TEXT NOT NULL,
    body TEXT NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    attempts INTEGER NOT NULL DEFAULT 0,
    last_error TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    sent_at TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_notification_status CHECK (status IN ('pending', 'sent', 'failed'))
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_pending ON notifications(created_at) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS idx_notifications_failed ON notifications(created_at) WHERE status = 'failed';
`

const migration005Down = `
DROP TABLE IF EXISTS notifications CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 006: CREATE MENTOR AVAILABILITY
// ══════════════════════════════════════════════════════════════════════════════

const migration006Up = `
-- Migration: Create mentor availability table
-- Version: 006

CREATE TABLE IF NOT EXISTS mentor_availability (
    id UUID PRIMARY KEY,
    mentor_id UUID NOT NULL REFERENCES users(id),
    weekday VARCHAR(10) NOT NULL,
    start_time TIME NOT NULL,
    end_time TIME NOT NULL,
    is_recurring BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_weekday CHECK (weekday IN ('monday', 'tuesday', 'wednesday', 'thursday', 'friday', 'saturday', 'sunday')),
    CONSTRAINT slot_time_order CHECK (end_time > start_time)
);

CREATE INDEX IF NOT EXISTS idx_mentor_availability_mentor ON mentor_availability(mentor_id);
`

const migration006Down = `
DROP TABLE IF EXISTS mentor_availability CASCADE;
`
