package postgres

import (
	"context"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MENTORSHIP UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// MentorshipUnitOfWork implements mentorship.UnitOfWork over a pgx transaction.
// The duplicate-pair check and the insert run in the same transaction, with
// the partial unique index as the concurrency backstop.
type MentorshipUnitOfWork struct {
	tx   pgx.Tx
	repo *MentorshipRepository
}

// Mentorships returns the transaction-bound repository.
func (u *MentorshipUnitOfWork) Mentorships() mentorship.Repository {
	return u.repo
}

// Commit commits the transaction.
func (u *MentorshipUnitOfWork) Commit(ctx context.Context) error {
	return u.tx.Commit(ctx)
}

// Rollback rolls back the transaction.
func (u *MentorshipUnitOfWork) Rollback(ctx context.Context) error {
	return u.tx.Rollback(ctx)
}

// MentorshipUnitOfWorkFactory implements mentorship.UnitOfWorkFactory.
type MentorshipUnitOfWorkFactory struct {
	conn *Connection
}

// NewMentorshipUnitOfWorkFactory creates a new factory.
func NewMentorshipUnitOfWorkFactory(conn *Connection) *MentorshipUnitOfWorkFactory {
	return &MentorshipUnitOfWorkFactory{conn: conn}
}

// Begin opens a new transaction.
func (f *MentorshipUnitOfWorkFactory) Begin(ctx context.Context) (mentorship.UnitOfWork, error) {
	tx, err := f.conn.BeginTx(ctx, DefaultTxOptions())
	if err != nil {
		return nil, err
	}

	return &MentorshipUnitOfWork{
		tx:   tx,
		repo: newTxMentorshipRepository(tx),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// SessionUnitOfWork implements session.UnitOfWork over a pgx transaction.
// The overlap check and the insert run in the same transaction.
type SessionUnitOfWork struct {
	tx   pgx.Tx
	repo *SessionRepository
}

// Sessions returns the transaction-bound repository.
func (u *SessionUnitOfWork) Sessions() session.Repository {
	return u.repo
}

// Commit commits the transaction.
func (u *SessionUnitOfWork) Commit(ctx context.Context) error {
	return u.tx.Commit(ctx)
}

// Rollback rolls back the transaction.
func (u *SessionUnitOfWork) Rollback(ctx context.Context) error {
	return u.tx.Rollback(ctx)
}

// SessionUnitOfWorkFactory implements session.UnitOfWorkFactory.
type SessionUnitOfWorkFactory struct {
	conn *Connection
}

// NewSessionUnitOfWorkFactory creates a new factory.
func NewSessionUnitOfWorkFactory(conn *Connection) *SessionUnitOfWorkFactory {
	return &SessionUnitOfWorkFactory{conn: conn}
}

// Begin opens a new transaction. Serializable isolation keeps two
// concurrent bookings of the same slot from both passing the overlap check.
func (f *SessionUnitOfWorkFactory) Begin(ctx context.Context) (session.UnitOfWork, error) {
	tx, err := f.conn.BeginTx(ctx, TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, err
	}

	return &SessionUnitOfWork{
		tx:   tx,
		repo: newTxSessionRepository(tx),
	}, nil
}
