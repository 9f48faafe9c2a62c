package command

import (
	"context"
	"sort"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/availability"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

const (
	testMentorID     = "11111111-1111-4111-8111-111111111111"
	testMenteeID     = "22222222-2222-4222-8222-222222222222"
	testOutsiderID   = "33333333-3333-4333-8333-333333333333"
	testMentorshipID = "44444444-4444-4444-8444-444444444444"
	testSessionID    = "55555555-5555-4555-8555-555555555555"
)

// ─────────────────────────────────────────────────────────────────
// Directory fake
// ─────────────────────────────────────────────────────────────────

type fakeDirectory struct {
	users map[shared.UserID]*identity.User
}

func newFakeDirectory(users ...*identity.User) *fakeDirectory {
	d := &fakeDirectory{users: make(map[shared.UserID]*identity.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *fakeDirectory) GetByID(_ context.Context, id shared.UserID) (*identity.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (d *fakeDirectory) GetByEmail(_ context.Context, email identity.Email) (*identity.User, error) {
	for _, u := range d.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (d *fakeDirectory) GetByIDs(_ context.Context, ids []shared.UserID) ([]*identity.User, error) {
	var out []*identity.User
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

func (d *fakeDirectory) List(_ context.Context, _ identity.ListOptions) ([]*identity.User, error) {
	return nil, nil
}

func (d *fakeDirectory) ListByRole(_ context.Context, _ identity.Role, _ identity.ListOptions) ([]*identity.User, error) {
	return nil, nil
}

func (d *fakeDirectory) SearchMentors(_ context.Context, _ shared.UserID, _ identity.Gender, _ identity.ListOptions) ([]*identity.User, error) {
	return nil, nil
}

func (d *fakeDirectory) Exists(_ context.Context, id shared.UserID) (bool, error) {
	_, ok := d.users[id]
	return ok, nil
}

func (d *fakeDirectory) Count(_ context.Context) (int64, error) {
	return int64(len(d.users)), nil
}

func (d *fakeDirectory) CountByRole(_ context.Context, _ identity.Role) (int64, error) {
	return 0, nil
}

// ─────────────────────────────────────────────────────────────────
// Mentorship repository fake
// ─────────────────────────────────────────────────────────────────

type fakeMentorshipRepo struct {
	items map[shared.MentorshipID]*mentorship.Mentorship
}

func newFakeMentorshipRepo(items ...*mentorship.Mentorship) *fakeMentorshipRepo {
	r := &fakeMentorshipRepo{items: make(map[shared.MentorshipID]*mentorship.Mentorship)}
	for _, m := range items {
		r.items[m.ID] = m.Clone()
	}
	return r
}

func (r *fakeMentorshipRepo) Create(_ context.Context, m *mentorship.Mentorship) error {
	for _, existing := range r.items {
		if existing.MentorID == m.MentorID && existing.MenteeID == m.MenteeID && existing.Status.IsOpen() {
			return shared.ErrDuplicatePair
		}
	}
	r.items[m.ID] = m.Clone()
	return nil
}

func (r *fakeMentorshipRepo) GetByID(_ context.Context, id shared.MentorshipID) (*mentorship.Mentorship, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, shared.ErrMentorshipNotFound
	}
	return m.Clone(), nil
}

func (r *fakeMentorshipRepo) Update(_ context.Context, m *mentorship.Mentorship) error {
	stored, ok := r.items[m.ID]
	if !ok {
		return shared.ErrMentorshipNotFound
	}
	// Compare-and-set as in the postgres repository: the write only
	// lands if the stored status still matches the transition origin.
	if stored.Status != m.PreviousStatus() {
		return shared.ErrMentorshipState
	}
	r.items[m.ID] = m.Clone()
	return nil
}

func (r *fakeMentorshipRepo) FindOpenByPair(_ context.Context, mentorID, menteeID shared.UserID) (*mentorship.Mentorship, error) {
	for _, m := range r.items {
		if m.MentorID == mentorID && m.MenteeID == menteeID && m.Status.IsOpen() {
			return m.Clone(), nil
		}
	}
	return nil, shared.ErrMentorshipNotFound
}

func (r *fakeMentorshipRepo) HasOpenPair(_ context.Context, mentorID, menteeID shared.UserID) (bool, error) {
	for _, m := range r.items {
		if m.MentorID == mentorID && m.MenteeID == menteeID && m.Status.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMentorshipRepo) ListByUser(_ context.Context, _ shared.UserID, _ mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	return nil, nil
}

func (r *fakeMentorshipRepo) ListByMentor(_ context.Context, _ shared.UserID, _ mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	return nil, nil
}

func (r *fakeMentorshipRepo) ListByMentee(_ context.Context, _ shared.UserID, _ mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	return nil, nil
}

func (r *fakeMentorshipRepo) ListOpenMentorIDs(_ context.Context, _ shared.UserID) ([]shared.UserID, error) {
	return nil, nil
}

func (r *fakeMentorshipRepo) ListStaleRequests(_ context.Context, _ time.Time, _ mentorship.ListOptions) ([]*mentorship.Mentorship, error) {
	return nil, nil
}

func (r *fakeMentorshipRepo) CountByStatus(_ context.Context, _ mentorship.Status) (int64, error) {
	return 0, nil
}

func (r *fakeMentorshipRepo) GetStatistics(_ context.Context, _ shared.UserID) (*mentorship.Statistics, error) {
	return &mentorship.Statistics{}, nil
}

type fakeMentorshipUoW struct {
	repo       *fakeMentorshipRepo
	committed  bool
	rolledBack bool
}

func (u *fakeMentorshipUoW) Mentorships() mentorship.Repository { return u.repo }

func (u *fakeMentorshipUoW) Commit(_ context.Context) error {
	u.committed = true
	return nil
}

func (u *fakeMentorshipUoW) Rollback(_ context.Context) error {
	u.rolledBack = true
	return nil
}

type fakeMentorshipUoWFactory struct {
	repo *fakeMentorshipRepo
	last *fakeMentorshipUoW
}

func (f *fakeMentorshipUoWFactory) Begin(_ context.Context) (mentorship.UnitOfWork, error) {
	f.last = &fakeMentorshipUoW{repo: f.repo}
	return f.last, nil
}

// ─────────────────────────────────────────────────────────────────
// Session repository fake
// ─────────────────────────────────────────────────────────────────

type fakeSessionRepo struct {
	items map[shared.SessionID]*session.Session
}

func newFakeSessionRepo(items ...*session.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{items: make(map[shared.SessionID]*session.Session)}
	for _, s := range items {
		r.items[s.ID] = s.Clone()
	}
	return r
}

func (r *fakeSessionRepo) Create(_ context.Context, s *session.Session) error {
	r.items[s.ID] = s.Clone()
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id shared.SessionID) (*session.Session, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *session.Session) error {
	stored, ok := r.items[s.ID]
	if !ok {
		return shared.ErrSessionNotFound
	}
	if stored.Status != s.PreviousStatus() {
		return shared.ErrSessionState
	}
	r.items[s.ID] = s.Clone()
	return nil
}

func (r *fakeSessionRepo) HasOverlap(_ context.Context, mentorshipID shared.MentorshipID, interval shared.TimeRange) (bool, error) {
	for _, s := range r.items {
		if s.MentorshipID != mentorshipID || !s.Status.ReservesSlot() {
			continue
		}
		if s.Interval().Overlaps(interval) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSessionRepo) ListByMentorship(_ context.Context, _ shared.MentorshipID, _ session.ListOptions) ([]*session.Session, error) {
	return nil, nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, _ shared.UserID, _ session.ListOptions) ([]*session.Session, error) {
	return nil, nil
}

func (r *fakeSessionRepo) ListInRange(_ context.Context, _ shared.UserID, _ shared.TimeRange, _ session.ListOptions) ([]*session.Session, error) {
	return nil, nil
}

func (r *fakeSessionRepo) ListUpcoming(_ context.Context, _ time.Duration, _ session.ListOptions) ([]*session.Session, error) {
	return nil, nil
}

func (r *fakeSessionRepo) CountByStatus(_ context.Context, _ session.Status) (int64, error) {
	return 0, nil
}

func (r *fakeSessionRepo) CountByMentorship(_ context.Context, _ shared.MentorshipID) (int64, error) {
	return 0, nil
}

func (r *fakeSessionRepo) CountForUser(_ context.Context, _ shared.UserID, _ []session.Status, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeSessionUoW struct {
	repo       *fakeSessionRepo
	committed  bool
	rolledBack bool
}

func (u *fakeSessionUoW) Sessions() session.Repository { return u.repo }

func (u *fakeSessionUoW) Commit(_ context.Context) error {
	u.committed = true
	return nil
}

func (u *fakeSessionUoW) Rollback(_ context.Context) error {
	u.rolledBack = true
	return nil
}

type fakeSessionUoWFactory struct {
	repo *fakeSessionRepo
	last *fakeSessionUoW
}

func (f *fakeSessionUoWFactory) Begin(_ context.Context) (session.UnitOfWork, error) {
	f.last = &fakeSessionUoW{repo: f.repo}
	return f.last, nil
}

// ─────────────────────────────────────────────────────────────────
// Audit, events, rate limiting
// ─────────────────────────────────────────────────────────────────

type fakeAuditRepo struct {
	entries []*activity.Entry
}

func (r *fakeAuditRepo) Record(_ context.Context, entry *activity.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) RecordBatch(_ context.Context, entries []*activity.Entry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeAuditRepo) GetByID(_ context.Context, _ string) (*activity.Entry, error) {
	return nil, shared.ErrActivityNotFound
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, _ activity.EntityType, _ string, _ int) ([]*activity.Entry, error) {
	return nil, nil
}

func (r *fakeAuditRepo) ListByActor(_ context.Context, _ shared.UserID, _ shared.TimeRange, _ int) ([]*activity.Entry, error) {
	return nil, nil
}

func (r *fakeAuditRepo) CountByAction(_ context.Context, _ activity.Action, _ shared.TimeRange) (int64, error) {
	return 0, nil
}

func (r *fakeAuditRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakePublisher struct {
	events []shared.Event
}

func (p *fakePublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

type fakeRateLimiter struct {
	err   error
	calls int
}

func (l *fakeRateLimiter) Allow(_ context.Context, _ string, _ string) error {
	l.calls++
	return l.err
}

// ─────────────────────────────────────────────────────────────────
// Availability repository fake
// ─────────────────────────────────────────────────────────────────

type fakeAvailabilityRepo struct {
	items map[string]*availability.Slot
}

func newFakeAvailabilityRepo(items ...*availability.Slot) *fakeAvailabilityRepo {
	r := &fakeAvailabilityRepo{items: make(map[string]*availability.Slot)}
	for _, s := range items {
		r.items[s.ID] = s
	}
	return r
}

func (r *fakeAvailabilityRepo) Create(_ context.Context, slot *availability.Slot) error {
	r.items[slot.ID] = slot.Clone()
	return nil
}

func (r *fakeAvailabilityRepo) DeleteByOwner(_ context.Context, id string, mentorID shared.UserID) error {
	s, ok := r.items[id]
	if !ok || s.MentorID != mentorID {
		return shared.ErrSlotNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeAvailabilityRepo) ListByMentor(_ context.Context, mentorID shared.UserID) ([]*availability.Slot, error) {
	var out []*availability.Slot
	for _, s := range r.items {
		if s.MentorID == mentorID {
			out = append(out, s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}

// ─────────────────────────────────────────────────────────────────
// Builders
// ─────────────────────────────────────────────────────────────────

func activeUser(id string, gender string, roles ...identity.Role) *identity.User {
	return &identity.User{
		ID:     shared.UserID(id),
		Gender: identity.NewGender(gender),
		Roles:  roles,
		Status: identity.StatusActive,
	}
}

func pendingMentorship() *mentorship.Mentorship {
	m, err := mentorship.NewMentorship(mentorship.NewMentorshipParams{
		ID:       shared.MentorshipID(testMentorshipID),
		MentorID: shared.UserID(testMentorID),
		MenteeID: shared.UserID(testMenteeID),
	})
	if err != nil {
		panic(err)
	}
	return m
}

func activeMentorship() *mentorship.Mentorship {
	m := pendingMentorship()
	if err := m.Accept(shared.UserID(testMentorID)); err != nil {
		panic(err)
	}
	return m
}

func pendingSession(startsAt time.Time) *session.Session {
	s, err := session.NewSession(session.NewSessionParams{
		ID:              shared.SessionID(testSessionID),
		MentorshipID:    shared.MentorshipID(testMentorshipID),
		RequestedBy:     shared.UserID(testMenteeID),
		StartsAt:        startsAt,
		DurationMinutes: 60,
		Topic:           "Goroutines and channels",
	})
	if err != nil {
		panic(err)
	}
	return s
}
