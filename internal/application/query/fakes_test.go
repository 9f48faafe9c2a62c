package query

import (
	"context"
	"sort"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/availability"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

const (
	queryMentorID = "aaaaaaaa-1111-4111-8111-111111111111"
	queryMenteeID = "bbbbbbbb-2222-4222-8222-222222222222"
)

// Фейки встраивают интерфейс и реализуют только используемые методы.

type fakeDirectory struct {
	identity.Directory
	users   map[shared.UserID]*identity.User
	mentors []*identity.User
}

func (d *fakeDirectory) GetByID(_ context.Context, id shared.UserID) (*identity.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (d *fakeDirectory) SearchMentors(_ context.Context, _ shared.UserID, gender identity.Gender, _ identity.ListOptions) ([]*identity.User, error) {
	out := make([]*identity.User, 0, len(d.mentors))
	for _, m := range d.mentors {
		if m.Gender == gender {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeMentorshipRepo struct {
	mentorship.Repository
	stats *mentorship.Statistics
}

func (r *fakeMentorshipRepo) GetStatistics(_ context.Context, _ shared.UserID) (*mentorship.Statistics, error) {
	return r.stats, nil
}

type fakeSessionRepo struct {
	session.Repository
	completed int64
	upcoming  int64
}

func (r *fakeSessionRepo) CountForUser(_ context.Context, _ shared.UserID, statuses []session.Status, after time.Time) (int64, error) {
	for _, st := range statuses {
		if st == session.StatusCompleted {
			return r.completed, nil
		}
		if st == session.StatusScheduled && !after.IsZero() {
			return r.upcoming, nil
		}
	}
	return 0, nil
}

type fakeAvailabilityRepo struct {
	availability.Repository
	slots []*availability.Slot
}

func (r *fakeAvailabilityRepo) ListByMentor(_ context.Context, mentorID shared.UserID) ([]*availability.Slot, error) {
	var out []*availability.Slot
	for _, s := range r.slots {
		if s.MentorID == mentorID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}

func activeUser(id, name string, gender identity.Gender, roles ...identity.Role) *identity.User {
	return &identity.User{
		ID:          shared.UserID(id),
		DisplayName: name,
		Email:       identity.Email(name + "@example.com"),
		Gender:      gender,
		Roles:       roles,
		Status:      identity.StatusActive,
	}
}
