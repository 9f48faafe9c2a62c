// Package availability содержит доменную модель слотов доступности ментора.
// Слот - это повторяющийся интервал в расписании ("понедельник 14:00-16:00"),
// который ментор публикует для подопечных. Слоты носят справочный характер
// и не участвуют в проверке пересечений при бронировании сессий.
package availability

import (
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// Weekday - день недели слота в нижнем регистре.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// weekdayOrder задаёт порядок сортировки расписания: неделя
// начинается с понедельника.
var weekdayOrder = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

// IsValid проверяет корректность дня недели.
func (w Weekday) IsValid() bool {
	_, ok := weekdayOrder[w]
	return ok
}

// Order возвращает позицию дня в неделе, начиная с понедельника.
func (w Weekday) Order() int {
	return weekdayOrder[w]
}

// String возвращает строковое представление.
func (w Weekday) String() string {
	return string(w)
}

// timeOfDayLayout - формат времени слота.
const timeOfDayLayout = "15:04"

// ParseTimeOfDay разбирает время слота в формате HH:MM и возвращает
// количество минут с полуночи.
func ParseTimeOfDay(value string) (int, error) {
	t, err := time.Parse(timeOfDayLayout, value)
	if err != nil {
		return 0, shared.ErrInvalidSlotTime
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Slot - опубликованный интервал доступности ментора.
type Slot struct {
	ID        string
	MentorID  shared.UserID
	Weekday   Weekday
	StartTime string // HH:MM
	EndTime   string // HH:MM
	Recurring bool
	CreatedAt time.Time
}

// NewSlotParams содержит входные данные для создания слота.
type NewSlotParams struct {
	ID        string
	MentorID  shared.UserID
	Weekday   Weekday
	StartTime string
	EndTime   string
	Recurring bool
}

// NewSlot создаёт валидированный слот доступности.
// Оба времени обязательны, конец должен быть строго позже начала.
func NewSlot(params NewSlotParams) (*Slot, error) {
	if params.ID == "" {
		return nil, shared.ErrInvalidID
	}
	if params.MentorID.IsEmpty() {
		return nil, shared.ErrInvalidID
	}
	if !params.Weekday.IsValid() {
		return nil, shared.ErrInvalidWeekday
	}

	start, err := ParseTimeOfDay(params.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseTimeOfDay(params.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, shared.ErrSlotTimeOrder
	}

	return &Slot{
		ID:        params.ID,
		MentorID:  params.MentorID,
		Weekday:   params.Weekday,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		Recurring: params.Recurring,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Less задаёт порядок показа расписания: по дню недели,
// внутри дня по времени начала.
func (s *Slot) Less(other *Slot) bool {
	if s.Weekday != other.Weekday {
		return s.Weekday.Order() < other.Weekday.Order()
	}
	return s.StartTime < other.StartTime
}

// String возвращает читаемое представление слота.
func (s *Slot) String() string {
	return fmt.Sprintf("Slot(%s %s-%s mentor=%s)", s.Weekday, s.StartTime, s.EndTime, s.MentorID)
}

// Clone возвращает копию слота.
func (s *Slot) Clone() *Slot {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
