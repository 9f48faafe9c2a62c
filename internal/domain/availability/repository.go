// Package availability содержит доменную модель слотов доступности ментора.
package availability

import (
	"context"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// Repository определяет контракт хранения слотов доступности.
type Repository interface {
	// Create сохраняет новый слот.
	Create(ctx context.Context, slot *Slot) error

	// DeleteByOwner удаляет слот, принадлежащий указанному ментору.
	// Удаление чужого или несуществующего слота возвращает
	// shared.ErrSlotNotFound.
	DeleteByOwner(ctx context.Context, id string, mentorID shared.UserID) error

	// ListByMentor возвращает слоты ментора, отсортированные по дню
	// недели (с понедельника) и времени начала.
	ListByMentor(ctx context.Context, mentorID shared.UserID) ([]*Slot, error)
}
