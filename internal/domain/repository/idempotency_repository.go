package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
)

// IdempotencyRepository stores replay records for idempotent endpoints.
// Records are scoped to the submitting user so two users reusing the same
// key never see each other's responses.
type IdempotencyRepository interface {
	Find(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Save(ctx context.Context, record *entity.IdempotencyKey) error
	// PurgeExpired deletes records past their expiry and reports how many.
	PurgeExpired(ctx context.Context) (int64, error)
}
