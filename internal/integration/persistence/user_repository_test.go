package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natural-surplus/backend/internal/domain/entity"
	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/persistence"
	"github.com/natural-surplus/backend/internal/integration/persistence/persistencetest"
)

func TestUserRepository_IncrementBalance(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewUserRepository(persistencetest.NewDB(t))
	joined := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	u := entity.NewUser("Wanjiku", "wanjiku@example.com", "254712345678", "hash", "k3x9q2ma", nil, joined)
	require.NoError(t, repo.Create(ctx, u))

	credited := joined.Add(72 * time.Hour)
	require.NoError(t, repo.IncrementBalance(ctx, u.ID, decimal.RequireFromString("250.50"), credited))
	require.NoError(t, repo.IncrementBalance(ctx, u.ID, decimal.RequireFromString("-50.25"), credited.Add(time.Hour)))

	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "200.25", stored.Balance.StringFixed(2))
	assert.True(t, stored.UpdatedAt.Equal(credited.Add(time.Hour)), "updated_at follows the caller's clock, got %s", stored.UpdatedAt)
	assert.True(t, stored.CreatedAt.Equal(joined))

	err = repo.IncrementBalance(ctx, uuid.New(), decimal.NewFromInt(1), credited)
	assert.ErrorIs(t, err, domainerror.ErrUserNotFound)
}
