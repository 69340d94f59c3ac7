package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantreminder/internal/domain/entity"
	"plantreminder/internal/infrastructure/database/sqlite"
)

func TestNotificationRepository_CreateFindDelete(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewNotificationRepository(openDB(t, tempDBPath(t)))

	reg := &entity.NotificationRegistration{
		Handle:  "h1",
		PlantID: "1",
		Hour:    8,
		Minute:  30,
		Title:   "Heeey, 🌱",
		Body:    "Está na hora de cuidar da sua Aningapara",
	}
	require.NoError(t, repo.Create(ctx, reg))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, entity.TimeOfDay{Hour: 8, Minute: 30}, all[0].TimeOfDay())
	assert.Equal(t, "1", all[0].Payload().PlantID)
	assert.False(t, all[0].CreatedAt.IsZero())

	require.NoError(t, repo.Delete(ctx, "h1"))
	require.NoError(t, repo.Delete(ctx, "h1"))

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNotificationRepository_DuplicateHandleFails(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewNotificationRepository(openDB(t, tempDBPath(t)))

	require.NoError(t, repo.Create(ctx, &entity.NotificationRegistration{Handle: "h1", PlantID: "1"}))
	err := repo.Create(ctx, &entity.NotificationRegistration{Handle: "h1", PlantID: "2"})

	assert.Error(t, err)
}
