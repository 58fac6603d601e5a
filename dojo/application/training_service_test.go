package application

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dfryer1193/teamdojo/api"
	"github.com/dfryer1193/teamdojo/dojo/domain"
	"github.com/dfryer1193/teamdojo/dojo/persistence"
	"github.com/dfryer1193/teamdojo/shared/db/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrainingService(t *testing.T) TrainingService {
	t.Helper()

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, database.Connect(context.Background()))
	t.Cleanup(func() { database.Close() })

	return NewTrainingService(persistence.NewTrainingRepository(database.DB()))
}

func TestTrainingService_SaveAndFindOne(t *testing.T) {
	svc := newTestTrainingService(t)
	ctx := context.Background()

	validUntil := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	official := true
	saved, err := svc.Save(ctx, &api.Training{
		Title:      "Kubernetes 101",
		IsOfficial: &official,
		ValidUntil: &validUntil,
		Skills:     []api.Skill{{Title: "Kubernetes"}},
	})
	require.NoError(t, err)
	require.NotNil(t, saved.ID)
	require.Len(t, saved.Skills, 1)
	assert.NotNil(t, saved.Skills[0].ID)

	found, err := svc.FindOne(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes 101", found.Title)
	assert.True(t, *found.IsOfficial)
	require.NotNil(t, found.ValidUntil)
	assert.True(t, validUntil.Equal(*found.ValidUntil))
	require.Len(t, found.Skills, 1)
	assert.Equal(t, "Kubernetes", found.Skills[0].Title)

	_, err = svc.FindOne(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrainingService_FindAll(t *testing.T) {
	svc := newTestTrainingService(t)
	ctx := context.Background()

	official := false
	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Save(ctx, &api.Training{Title: title, IsOfficial: &official, Skills: []api.Skill{{Title: "skill-" + title}}})
		require.NoError(t, err)
	}

	lazy, err := svc.FindAll(ctx, domain.Pageable{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), lazy.Total)
	require.Len(t, lazy.Items, 1)
	assert.Equal(t, "c", lazy.Items[0].Title)
	assert.Nil(t, lazy.Items[0].Skills)

	eager, err := svc.FindAllWithEagerRelationships(ctx, domain.Pageable{Page: 0, Size: 2})
	require.NoError(t, err)
	require.Len(t, eager.Items, 2)
	require.Len(t, eager.Items[0].Skills, 1)
	assert.Equal(t, "skill-a", eager.Items[0].Skills[0].Title)
}

func TestTrainingService_Delete(t *testing.T) {
	svc := newTestTrainingService(t)
	ctx := context.Background()

	official := true
	saved, err := svc.Save(ctx, &api.Training{Title: "gone soon", IsOfficial: &official})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, *saved.ID))
	require.NoError(t, svc.Delete(ctx, *saved.ID))

	_, err = svc.FindOne(ctx, *saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrainingService_SaveWithZeroIDUpdates(t *testing.T) {
	svc := newTestTrainingService(t)
	ctx := context.Background()

	zero := int64(0)
	official := false
	_, err := svc.Save(ctx, &api.Training{ID: &zero, Title: "ghost", IsOfficial: &official})
	require.Error(t, err)

	page, err := svc.FindAll(ctx, domain.Pageable{Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total, "an explicit ID never creates a training")
}
