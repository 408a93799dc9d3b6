package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/user"
)

// RunRepositoryContract checks the behaviour every storage backend must share.
// Ids are random so that the contract can run against a shared database.
func RunRepositoryContract(t *testing.T, usrRepo user.Repository, currRepo curriculum.Repository) {
	ctx := context.Background()
	prefix := uuid.NewString()[:8] + "-"

	t.Run("users", func(t *testing.T) {
		before, err := usrRepo.CountUsers(ctx)
		require.NoError(t, err)

		ann := CreateUser(t, usrRepo, prefix+"ann", "Ann", "ann@test.io")
		bob := CreateUser(t, usrRepo, prefix+"bob", "Bob", "bob@test.io")

		_, err = usrRepo.CreateUser(ctx, user.User{ID: ann.ID, DisplayName: "Other"})
		assert.ErrorIs(t, err, user.ErrUserExists)

		got, err := usrRepo.GetUserByID(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, ann, got)

		_, err = usrRepo.GetUserByID(ctx, prefix+"nobody")
		assert.ErrorIs(t, err, user.ErrNotFound)

		bob.DisplayName = "Bobby"
		_, err = usrRepo.UpdateUser(ctx, bob)
		require.NoError(t, err)
		got, err = usrRepo.GetUserByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bobby", got.DisplayName)

		_, err = usrRepo.UpdateUser(ctx, user.User{ID: prefix + "nobody"})
		assert.ErrorIs(t, err, user.ErrNotFound)

		count, err := usrRepo.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+2, count)

		ids, err := usrRepo.QueryUserIDs(ctx)
		require.NoError(t, err)
		annIdx, bobIdx := indexOf(ids, ann.ID), indexOf(ids, bob.ID)
		assert.True(t, annIdx >= 0 && bobIdx > annIdx, "ids in insertion order: %v", ids)
	})

	t.Run("curricula", func(t *testing.T) {
		owner, other := prefix+"owner", prefix+"other"
		reminder := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

		c1, err := currRepo.CreateCurriculum(ctx, curriculum.Curriculum{
			ID:               prefix + "c1",
			UserID:           owner,
			CourseTitle:      "Go",
			Status:           curriculum.StatusActive,
			NextReminderDate: reminder,
			Topics: []curriculum.Topic{
				NewTopic("t1", "Channels", 3725, curriculum.TopicCompleted, "https://go.dev"),
				NewTopic("t2", "Generics", 60, curriculum.TopicNotStarted),
			},
		})
		require.NoError(t, err)
		CreateCurriculum(t, currRepo, prefix+"c2", owner, "SQL", curriculum.StatusCompleted)
		CreateCurriculum(t, currRepo, prefix+"c3", owner, "Rust", curriculum.StatusActive)
		CreateCurriculum(t, currRepo, prefix+"c4", other, "Zig", curriculum.StatusActive)

		_, err = currRepo.CreateCurriculum(ctx, curriculum.Curriculum{ID: c1.ID, UserID: other})
		assert.ErrorIs(t, err, curriculum.ErrCurriculumExists)

		got, err := currRepo.GetCurriculum(ctx, owner, c1.ID)
		require.NoError(t, err)
		assert.Equal(t, c1.Topics, got.Topics)
		assert.True(t, reminder.Equal(got.NextReminderDate))

		_, err = currRepo.GetCurriculum(ctx, other, c1.ID)
		assert.ErrorIs(t, err, curriculum.ErrNotFound)

		exists, err := currRepo.CurriculumExists(ctx, c1.ID)
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = currRepo.CurriculumExists(ctx, prefix+"nope")
		require.NoError(t, err)
		assert.False(t, exists)

		all, err := currRepo.QueryCurricula(ctx, owner, curriculum.QueryFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{prefix + "c1", prefix + "c2", prefix + "c3"}, curriculumIDs(all))

		active, err := currRepo.QueryCurricula(ctx, owner, curriculum.QueryFilter{Status: curriculum.StatusActive})
		require.NoError(t, err)
		assert.Equal(t, []string{prefix + "c1", prefix + "c3"}, curriculumIDs(active))

		none, err := currRepo.QueryCurricula(ctx, prefix+"nobody", curriculum.QueryFilter{})
		require.NoError(t, err)
		assert.Empty(t, none)

		got.Status = curriculum.StatusCompleted
		_, err = currRepo.UpdateCurriculum(ctx, got)
		require.NoError(t, err)
		active, err = currRepo.QueryCurricula(ctx, owner, curriculum.QueryFilter{Status: curriculum.StatusActive})
		require.NoError(t, err)
		assert.Equal(t, []string{prefix + "c3"}, curriculumIDs(active))

		got.UserID = other
		_, err = currRepo.UpdateCurriculum(ctx, got)
		assert.ErrorIs(t, err, curriculum.ErrNotFound)
	})
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func curriculumIDs(curricula []curriculum.Curriculum) []string {
	var ids []string
	for _, c := range curricula {
		ids = append(ids, c.ID)
	}
	return ids
}

// RunFailedIndexContract checks that a create whose index write fails leaves no trace behind,
// so that it can be retried with the same id once the store recovers.
// breakIndexes makes the next index writes of the users and of ownerID's curricula fail,
// repairIndexes undoes it.
func RunFailedIndexContract(
	t *testing.T,
	usrRepo user.Repository,
	currRepo curriculum.Repository,
	breakIndexes func(t *testing.T, ownerID string),
	repairIndexes func(t *testing.T, ownerID string),
) {
	ctx := context.Background()
	prefix := uuid.NewString()[:8] + "-"
	owner, currID := prefix+"owner", prefix+"c1"

	breakIndexes(t, owner)
	_, err := usrRepo.CreateUser(ctx, user.User{ID: owner, DisplayName: "Owner", Email: "owner@test.io"})
	require.Error(t, err)
	_, err = currRepo.CreateCurriculum(ctx, curriculum.Curriculum{ID: currID, UserID: owner, CourseTitle: "Go", Status: curriculum.StatusActive})
	require.Error(t, err)

	_, err = usrRepo.GetUserByID(ctx, owner)
	assert.ErrorIs(t, err, user.ErrNotFound)
	exists, err := currRepo.CurriculumExists(ctx, currID)
	require.NoError(t, err)
	assert.False(t, exists)

	repairIndexes(t, owner)
	usr := CreateUser(t, usrRepo, owner, "Owner", "owner@test.io")
	CreateCurriculum(t, currRepo, currID, owner, "Go", curriculum.StatusActive)

	ids, err := usrRepo.QueryUserIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, usr.ID)
	active, err := currRepo.QueryCurricula(ctx, owner, curriculum.QueryFilter{Status: curriculum.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, []string{currID}, curriculumIDs(active))
}
