package digest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/tests"
)

// seed creates n users, each with one active curriculum, plus one user without any.
func seed(t *testing.T, f *fixture, n int) []string {
	ids := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("user-%02d", i)
		testutil.CreateUser(t, f.usrRepo, id, "User "+id, id+"@test.io")
		testutil.CreateCurriculum(t, f.currRepo, "c-"+id, id, "Course "+id, curriculum.StatusActive,
			testutil.NewTopic("t-"+id, "Topic "+id, 90, curriculum.TopicNotStarted),
		)
		ids = append(ids, id)
	}
	testutil.CreateUser(t, f.usrRepo, "idle", "Idle", "idle@test.io")
	return append(ids, "idle")
}

func TestService_ProcessAll(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates every user once", func(t *testing.T) {
		f := setup(t)
		ids := seed(t, f, 12)

		outcomes, err := f.svc.ProcessAll(ctx)
		require.NoError(t, err)
		require.Len(t, outcomes, len(ids))
		assert.EqualValues(t, len(ids), atomic.LoadInt32(&f.usrRepo.lookups))

		for i, o := range outcomes {
			assert.Equal(t, ids[i], o.UserID)
			if o.UserID == "idle" {
				assert.True(t, o.NotFound)
				assert.Nil(t, o.Digest)
				continue
			}
			if assert.NotNil(t, o.Digest) {
				assert.Equal(t, "User "+o.UserID, o.Digest.DisplayName)
				assert.Len(t, o.Digest.Topics, 1)
			}
			assert.True(t, o.Notification.Sent)
		}
		assert.Len(t, f.mailSvc.Sent(), 12)
	})

	t.Run("no users", func(t *testing.T) {
		f := setup(t)
		outcomes, err := f.svc.ProcessAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, outcomes)
	})

	t.Run("one failure aborts the batch", func(t *testing.T) {
		f := setup(t)
		ids := seed(t, f, 8)
		f.currRepo.failUserIDs["user-03"] = true

		outcomes, err := f.svc.ProcessAll(ctx)
		assert.ErrorIs(t, err, errStore)
		assert.Contains(t, err.Error(), `processing user "user-03"`)
		assert.Nil(t, outcomes)
		// every user was still processed
		assert.EqualValues(t, len(ids), atomic.LoadInt32(&f.usrRepo.lookups))
	})

	t.Run("listing failure", func(t *testing.T) {
		f := setup(t)
		f.usrRepo.listErr = errStore
		_, err := f.svc.ProcessAll(ctx)
		assert.ErrorIs(t, err, errStore)
	})
}

func TestService_ProcessAllIsolated(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	ids := seed(t, f, 6)
	f.currRepo.failUserIDs["user-01"] = true
	f.usrRepo.failIDs["user-04"] = true

	report, err := f.svc.ProcessAllIsolated(ctx)
	require.NoError(t, err)
	require.Len(t, report.Outcomes, len(ids))
	assert.Equal(t, 2, report.Failed)

	for i, o := range report.Outcomes {
		assert.Equal(t, ids[i], o.UserID)
		switch o.UserID {
		case "user-01", "user-04":
			assert.ErrorIs(t, o.Err, errStore)
			assert.NotEmpty(t, o.Error)
			assert.Nil(t, o.Digest)
		case "idle":
			assert.True(t, o.NotFound)
		default:
			assert.NotNil(t, o.Digest)
			assert.NoError(t, o.Err)
		}
	}

	f.usrRepo.listErr = errStore
	_, err = f.svc.ProcessAllIsolated(ctx)
	assert.ErrorIs(t, err, errStore)
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()

	f := setup(t)
	seed(t, f, 3)
	f.currRepo.failUserIDs["user-02"] = true

	_, err := f.svc.Run(ctx)
	assert.ErrorIs(t, err, errStore)

	f.svc.isolate = true
	report, err := f.svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Outcomes, 4)
}
