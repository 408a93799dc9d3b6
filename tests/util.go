package testutil

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
	"github.com/truongductri01/daily-spark/core/user"
	logsvc "github.com/truongductri01/daily-spark/services/logger"
	dummydb "github.com/truongductri01/daily-spark/storage/database/dummy"
)

// NewLogger returns a core.Logger writing to the test's output.
func NewLogger(t *testing.T) core.Logger {
	return logsvc.NewZapLoggerFrom(zaptest.NewLogger(t))
}

// OpenDummyDB returns fresh in-memory repositories.
func OpenDummyDB(t *testing.T) (user.Repository, curriculum.Repository) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return dummydb.NewUserRepository(db), dummydb.NewCurriculumRepository(db)
}

func CreateUser(t *testing.T, repo user.Repository, id, displayName, email string) user.User {
	usr, err := repo.CreateUser(context.Background(), user.User{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func CreateCurriculum(
	t *testing.T,
	repo curriculum.Repository,
	id, userID, courseTitle string,
	status curriculum.Status,
	topics ...curriculum.Topic,
) curriculum.Curriculum {
	if topics == nil {
		topics = []curriculum.Topic{}
	}
	c, err := repo.CreateCurriculum(context.Background(), curriculum.Curriculum{
		ID:          id,
		UserID:      userID,
		CourseTitle: courseTitle,
		Status:      status,
		Topics:      topics,
	})
	if err != nil {
		t.Fatalf("createCurriculum() failed: %v", err)
	}
	return c
}

func NewTopic(id, title string, estimatedTime int, status curriculum.TopicStatus, resources ...string) curriculum.Topic {
	if resources == nil {
		resources = []string{}
	}
	return curriculum.Topic{
		ID:            id,
		Title:         title,
		Description:   title + " description",
		EstimatedTime: estimatedTime,
		Question:      "What is " + title + "?",
		Resources:     resources,
		Status:        status,
	}
}
