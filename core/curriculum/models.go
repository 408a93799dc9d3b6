package curriculum

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/truongductri01/daily-spark/core"
)

type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	// StatusActive marks the curricula included in the daily digest.
	StatusActive Status = "Active"
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusActive}

func (s Status) IsValid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

type TopicStatus string

const (
	TopicNotStarted TopicStatus = "NotStarted"
	TopicInProgress TopicStatus = "InProgress"
	TopicCompleted  TopicStatus = "Completed"
)

var TopicStatuses = []TopicStatus{TopicNotStarted, TopicInProgress, TopicCompleted}

func (s TopicStatus) IsValid() bool {
	for _, st := range TopicStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Topic is a unit of study. It only exists inside its Curriculum.
type Topic struct {
	ID            string      `json:"id"`
	Title         string      `json:"title" validate:"required,notblank"`
	Description   string      `json:"description"`
	EstimatedTime int         `json:"estimatedTime" validate:"min=0"` // seconds
	Question      string      `json:"question"`
	Resources     []string    `json:"resources" validate:"dive,notblank"`
	Status        TopicStatus `json:"status" validate:"topicstatus"`
}

// Curriculum is an ordered list of topics for a course, owned by a user (its partition key).
type Curriculum struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	CourseTitle      string    `json:"courseTitle"`
	Status           Status    `json:"status"`
	NextReminderDate time.Time `json:"nextReminderDate"`
	Topics           []Topic   `json:"topics"`
}

func (c Curriculum) IsActive() bool { return c.Status == StatusActive }

// NewCurriculum contains information needed to create a new Curriculum.
// ID, Status and NextReminderDate are optional.
type NewCurriculum struct {
	ID               string    `json:"id" validate:"omitempty,notblank,max=128"`
	UserID           string    `json:"userId" validate:"required,notblank"`
	CourseTitle      string    `json:"courseTitle" validate:"required,notblank"`
	Status           Status    `json:"status" validate:"omitempty,curriculumstatus"`
	NextReminderDate time.Time `json:"nextReminderDate"`
	Topics           []Topic   `json:"topics" validate:"dive"`
}

func (nc *NewCurriculum) Clean() {
	nc.ID = core.CleanString(nc.ID)
	nc.UserID = core.CleanString(nc.UserID)
	nc.CourseTitle = core.CleanString(nc.CourseTitle)
	if nc.Status == "" {
		nc.Status = StatusNotStarted
	}
	cleanTopics(nc.Topics)
}

func (nc *NewCurriculum) Validate(validate *validator.Validate) error {
	nc.Clean()
	return validate.Struct(nc)
}

// UpdateCurriculum defines what information may be provided to modify an existing Curriculum.
// Zero fields are left untouched; a non-nil Topics replaces the whole topic list.
type UpdateCurriculum struct {
	ID               string     `json:"id" validate:"required"`
	UserID           string     `json:"userId" validate:"required"`
	CourseTitle      string     `json:"courseTitle"`
	Status           Status     `json:"status" validate:"omitempty,curriculumstatus"`
	NextReminderDate *time.Time `json:"nextReminderDate"`
	Topics           []Topic    `json:"topics" validate:"omitempty,dive"`
}

func (uc *UpdateCurriculum) Clean() {
	uc.ID = core.CleanString(uc.ID)
	uc.UserID = core.CleanString(uc.UserID)
	uc.CourseTitle = core.CleanString(uc.CourseTitle)
	cleanTopics(uc.Topics)
}

func (uc *UpdateCurriculum) Validate(validate *validator.Validate) error {
	uc.Clean()
	return validate.Struct(uc)
}

// apply copies the set fields of uc onto c and reports whether anything changed.
func (uc UpdateCurriculum) apply(c *Curriculum) bool {
	var changed bool
	if uc.CourseTitle != "" && uc.CourseTitle != c.CourseTitle {
		c.CourseTitle = uc.CourseTitle
		changed = true
	}
	if uc.Status != "" && uc.Status != c.Status {
		c.Status = uc.Status
		changed = true
	}
	if uc.NextReminderDate != nil && !uc.NextReminderDate.Equal(c.NextReminderDate) {
		c.NextReminderDate = uc.NextReminderDate.UTC()
		changed = true
	}
	if uc.Topics != nil {
		c.Topics = uc.Topics
		changed = true
	}
	return changed
}

func cleanTopics(topics []Topic) {
	for i := range topics {
		topics[i].ID = core.CleanString(topics[i].ID)
		topics[i].Title = core.CleanString(topics[i].Title)
		if topics[i].Status == "" {
			topics[i].Status = TopicNotStarted
		}
	}
}

// QueryFilter narrows down a partition scan. Zero values match everything.
type QueryFilter struct {
	Status Status `query:"status"`
}

func (qf QueryFilter) Match(c Curriculum) bool {
	return qf.Status == "" || c.Status == qf.Status
}
