package digest

import (
	"github.com/truongductri01/daily-spark/core"
	"github.com/truongductri01/daily-spark/core/curriculum"
)

// FlattenedTopic is a Topic tagged with its curriculum's course title, ready to be displayed.
type FlattenedTopic struct {
	CourseTitle   string                 `json:"courseTitle"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	EstimatedTime string                 `json:"estimatedTime"`
	Question      string                 `json:"question"`
	Resources     []string               `json:"resources"`
	Status        curriculum.TopicStatus `json:"status"`
}

// Digest is what a user receives: the topics of all their active curricula.
type Digest struct {
	DisplayName string           `json:"displayName"`
	Email       string           `json:"email"`
	Topics      []FlattenedTopic `json:"topics"`
}

// Notification is the outcome of the digest email.
type Notification struct {
	Sent  bool   `json:"sent"`
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

func failedNotification(err error) Notification {
	return Notification{Err: err, Error: err.Error()}
}

// Result is what Aggregate returns: the digest and whether it could be emailed.
type Result struct {
	Digest       Digest
	Notification Notification
}

// Outcome is the result of a single user's aggregation within a batch.
// Exactly one of Digest, NotFound and Err is set.
type Outcome struct {
	UserID       string       `json:"userId"`
	Digest       *Digest      `json:"digest,omitempty"`
	NotFound     bool         `json:"notFound,omitempty"`
	Notification Notification `json:"notification"`
	Err          error        `json:"-"`
	Error        string       `json:"error,omitempty"`
}

// Report is what the isolated fan-out returns.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
	Failed   int       `json:"failed"`
}

// Flatten lists the topics of curricula in order, each tagged with its parent's course title.
func Flatten(curricula []curriculum.Curriculum) []FlattenedTopic {
	topics := make([]FlattenedTopic, 0)
	for _, c := range curricula {
		for _, tp := range c.Topics {
			resources := tp.Resources
			if resources == nil {
				resources = []string{}
			}
			topics = append(topics, FlattenedTopic{
				CourseTitle:   c.CourseTitle,
				Title:         tp.Title,
				Description:   tp.Description,
				EstimatedTime: core.FormatDuration(tp.EstimatedTime),
				Question:      tp.Question,
				Resources:     resources,
				Status:        tp.Status,
			})
		}
	}
	return topics
}
