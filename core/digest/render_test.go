package digest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truongductri01/daily-spark/core/curriculum"
)

const (
	wantHeader = "<div style='max-width:600px;margin:2rem auto;font-family:Arial,sans-serif;background:#f9f9f9;padding:1rem;'>" +
		"<h2 style='color:#f7b84a;'>🚀 Ready to Spark Your Learning, Ann!</h2>"
	wantCardOpen = "<div style='background:#fff;border:1px solid #e3e3e3;padding:1rem;margin-bottom:1rem;color:#222;'>"
)

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name   string
		topics []FlattenedTopic
		want   string
	}{
		{
			name:   "no topics",
			topics: []FlattenedTopic{},
			want:   wantHeader + "</div>",
		},
		{
			name: "completed topic with resources",
			topics: []FlattenedTopic{{
				CourseTitle:   "Go",
				Title:         "Channels",
				Description:   "Unbuffered  and   buffered",
				EstimatedTime: "1 hour",
				Question:      "When does a send block?",
				Resources:     []string{"https://go.dev", "https://x.io"},
				Status:        curriculum.TopicCompleted,
			}},
			want: wantHeader + wantCardOpen +
				"<span style='font-weight:bold;color:#1a4e8a;background:#eaf1fb;padding:2px 8px;'>Go</span>" +
				"<div style='font-weight:600;color:#222;margin:4px 0;'>✨ Channels</div>" +
				"<span style='background:#c8e6c9;color:#388e3c;padding:2px 10px;'>Status: Completed</span>" +
				"<p>Estimated Time: 1 hour</p>" +
				"<p>Description: Unbuffered and buffered</p>" +
				"<p>Question: When does a send block?</p>" +
				"<p>Resources: <a href='https://go.dev' target='_blank' style='color:#2d6cdf;'>https://go.dev</a>, " +
				"<a href='https://x.io' target='_blank' style='color:#2d6cdf;'>https://x.io</a></p>" +
				"</div></div>",
		},
		{
			name: "pending topic without resources",
			topics: []FlattenedTopic{{
				CourseTitle:   "SQL",
				Title:         "Joins",
				Description:   "Inner\nand outer",
				EstimatedTime: "30 minutes",
				Question:      "Left or right?",
				Resources:     []string{},
				Status:        curriculum.TopicInProgress,
			}},
			want: wantHeader + wantCardOpen +
				"<span style='font-weight:bold;color:#1a4e8a;background:#eaf1fb;padding:2px 8px;'>SQL</span>" +
				"<div style='font-weight:600;color:#222;margin:4px 0;'>✨ Joins</div>" +
				"<span style='background:#fff3d6;color:#f7b84a;padding:2px 10px;'>Status: InProgress</span>" +
				"<p>Estimated Time: 30 minutes</p>" +
				"<p>Description: Innerand outer</p>" +
				"<p>Question: Left or right?</p>" +
				"</div></div>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderHTML("Ann", tt.topics)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderHTML_cardPerTopic(t *testing.T) {
	topics := make([]FlattenedTopic, 5)
	for i := range topics {
		topics[i] = FlattenedTopic{CourseTitle: "Go", Title: "T", Status: curriculum.TopicNotStarted}
	}
	got, err := RenderHTML("Ann", topics)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(got, wantCardOpen))
	assert.NotContains(t, got, "Resources:")
}

func TestRenderText(t *testing.T) {
	got, err := RenderText("Ann", []FlattenedTopic{{
		CourseTitle:   "Go",
		Title:         "Channels",
		EstimatedTime: "1 hour",
		Resources:     []string{"https://go.dev", "https://x.io"},
		Status:        curriculum.TopicCompleted,
	}})
	require.NoError(t, err)
	assert.Contains(t, got, "Ready to Spark Your Learning, Ann!")
	assert.Contains(t, got, "[Go] Channels")
	assert.Contains(t, got, "Resources: https://go.dev, https://x.io")
}
