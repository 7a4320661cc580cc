package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/internlink/assessment-service/internal/models"
)

const (
	// EventTypeResultSubmitted is published after a submission has been
	// scored and merged into the student's profile.
	EventTypeResultSubmitted = "assessment.result.submitted"

	eventSource  = "assessment-service"
	eventVersion = "1.0"
)

// ResultEvent is the message emitted for every scored submission. Downstream
// consumers (analytics, notifications, matching) feed on this stream instead
// of polling the profile store.
type ResultEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	AssessmentID uint              `json:"assessment_id"`
	StudentID    uint              `json:"student_id"`
	Skill        string            `json:"skill"`
	Score        int               `json:"score"`
	MaxScore     int               `json:"max_score"`
	Level        models.SkillLevel `json:"level"`
	Passed       bool              `json:"passed"`
}

// NewResultEvent builds a submitted-result event with a fresh ID.
func NewResultEvent(assessmentID, studentID uint, skill string, score, maxScore int, level models.SkillLevel, passed bool) *ResultEvent {
	return &ResultEvent{
		ID:           uuid.NewString(),
		Type:         EventTypeResultSubmitted,
		Source:       eventSource,
		Version:      eventVersion,
		Timestamp:    time.Now().UTC(),
		AssessmentID: assessmentID,
		StudentID:    studentID,
		Skill:        skill,
		Score:        score,
		MaxScore:     maxScore,
		Level:        level,
		Passed:       passed,
	}
}
