package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "Beginner"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelAdvanced     SkillLevel = "Advanced"
)

// DefaultSubsetSize is how many questions a single delivery draws from a
// bank when the author does not configure it explicitly.
const DefaultSubsetSize = 20

// Question is one multiple-choice entry of an assessment bank. The slice a
// question lives in defines its original index, which is the only key
// scoring trusts. CorrectAnswer must index an existing option; this is
// enforced at creation time and never mutated afterward.
type Question struct {
	Text          string          `json:"question"`
	Options       []string        `json:"options"`
	CorrectAnswer int             `json:"correct_answer"`
	Difficulty    DifficultyLevel `json:"difficulty"`
}

// Assessment is the full, author-owned question bank for one skill.
// Questions live in a JSONB document on the row; the bank is read-only
// after creation from the delivery side, so concurrent starts and submits
// need no locking.
type Assessment struct {
	ID             uint                          `json:"id" gorm:"primaryKey"`
	Title          string                        `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Skill          string                        `json:"skill" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Questions      datatypes.JSONSlice[Question] `json:"questions" gorm:"type:jsonb"`
	TotalQuestions int                           `json:"total_questions" gorm:"not null"`
	SubsetSize     int                           `json:"subset_size" gorm:"not null;default:20"`
	Duration       int                           `json:"duration" gorm:"not null" validate:"required,min=1"` // minutes
	PassingScore   int                           `json:"passing_score" gorm:"not null" validate:"min=0"`

	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// DeliveredCount is how many questions one start call hands out: the
// configured subset size, or the whole bank when it is no larger than that.
func (a *Assessment) DeliveredCount() int {
	if a.TotalQuestions <= a.SubsetSize {
		return a.TotalQuestions
	}
	return a.SubsetSize
}
