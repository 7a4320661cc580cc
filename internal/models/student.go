package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SkillAssessment is a student's single, skill-keyed competency record.
// Skill is a natural key: a profile holds at most one entry per skill, and
// a re-submission replaces the old entry in place rather than appending.
type SkillAssessment struct {
	Skill         string     `json:"skill"`
	Score         int        `json:"score"`
	MaxScore      int        `json:"max_score"`
	CompletedDate time.Time  `json:"completed_date"`
	Level         SkillLevel `json:"level"`
}

// Student is the test-taker profile the delivery side writes results into.
// The skill assessment list is the only shared mutable resource of the
// engine; it is updated with a single atomic document write.
type Student struct {
	ID               uint                                 `json:"id" gorm:"primaryKey"`
	UserID           uint                                 `json:"user_id" gorm:"uniqueIndex;not null"`
	FullName         string                               `json:"full_name" gorm:"size:100"`
	Email            string                               `json:"email" gorm:"size:255"`
	Skills           datatypes.JSONSlice[string]          `json:"skills" gorm:"type:jsonb"`
	SkillAssessments datatypes.JSONSlice[SkillAssessment] `json:"skill_assessments" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Student) TableName() string {
	return "students"
}
