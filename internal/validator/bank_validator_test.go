package validator

import (
	"testing"

	"github.com/internlink/assessment-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			Text:          "What does this snippet print?",
			Options:       []string{"foo", "bar", "baz"},
			CorrectAnswer: i % 3,
			Difficulty:    models.DifficultyMedium,
		}
	}
	return questions
}

func TestBankValidator_ValidateBank(t *testing.T) {
	bv := NewBankValidator()

	tests := []struct {
		name         string
		title        string
		skill        string
		questions    []models.Question
		duration     int
		passingScore int
		subsetSize   int
		wantField    string
	}{
		{
			name:      "empty title",
			title:     "   ",
			skill:     "react",
			questions: validQuestions(5),
			duration:  30, passingScore: 2, subsetSize: 3,
			wantField: "title",
		},
		{
			name:      "empty skill",
			title:     "React Basics",
			skill:     "",
			questions: validQuestions(5),
			duration:  30, passingScore: 2, subsetSize: 3,
			wantField: "skill",
		},
		{
			name:      "no questions",
			title:     "React Basics",
			skill:     "react",
			questions: nil,
			duration:  30, passingScore: 2, subsetSize: 3,
			wantField: "questions",
		},
		{
			name:      "zero duration",
			title:     "React Basics",
			skill:     "react",
			questions: validQuestions(5),
			duration:  0, passingScore: 2, subsetSize: 3,
			wantField: "duration",
		},
		{
			name:      "negative passing score",
			title:     "React Basics",
			skill:     "react",
			questions: validQuestions(5),
			duration:  30, passingScore: -1, subsetSize: 3,
			wantField: "passing_score",
		},
		{
			name:      "subset size zero",
			title:     "React Basics",
			skill:     "react",
			questions: validQuestions(5),
			duration:  30, passingScore: 2, subsetSize: 0,
			wantField: "subset_size",
		},
		{
			name:      "subset size equals question count",
			title:     "React Basics",
			skill:     "react",
			questions: validQuestions(5),
			duration:  30, passingScore: 2, subsetSize: 5,
			wantField: "subset_size",
		},
		{
			name:      "subset size exceeds question count",
			title:     "React Basics",
			skill:     "react",
			questions: validQuestions(5),
			duration:  30, passingScore: 2, subsetSize: 8,
			wantField: "subset_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateBank(tt.title, tt.skill, tt.questions, tt.duration, tt.passingScore, tt.subsetSize)
			require.NotEmpty(t, errs)

			fields := make([]string, len(errs))
			for i, e := range errs {
				fields[i] = e.Field
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}

	t.Run("valid bank passes", func(t *testing.T) {
		errs := bv.ValidateBank("React Basics", "react", validQuestions(5), 30, 2, 3)
		assert.Empty(t, errs)
	})
}

func TestBankValidator_QuestionRules(t *testing.T) {
	bv := NewBankValidator()

	base := func() []models.Question { return validQuestions(5) }

	t.Run("empty question text", func(t *testing.T) {
		questions := base()
		questions[2].Text = "  "
		errs := bv.ValidateBank("React Basics", "react", questions, 30, 2, 3)
		require.Len(t, errs, 1)
		assert.Equal(t, "questions[2].question", errs[0].Field)
	})

	t.Run("too few options", func(t *testing.T) {
		questions := base()
		questions[0].Options = []string{"only one"}
		errs := bv.ValidateBank("React Basics", "react", questions, 30, 2, 3)
		require.Len(t, errs, 1)
		assert.Equal(t, "questions[0].options", errs[0].Field)
	})

	t.Run("correct answer out of bounds", func(t *testing.T) {
		questions := base()
		questions[1].CorrectAnswer = 3
		errs := bv.ValidateBank("React Basics", "react", questions, 30, 2, 3)
		require.Len(t, errs, 1)
		assert.Equal(t, "questions[1].correct_answer", errs[0].Field)
	})

	t.Run("negative correct answer", func(t *testing.T) {
		questions := base()
		questions[4].CorrectAnswer = -1
		errs := bv.ValidateBank("React Basics", "react", questions, 30, 2, 3)
		require.Len(t, errs, 1)
		assert.Equal(t, "questions[4].correct_answer", errs[0].Field)
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		questions := base()
		questions[3].Difficulty = "impossible"
		errs := bv.ValidateBank("React Basics", "react", questions, 30, 2, 3)
		require.Len(t, errs, 1)
		assert.Equal(t, "questions[3].difficulty", errs[0].Field)
	})

	t.Run("absent difficulty is allowed", func(t *testing.T) {
		questions := base()
		questions[3].Difficulty = ""
		errs := bv.ValidateBank("React Basics", "react", questions, 30, 2, 3)
		assert.Empty(t, errs)
	})
}
