package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/internlink/assessment-service/internal/events"
	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/repositories"
)

// ===== REQUEST / RESPONSE TYPES =====

// DeliveredQuestion is a question as handed to a candidate. The correct
// answer never appears here; OriginalIndex points back into the stored bank
// and is what submitted answers must be keyed by. DisplayIndex is
// presentation order only.
type DeliveredQuestion struct {
	DisplayIndex  int                    `json:"display_index"`
	OriginalIndex int                    `json:"original_index"`
	Question      string                 `json:"question"`
	Options       []string               `json:"options"`
	Difficulty    models.DifficultyLevel `json:"difficulty"`
}

type DeliveredTest struct {
	AssessmentID uint                `json:"assessment_id"`
	Title        string              `json:"title"`
	Skill        string              `json:"skill"`
	Duration     int                 `json:"duration"`
	PassingScore int                 `json:"passing_score"`
	SubsetSize   int                 `json:"subset_size"`
	Questions    []DeliveredQuestion `json:"questions"`
}

type SubmissionResult struct {
	AssessmentID  uint              `json:"assessment_id"`
	Skill         string            `json:"skill"`
	Score         int               `json:"score"`
	MaxScore      int               `json:"max_score"`
	TotalAnswered int               `json:"total_answered"`
	Percentage    float64           `json:"percentage"`
	Level         models.SkillLevel `json:"level"`
	Passed        bool              `json:"passed"`
}

// ===== SERVICE =====

type DeliveryService interface {
	Start(ctx context.Context, assessmentID uint, actor Actor) (*DeliveredTest, error)
	Submit(ctx context.Context, assessmentID uint, actor Actor, answers map[string]int) (*SubmissionResult, error)
}

type deliveryService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	intn      func(int) int
}

func NewDeliveryService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) DeliveryService {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &deliveryService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		intn:      rng.Intn,
	}
}

// Start hands the candidate a fresh test instance: a random subset of the
// bank with the answer key stripped. Each call draws independently.
func (s *deliveryService) Start(ctx context.Context, assessmentID uint, actor Actor) (*DeliveredTest, error) {
	if actor.Role != models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, assessmentID, "assessment", "start", "only students can take assessments")
	}

	assessment, err := s.repo.Assessment().GetByID(ctx, assessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	total := len(assessment.Questions)
	count := assessment.DeliveredCount()

	var indices []int
	if count >= total {
		indices = make([]int, total)
		for i := range indices {
			indices[i] = i
		}
	} else {
		indices = pickSubset(total, count, s.intn)
	}

	delivered := make([]DeliveredQuestion, len(indices))
	for i, idx := range indices {
		q := assessment.Questions[idx]
		delivered[i] = DeliveredQuestion{
			DisplayIndex:  i,
			OriginalIndex: idx,
			Question:      q.Text,
			Options:       q.Options,
			Difficulty:    q.Difficulty,
		}
	}

	s.logger.Info("Assessment started",
		"assessment_id", assessmentID,
		"student_id", actor.UserID,
		"delivered", len(delivered),
		"bank_size", total)

	return &DeliveredTest{
		AssessmentID: assessment.ID,
		Title:        assessment.Title,
		Skill:        assessment.Skill,
		Duration:     assessment.Duration,
		PassingScore: assessment.PassingScore,
		SubsetSize:   len(delivered),
		Questions:    delivered,
	}, nil
}

// Submit scores a sparse answer map against the full bank, records the
// result on the student's profile and emits a result event. Answers are
// keyed by the question's original index in the bank; keys that do not
// parse or fall outside the bank are ignored rather than rejected.
func (s *deliveryService) Submit(ctx context.Context, assessmentID uint, actor Actor, answers map[string]int) (*SubmissionResult, error) {
	if actor.Role != models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, assessmentID, "assessment", "submit", "only students can submit assessments")
	}
	if answers == nil {
		return nil, ErrAnswersRequired
	}

	assessment, err := s.repo.Assessment().GetByID(ctx, assessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	student, err := s.repo.Student().GetByUserID(ctx, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}

	score, totalAnswered := scoreAnswers(assessment.Questions, answers)
	maxScore := assessment.DeliveredCount()
	level := levelForScore(score, maxScore)

	percentage := 0.0
	if maxScore > 0 {
		percentage = float64(score) / float64(maxScore) * 100
	}
	passed := score >= assessment.PassingScore

	result := models.SkillAssessment{
		Skill:         assessment.Skill,
		Score:         score,
		MaxScore:      maxScore,
		CompletedDate: time.Now().UTC(),
		Level:         level,
	}

	merged := mergeSkillResult(student.SkillAssessments, result)
	if err := s.repo.Student().UpdateSkillAssessments(ctx, student.ID, merged); err != nil {
		return nil, fmt.Errorf("failed to record skill assessment: %w", err)
	}

	event := events.NewResultEvent(assessment.ID, student.ID, assessment.Skill, score, maxScore, level, passed)
	if err := s.publisher.PublishResultEvent(ctx, event); err != nil {
		// The submission is already recorded; losing the event is not worth
		// failing the request over.
		s.logger.Error("Failed to publish result event",
			"assessment_id", assessment.ID,
			"student_id", student.ID,
			"error", err)
	}

	s.logger.Info("Assessment submitted",
		"assessment_id", assessment.ID,
		"student_id", student.ID,
		"score", score,
		"max_score", maxScore,
		"level", level)

	return &SubmissionResult{
		AssessmentID:  assessment.ID,
		Skill:         assessment.Skill,
		Score:         score,
		MaxScore:      maxScore,
		TotalAnswered: totalAnswered,
		Percentage:    percentage,
		Level:         level,
		Passed:        passed,
	}, nil
}
