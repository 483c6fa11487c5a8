package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taqyim_backend/internal/model"
	"taqyim_backend/internal/util"
	"taqyim_backend/pkg/logger"
	"taqyim_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store interfaces are narrow on purpose: the scoring path is the one piece
// of this system that must be exactly right, and it is tested against
// in-memory fakes.

type ParticipantStore interface {
	FindByID(id string) (*model.Participant, error)
	CompleteIfOpen(id string, summary json.RawMessage, aiReport *string, completedAt time.Time) (bool, error)
}

type AssessmentStore interface {
	FindByID(id string) (*model.Assessment, error)
	ListQuestions(assessmentID string) ([]model.AssessmentQuestion, error)
}

type ResponseStore interface {
	CreateBatch(rows []model.ParticipantResponse) error
}

type NarrativeGenerator interface {
	Narrative(ctx context.Context, input NarrativeInput) (string, error)
}

// ScoringService grades a session exactly once. It is stateless between
// calls; the conditional completion update on the participant row is the
// concurrency guard.
type ScoringService struct {
	Participants ParticipantStore
	Assessments  AssessmentStore
	Responses    ResponseStore
	Narrator     NarrativeGenerator

	NarrativeTimeout time.Duration
}

func NewScoringService(participants ParticipantStore, assessments AssessmentStore, responses ResponseStore, narrator NarrativeGenerator, narrativeTimeout time.Duration) *ScoringService {
	if narrativeTimeout == 0 {
		narrativeTimeout = 20 * time.Second
	}
	return &ScoringService{
		Participants:     participants,
		Assessments:      assessments,
		Responses:        responses,
		Narrator:         narrator,
		NarrativeTimeout: narrativeTimeout,
	}
}

type SubmitRequest struct {
	ParticipantID string                  `json:"participantId" binding:"required"`
	AssessmentID  string                  `json:"assessmentId" binding:"required"`
	Answers       []model.SubmittedAnswer `json:"answers"`
}

type ResultPayload struct {
	ScoreSummary     model.ScoreSummary `json:"scoreSummary"`
	AIReport         *string            `json:"aiReport"`
	AllowPDFDownload bool               `json:"allowPdfDownload"`
}

type SubmitResult struct {
	Success     bool           `json:"success"`
	ShowResults bool           `json:"showResults"`
	Results     *ResultPayload `json:"results"`
}

// Submit validates, grades, persists and completes one session. Order
// matters: the participant/assessment binding is checked before answer keys
// are ever loaded, response rows are written before completion is marked,
// and the AI narrative can fail without failing the submission.
func (s *ScoringService) Submit(req SubmitRequest) (*SubmitResult, error) {
	if req.ParticipantID == "" || req.AssessmentID == "" {
		return nil, util.ErrMissingRequiredFields
	}

	participant, err := s.Participants.FindByID(req.ParticipantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrParticipantNotFound
		}
		return nil, err
	}
	if participant.Completed() {
		return nil, util.ErrAlreadySubmitted
	}
	if participant.AssessmentID != req.AssessmentID {
		return nil, util.ErrAssessmentMismatch
	}

	assessment, err := s.Assessments.FindByID(req.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", util.ErrQuestionLoadFailed, err)
	}

	// Answer keys are sensitive; they are only loaded once the request has
	// proven it belongs to this session.
	questions, err := s.Assessments.ListQuestions(req.AssessmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrQuestionLoadFailed, err)
	}

	rows, summary := gradeSubmission(assessment.IsGraded, participant.ID, questions, req.Answers)

	if err := s.Responses.CreateBatch(rows); err != nil {
		// Do not mark completion on top of missing audit rows; the client
		// may retry the whole submission.
		return nil, fmt.Errorf("%w: %v", util.ErrResponseSaveFailed, err)
	}

	var aiReport *string
	if assessment.AIFeedbackEnabled && s.Narrator != nil {
		if text, ok := s.generateNarrative(assessment, summary); ok {
			aiReport = &text
		}
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	completed, err := s.Participants.CompleteIfOpen(participant.ID, summaryJSON, aiReport, time.Now())
	if err != nil {
		return nil, err
	}
	if !completed {
		// Lost the race against a concurrent submission.
		return nil, util.ErrAlreadySubmitted
	}

	result := &SubmitResult{
		Success:     true,
		ShowResults: assessment.ShowResultsToEmployee,
	}
	if assessment.ShowResultsToEmployee {
		result.Results = &ResultPayload{
			ScoreSummary:     summary,
			AIReport:         aiReport,
			AllowPDFDownload: assessment.AllowEmployeePDFDownload,
		}
	}
	return result, nil
}

func (s *ScoringService) generateNarrative(assessment *model.Assessment, summary model.ScoreSummary) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.NarrativeTimeout)
	defer cancel()

	text, err := s.Narrator.Narrative(ctx, NarrativeInput{
		AssessmentTitle: assessment.Title,
		Language:        assessment.Language,
		Summary:         summary,
	})
	if err != nil {
		monitoring.NarrativeCounter.WithLabelValues("failed").Inc()
		logger.Log.Warn("AI narrative generation failed, continuing without it",
			zap.String("assessment", assessment.ID),
			zap.Error(err))
		return "", false
	}
	monitoring.NarrativeCounter.WithLabelValues("ok").Inc()
	return text, true
}

// traitAccumulator tracks a running sum and count per trait.
type traitAccumulator struct {
	sum   float64
	count int
}

// gradeSubmission grades every submitted answer against the question set.
// Answers for unknown question ids are dropped; graded questions without a
// usable key are skipped rather than counted wrong; negative-direction
// trait values are inverted (6 - v) before accumulating.
func gradeSubmission(isGraded bool, participantID string, questions []model.AssessmentQuestion, answers []model.SubmittedAnswer) ([]model.ParticipantResponse, model.ScoreSummary) {
	questionMap := make(map[string]*model.AssessmentQuestion, len(questions))
	for i := range questions {
		questionMap[questions[i].ID] = &questions[i]
	}

	totalScore := 0
	totalPossible := 0
	correctCount := 0
	traits := make(map[string]*traitAccumulator)

	rows := make([]model.ParticipantResponse, 0, len(answers))

	for _, ans := range answers {
		q, ok := questionMap[ans.QuestionID]
		if !ok || ans.Value.IsZero() {
			continue
		}

		payload, err := json.Marshal(ans.Value)
		if err != nil {
			continue
		}

		row := model.ParticipantResponse{
			ParticipantID: participantID,
			QuestionID:    q.ID,
			Answer:        payload,
		}

		switch {
		case isGraded && q.HasGradedKey():
			totalPossible++
			correct := ans.Value.Single != nil && *ans.Value.Single == *q.CorrectIndex
			score := 0.0
			if correct {
				totalScore++
				correctCount++
				score = 1.0
			}
			row.IsCorrect = &correct
			row.ScoreValue = &score

		case q.HasTraitKey():
			v := ans.Value.Single
			if v == nil || *v < 1 || *v > 5 {
				continue
			}
			adjusted := float64(*v)
			if q.TraitDirection == model.TraitDirectionNegative {
				adjusted = 6 - adjusted
			}
			acc := traits[q.Trait]
			if acc == nil {
				acc = &traitAccumulator{}
				traits[q.Trait] = acc
			}
			acc.sum += adjusted
			acc.count++
			row.ScoreValue = &adjusted
		}

		rows = append(rows, row)
	}

	if isGraded {
		percentage := model.Percentage(totalScore, totalPossible)
		return rows, model.ScoreSummary{
			Kind: model.SummaryKindGraded,
			Graded: &model.GradedSummary{
				TotalScore:    totalScore,
				TotalPossible: totalPossible,
				CorrectCount:  correctCount,
				Percentage:    percentage,
				Grade:         model.GradeFor(percentage),
			},
		}
	}

	averages := make(map[string]float64, len(traits))
	for name, acc := range traits {
		averages[name] = model.Round2(acc.sum / float64(acc.count))
	}
	return rows, model.ScoreSummary{
		Kind:   model.SummaryKindTrait,
		Traits: averages,
	}
}
