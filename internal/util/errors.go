package util

import "errors"

var (
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrGroupNotFound         = errors.New("assessment group not found")
	ErrAssessmentNotFound    = errors.New("assessment not found")
	ErrAlreadySubmitted      = errors.New("assessment already submitted")
	ErrAssessmentMismatch    = errors.New("participant does not belong to this assessment")
	ErrQuestionLoadFailed    = errors.New("failed to load questions")
	ErrResponseSaveFailed    = errors.New("failed to save responses")
	ErrAssessmentNotYetOpen  = errors.New("assessment has not started yet")
	ErrAssessmentExpired     = errors.New("assessment has ended")
	ErrAssessmentClosed      = errors.New("assessment was closed by the administrator")
	ErrEmailAlreadyUsed      = errors.New("email already used for this assessment")
	ErrEmployeeCodeUsed      = errors.New("employee code already used for this assessment")
	ErrRegistrationRequired  = errors.New("registration required before starting")
	ErrQuestionUnanswered    = errors.New("answer the current question before moving on")
	ErrInvalidSessionState   = errors.New("action not allowed in the current session state")
	ErrInvalidDeliveryToken  = errors.New("invalid or expired assessment link")
	ErrSubmissionInFlight    = errors.New("submission already in progress")
	ErrQuestionNotInSession  = errors.New("question does not belong to this assessment")
	ErrMissingRequiredFields = errors.New("missing required fields")
)
