package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"taqyim_backend/internal/model"
	"taqyim_backend/internal/util"
	"taqyim_backend/pkg/logger"
	"taqyim_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Submission trigger causes. Manual is the participant finishing the last
// question, timer is the countdown reaching zero, hidden is the page
// visibility report. All three funnel into the same submission routine.
const (
	CauseManual = "manual"
	CauseTimer  = "timer"
	CauseHidden = "hidden"
)

// SessionStateStore holds the runtime state of in-progress sessions. The
// redis implementation is used in production so sessions survive restarts;
// the in-memory one backs tests and single-node setups.
type SessionStateStore interface {
	Get(participantID string) (*model.DeliverySessionState, bool, error)
	Save(state *model.DeliverySessionState) error
	Delete(participantID string) error
}

type DeliveryParticipantStore interface {
	Create(p *model.Participant) error
	FindByID(id string) (*model.Participant, error)
	EmailUsed(organizationID, assessmentID, email string) (bool, error)
	EmployeeCodeUsed(organizationID, assessmentID, employeeCode string) (bool, error)
	MarkStarted(id string, at time.Time) error
}

type OrganizationStore interface {
	FindByID(id string) (*model.Organization, error)
	FindGroup(id string) (*model.AssessmentGroup, error)
}

// Submitter is the scoring entry point. Delivery never talks to the scoring
// internals, only to this single call.
type Submitter interface {
	Submit(req SubmitRequest) (*SubmitResult, error)
}

// LogoResolver turns a stored object key into a URL the participant client
// can fetch.
type LogoResolver interface {
	LogoURL(ctx context.Context, key string) string
}

type LinkConfig struct {
	Secret     string
	Expiration time.Duration
}

// DeliveryService owns the session state machine. Every mutation of a
// session goes through the per-participant lock, so a timer expiry and a
// page-hidden report racing each other still produce exactly one submission.
type DeliveryService struct {
	Participants DeliveryParticipantStore
	Assessments  AssessmentStore
	Orgs         OrganizationStore
	States       SessionStateStore
	Scoring      Submitter
	Logos        LogoResolver
	Links        LinkConfig

	mu          sync.Mutex
	locks       map[string]*sync.Mutex
	runners     map[string]*sessionRunner
	subscribers map[string]map[chan DeliveryEvent]struct{}
	active      map[string]struct{}

	now          func() time.Time
	tickInterval time.Duration
}

func NewDeliveryService(participants DeliveryParticipantStore, assessments AssessmentStore, orgs OrganizationStore, states SessionStateStore, scoring Submitter, logos LogoResolver, links LinkConfig) *DeliveryService {
	return &DeliveryService{
		Participants: participants,
		Assessments:  assessments,
		Orgs:         orgs,
		States:       states,
		Scoring:      scoring,
		Logos:        logos,
		Links:        links,
		locks:        make(map[string]*sync.Mutex),
		runners:      make(map[string]*sessionRunner),
		subscribers:  make(map[string]map[chan DeliveryEvent]struct{}),
		active:       make(map[string]struct{}),
		now:          time.Now,
		tickInterval: time.Second,
	}
}

// markActive counts a questions-state session toward the active-sessions
// gauge once per process. Sessions resumed from the state store after a
// restart are counted the first time this process sees them, and the gauge
// is only decremented for sessions this process counted, so it cannot
// drift negative.
func (s *DeliveryService) markActive(participantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[participantID]; ok {
		return
	}
	s.active[participantID] = struct{}{}
	monitoring.ActiveSessions.Inc()
}

func (s *DeliveryService) clearActive(participantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[participantID]; !ok {
		return
	}
	delete(s.active, participantID)
	monitoring.ActiveSessions.Dec()
}

// lockFor returns the mutex serializing all mutations of one participant's
// session. Locks are never evicted; the map stays small because only
// participants seen by this process appear in it.
func (s *DeliveryService) lockFor(participantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[participantID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[participantID] = l
	}
	return l
}

// SessionView is what the participant client renders. Only the fields
// relevant to the current state are populated; answer keys never appear.
type SessionView struct {
	State                 string                       `json:"state"`
	Branding              model.Branding               `json:"branding"`
	AssessmentTitle       string                       `json:"assessmentTitle"`
	AssessmentDescription string                       `json:"assessmentDescription,omitempty"`
	Config                *model.DeliveryConfig        `json:"config,omitempty"`
	Questions             []model.DeliveryQuestion     `json:"questions,omitempty"`
	Cursor                int                          `json:"cursor"`
	Answers               map[string]model.AnswerValue `json:"answers,omitempty"`
	RemainingSeconds      *int                         `json:"remainingSeconds,omitempty"`
	StartAt               *time.Time                   `json:"startAt,omitempty"`
	EndAt                 *time.Time                   `json:"endAt,omitempty"`
	Results               *ResultPayload               `json:"results,omitempty"`
}

type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	EmployeeCode string `json:"employeeCode"`
}

type RegisterResult struct {
	Token         string       `json:"token"`
	ParticipantID string       `json:"participantId"`
	View          *SessionView `json:"session"`
}

// LoadSession resolves a delivery link into the screen the client should
// show. Gate outcomes (not yet open, expired, closed) are views, not errors;
// only broken links and missing rows error out.
func (s *DeliveryService) LoadSession(ctx context.Context, token string) (*SessionView, error) {
	claims, err := util.ParseLinkToken(token, s.Links.Secret)
	if err != nil {
		return nil, util.ErrInvalidDeliveryToken
	}

	assessment, err := s.findAssessment(claims.AssessmentID)
	if err != nil {
		return nil, err
	}
	branding := s.branding(ctx, assessment.OrganizationID)

	if gate := s.gateState(assessment); gate != "" {
		return s.gateView(assessment, branding, gate), nil
	}

	if claims.Kind == util.LinkKindGroup {
		group, err := s.Orgs.FindGroup(claims.GroupID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrGroupNotFound
			}
			return nil, err
		}
		if group.AssessmentID != assessment.ID {
			return nil, util.ErrInvalidDeliveryToken
		}
		view := s.baseView(assessment, branding, model.StateRegister)
		return view, nil
	}

	participant, err := s.findParticipant(claims.ParticipantID)
	if err != nil {
		return nil, err
	}
	if participant.AssessmentID != assessment.ID {
		return nil, util.ErrAssessmentMismatch
	}
	if participant.Completed() {
		return s.outcomeView(assessment, branding, participant), nil
	}

	lock := s.lockFor(participant.ID)
	lock.Lock()
	defer lock.Unlock()

	st, ok, err := s.States.Get(participant.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		st = model.NewDeliverySessionState(participant.ID, assessment.ID, model.StateIntro)
		if err := s.States.Save(st); err != nil {
			return nil, err
		}
	}

	switch st.State {
	case model.StateQuestions:
		view, err := s.questionsView(assessment, branding, st)
		if err != nil {
			return nil, err
		}
		s.markActive(participant.ID)
		if st.Deadline != nil {
			s.startRunner(participant.ID)
		}
		return view, nil
	case model.StateSubmitting:
		return s.baseView(assessment, branding, model.StateSubmitting), nil
	default:
		view := s.baseView(assessment, branding, model.StateIntro)
		qs, err := s.deliveryQuestions(assessment.ID)
		if err != nil {
			return nil, err
		}
		view.Questions = qs
		return view, nil
	}
}

// Register creates a participant from a group link. Duplicate email and
// duplicate employee code are reported as distinct errors so the form can
// point at the right field.
func (s *DeliveryService) Register(ctx context.Context, token string, req RegisterRequest) (*RegisterResult, error) {
	claims, err := util.ParseLinkToken(token, s.Links.Secret)
	if err != nil {
		return nil, util.ErrInvalidDeliveryToken
	}
	if claims.Kind != util.LinkKindGroup {
		return nil, util.ErrInvalidDeliveryToken
	}
	if req.Name == "" || (req.Email == "" && req.EmployeeCode == "") {
		return nil, util.ErrMissingRequiredFields
	}

	assessment, err := s.findAssessment(claims.AssessmentID)
	if err != nil {
		return nil, err
	}
	if err := s.gateError(assessment); err != nil {
		return nil, err
	}

	group, err := s.Orgs.FindGroup(claims.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, err
	}
	if group.AssessmentID != assessment.ID {
		return nil, util.ErrInvalidDeliveryToken
	}

	if req.Email != "" {
		used, err := s.Participants.EmailUsed(assessment.OrganizationID, assessment.ID, req.Email)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, util.ErrEmailAlreadyUsed
		}
	}
	if req.EmployeeCode != "" {
		used, err := s.Participants.EmployeeCodeUsed(assessment.OrganizationID, assessment.ID, req.EmployeeCode)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, util.ErrEmployeeCodeUsed
		}
	}

	participant := &model.Participant{
		OrganizationID: assessment.OrganizationID,
		AssessmentID:   assessment.ID,
		GroupID:        &group.ID,
		Name:           req.Name,
		Email:          req.Email,
		EmployeeCode:   req.EmployeeCode,
		Status:         model.ParticipantStatusInvited,
	}
	if err := s.Participants.Create(participant); err != nil {
		return nil, err
	}

	st := model.NewDeliverySessionState(participant.ID, assessment.ID, model.StateIntro)
	if err := s.States.Save(st); err != nil {
		return nil, err
	}

	participantToken, err := util.GenerateParticipantToken(participant.ID, assessment.ID, s.Links.Secret, s.Links.Expiration)
	if err != nil {
		return nil, err
	}

	branding := s.branding(ctx, assessment.OrganizationID)
	view := s.baseView(assessment, branding, model.StateIntro)
	qs, err := s.deliveryQuestions(assessment.ID)
	if err != nil {
		return nil, err
	}
	view.Questions = qs

	return &RegisterResult{
		Token:         participantToken,
		ParticipantID: participant.ID,
		View:          view,
	}, nil
}

// Start moves the session from the intro screen into the questions and, for
// timed assessments, arms the deadline. Calling it again while already in
// the questions is a no-op resume.
func (s *DeliveryService) Start(ctx context.Context, participantID string) (*SessionView, error) {
	participant, err := s.findParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if participant.Completed() {
		return nil, util.ErrAlreadySubmitted
	}

	assessment, err := s.findAssessment(participant.AssessmentID)
	if err != nil {
		return nil, err
	}
	if err := s.gateError(assessment); err != nil {
		return nil, err
	}
	branding := s.branding(ctx, assessment.OrganizationID)

	lock := s.lockFor(participantID)
	lock.Lock()
	defer lock.Unlock()

	st, ok, err := s.States.Get(participantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		st = model.NewDeliverySessionState(participantID, assessment.ID, model.StateIntro)
	}

	switch st.State {
	case model.StateQuestions:
		view, err := s.questionsView(assessment, branding, st)
		if err != nil {
			return nil, err
		}
		s.markActive(participantID)
		if st.Deadline != nil {
			s.startRunner(participantID)
		}
		return view, nil
	case model.StateSubmitting:
		return nil, util.ErrSubmissionInFlight
	case model.StateIntro:
	default:
		return nil, util.ErrInvalidSessionState
	}

	now := s.now()
	if err := s.Participants.MarkStarted(participantID, now); err != nil {
		return nil, err
	}

	st.State = model.StateQuestions
	st.Cursor = 0
	if assessment.TimeLimitMinutes > 0 {
		deadline := now.Add(time.Duration(assessment.TimeLimitMinutes) * time.Minute)
		st.Deadline = &deadline
	}
	st.UpdatedAt = now
	if err := s.States.Save(st); err != nil {
		return nil, err
	}

	s.markActive(participantID)
	if st.Deadline != nil {
		s.startRunner(participantID)
	}
	s.broadcast(participantID, DeliveryEvent{Type: EventState, State: model.StateQuestions})

	return s.questionsView(assessment, branding, st)
}

// SaveAnswer records or replaces the answer to one question. Answers are
// accepted only while the session is in the questions state.
func (s *DeliveryService) SaveAnswer(ctx context.Context, participantID, questionID string, value model.AnswerValue) error {
	if questionID == "" || value.IsZero() {
		return util.ErrMissingRequiredFields
	}

	lock := s.lockFor(participantID)
	lock.Lock()
	defer lock.Unlock()

	st, ok, err := s.States.Get(participantID)
	if err != nil {
		return err
	}
	if !ok || st.State != model.StateQuestions {
		return util.ErrInvalidSessionState
	}

	questions, err := s.Assessments.ListQuestions(st.AssessmentID)
	if err != nil {
		return util.ErrQuestionLoadFailed
	}
	if !questionBelongs(questions, questionID) {
		return util.ErrQuestionNotInSession
	}

	st.Answers[questionID] = value
	st.UpdatedAt = s.now()
	return s.States.Save(st)
}

// Navigate moves the cursor. Forward requires the current question to be
// answered; moving forward past the last question triggers submission. Back
// never deletes answers.
func (s *DeliveryService) Navigate(ctx context.Context, participantID, direction string) (*SessionView, error) {
	if direction != "next" && direction != "back" {
		return nil, util.ErrMissingRequiredFields
	}

	lock := s.lockFor(participantID)
	lock.Lock()

	st, ok, err := s.States.Get(participantID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	if !ok || st.State != model.StateQuestions {
		lock.Unlock()
		return nil, util.ErrInvalidSessionState
	}

	assessment, err := s.findAssessment(st.AssessmentID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	questions, err := s.Assessments.ListQuestions(st.AssessmentID)
	if err != nil {
		lock.Unlock()
		return nil, util.ErrQuestionLoadFailed
	}

	if direction == "back" {
		if st.Cursor > 0 {
			st.Cursor--
			st.UpdatedAt = s.now()
			if err := s.States.Save(st); err != nil {
				lock.Unlock()
				return nil, err
			}
		}
		branding := s.branding(ctx, assessment.OrganizationID)
		view, err := s.questionsView(assessment, branding, st)
		lock.Unlock()
		return view, err
	}

	if st.Cursor < len(questions) {
		current := questions[st.Cursor]
		answer, answered := st.Answers[current.ID]
		if !answered || answer.IsZero() {
			lock.Unlock()
			return nil, util.ErrQuestionUnanswered
		}
	}

	if st.Cursor >= len(questions)-1 {
		lock.Unlock()
		res, err := s.SubmitSession(ctx, participantID, st.AssessmentID, nil, CauseManual)
		if err != nil {
			return nil, err
		}
		return s.submittedView(ctx, assessment, res), nil
	}

	st.Cursor++
	st.UpdatedAt = s.now()
	if err := s.States.Save(st); err != nil {
		lock.Unlock()
		return nil, err
	}
	branding := s.branding(ctx, assessment.OrganizationID)
	view, err := s.questionsView(assessment, branding, st)
	lock.Unlock()
	return view, err
}

// ReportHidden handles the page visibility event. A session in the
// questions state is submitted with whatever has been answered; in any
// other state the report is ignored.
func (s *DeliveryService) ReportHidden(ctx context.Context, participantID string) (*SubmitResult, error) {
	lock := s.lockFor(participantID)
	lock.Lock()
	st, ok, err := s.States.Get(participantID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	if !ok || st.State != model.StateQuestions {
		lock.Unlock()
		return nil, nil
	}
	assessmentID := st.AssessmentID
	lock.Unlock()

	return s.SubmitSession(ctx, participantID, assessmentID, nil, CauseHidden)
}

// SubmitSession is the single submission routine behind all three triggers.
// The first caller flips the session to submitting and runs the scorer;
// while that is in flight, automatic triggers are no-ops and a manual one
// gets an in-flight error. A transport failure reverts the session to the
// questions so the participant can retry.
func (s *DeliveryService) SubmitSession(ctx context.Context, participantID, assessmentID string, answers []model.SubmittedAnswer, cause string) (*SubmitResult, error) {
	lock := s.lockFor(participantID)
	lock.Lock()

	st, ok, err := s.States.Get(participantID)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	if ok {
		switch st.State {
		case model.StateSubmitting:
			lock.Unlock()
			if cause == CauseManual {
				return nil, util.ErrSubmissionInFlight
			}
			return nil, nil
		case model.StateCompleted, model.StateResults:
			lock.Unlock()
			return nil, util.ErrAlreadySubmitted
		}
		if assessmentID == "" {
			assessmentID = st.AssessmentID
		}
		for _, a := range answers {
			if a.QuestionID != "" && !a.Value.IsZero() {
				st.Answers[a.QuestionID] = a.Value
			}
		}
		st.State = model.StateSubmitting
		st.UpdatedAt = s.now()
		if err := s.States.Save(st); err != nil {
			lock.Unlock()
			return nil, err
		}
		answers = st.AnswersAsSubmission()
	}
	lock.Unlock()

	s.stopRunner(participantID)

	res, err := s.Scoring.Submit(SubmitRequest{
		ParticipantID: participantID,
		AssessmentID:  assessmentID,
		Answers:       answers,
	})
	if err != nil {
		monitoring.SubmissionCounter.WithLabelValues(cause, "failure").Inc()
		s.settleFailedSubmit(participantID, st, err)
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(cause, "success").Inc()
	if st != nil {
		final := model.StateCompleted
		if res.ShowResults {
			final = model.StateResults
		}
		lock.Lock()
		st.State = final
		st.UpdatedAt = s.now()
		if err := s.States.Save(st); err != nil {
			logger.Log.Warn("failed to persist final session state",
				zap.String("participantId", participantID),
				zap.Error(err))
		}
		lock.Unlock()
		s.clearActive(participantID)
		s.broadcast(participantID, DeliveryEvent{Type: EventSubmitted, Cause: cause})
		s.broadcast(participantID, DeliveryEvent{Type: EventState, State: final})
	}
	return res, nil
}

// settleFailedSubmit puts the session back where the failure dictates: an
// already-submitted conflict means another path won and the session is
// terminal; anything else reverts to the questions for a retry.
func (s *DeliveryService) settleFailedSubmit(participantID string, st *model.DeliverySessionState, cause error) {
	if st == nil {
		return
	}
	lock := s.lockFor(participantID)
	lock.Lock()
	defer lock.Unlock()

	if errors.Is(cause, util.ErrAlreadySubmitted) {
		st.State = model.StateCompleted
		st.UpdatedAt = s.now()
		if err := s.States.Save(st); err != nil {
			logger.Log.Warn("failed to settle conflicting submission",
				zap.String("participantId", participantID),
				zap.Error(err))
		}
		s.clearActive(participantID)
		return
	}

	st.State = model.StateQuestions
	st.UpdatedAt = s.now()
	if err := s.States.Save(st); err != nil {
		logger.Log.Error("failed to revert session after submission error",
			zap.String("participantId", participantID),
			zap.Error(err))
		return
	}
	s.broadcast(participantID, DeliveryEvent{Type: EventState, State: model.StateQuestions})
	if st.Deadline != nil && st.Remaining(s.now()) > 0 {
		s.startRunner(participantID)
	}
}

func (s *DeliveryService) findAssessment(id string) (*model.Assessment, error) {
	a, err := s.Assessments.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *DeliveryService) findParticipant(id string) (*model.Participant, error) {
	p, err := s.Participants.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

// gateState maps window and status checks to a terminal screen, or "" when
// the assessment is open. Closed wins over the date window because it is an
// explicit admin action.
func (s *DeliveryService) gateState(a *model.Assessment) string {
	switch {
	case a.Closed():
		return model.StateClosed
	case a.NotYetOpen(s.now()):
		return model.StateNotStarted
	case a.Expired(s.now()):
		return model.StateExpired
	default:
		return ""
	}
}

func (s *DeliveryService) gateError(a *model.Assessment) error {
	switch s.gateState(a) {
	case model.StateClosed:
		return util.ErrAssessmentClosed
	case model.StateNotStarted:
		return util.ErrAssessmentNotYetOpen
	case model.StateExpired:
		return util.ErrAssessmentExpired
	default:
		return nil
	}
}

func (s *DeliveryService) branding(ctx context.Context, organizationID string) model.Branding {
	org, err := s.Orgs.FindByID(organizationID)
	if err != nil {
		logger.Log.Warn("failed to load organization branding",
			zap.String("organizationId", organizationID),
			zap.Error(err))
		return model.Branding{}
	}
	b := model.Branding{
		OrganizationName: org.Name,
		PrimaryColor:     org.PrimaryColor,
		SecondaryColor:   org.SecondaryColor,
	}
	if org.LogoKey != "" && s.Logos != nil {
		b.LogoURL = s.Logos.LogoURL(ctx, org.LogoKey)
	}
	return b
}

func (s *DeliveryService) baseView(a *model.Assessment, branding model.Branding, state string) *SessionView {
	cfg := a.DeliveryConfig()
	return &SessionView{
		State:                 state,
		Branding:              branding,
		AssessmentTitle:       a.Title,
		AssessmentDescription: a.Description,
		Config:                &cfg,
	}
}

func (s *DeliveryService) gateView(a *model.Assessment, branding model.Branding, state string) *SessionView {
	view := s.baseView(a, branding, state)
	view.Config = nil
	switch state {
	case model.StateNotStarted:
		view.StartAt = a.StartAt
	case model.StateExpired:
		view.EndAt = a.EndAt
	}
	return view
}

func (s *DeliveryService) questionsView(a *model.Assessment, branding model.Branding, st *model.DeliverySessionState) (*SessionView, error) {
	view := s.baseView(a, branding, model.StateQuestions)
	qs, err := s.deliveryQuestions(a.ID)
	if err != nil {
		return nil, err
	}
	view.Questions = qs
	view.Cursor = st.Cursor
	view.Answers = st.Answers
	if st.Deadline != nil {
		remaining := st.Remaining(s.now())
		view.RemainingSeconds = &remaining
	}
	return view, nil
}

// outcomeView renders a completed participant from the durable row: the
// results screen when the assessment shares them, a plain completion
// screen otherwise.
func (s *DeliveryService) outcomeView(a *model.Assessment, branding model.Branding, p *model.Participant) *SessionView {
	if !a.ShowResultsToEmployee {
		return s.baseView(a, branding, model.StateCompleted)
	}
	view := s.baseView(a, branding, model.StateResults)
	payload := &ResultPayload{
		AIReport:         p.AIReportText,
		AllowPDFDownload: a.AllowEmployeePDFDownload,
	}
	if len(p.ScoreSummary) > 0 {
		if err := json.Unmarshal(p.ScoreSummary, &payload.ScoreSummary); err != nil {
			logger.Log.Warn("failed to decode stored score summary",
				zap.String("participantId", p.ID),
				zap.Error(err))
		}
	}
	view.Results = payload
	return view
}

func (s *DeliveryService) submittedView(ctx context.Context, a *model.Assessment, res *SubmitResult) *SessionView {
	branding := s.branding(ctx, a.OrganizationID)
	state := model.StateCompleted
	if res.ShowResults {
		state = model.StateResults
	}
	view := s.baseView(a, branding, state)
	view.Results = res.Results
	return view
}

func (s *DeliveryService) deliveryQuestions(assessmentID string) ([]model.DeliveryQuestion, error) {
	questions, err := s.Assessments.ListQuestions(assessmentID)
	if err != nil {
		return nil, util.ErrQuestionLoadFailed
	}
	out := make([]model.DeliveryQuestion, 0, len(questions))
	for i := range questions {
		out = append(out, questions[i].ForDelivery())
	}
	return out, nil
}

func questionBelongs(questions []model.AssessmentQuestion, questionID string) bool {
	for i := range questions {
		if questions[i].ID == questionID {
			return true
		}
	}
	return false
}
