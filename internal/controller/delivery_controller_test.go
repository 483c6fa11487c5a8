package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"taqyim_backend/internal/config"
	"taqyim_backend/internal/middleware"
	"taqyim_backend/internal/model"
	"taqyim_backend/internal/repository"
	"taqyim_backend/internal/service"
	"taqyim_backend/internal/util"
	"taqyim_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret-0123456789abcdef"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// ---- in-memory stores ----

type memParticipants struct {
	byID map[string]*model.Participant
}

func (f *memParticipants) Create(p *model.Participant) error {
	if p.ID == "" {
		p.ID = model.GenerateUUID()
	}
	f.byID[p.ID] = p
	return nil
}

func (f *memParticipants) FindByID(id string) (*model.Participant, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *memParticipants) EmailUsed(orgID, assessmentID, email string) (bool, error) {
	for _, p := range f.byID {
		if p.AssessmentID == assessmentID && p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *memParticipants) EmployeeCodeUsed(orgID, assessmentID, code string) (bool, error) {
	for _, p := range f.byID {
		if p.AssessmentID == assessmentID && p.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *memParticipants) MarkStarted(id string, at time.Time) error {
	if p, ok := f.byID[id]; ok && p.Status == model.ParticipantStatusInvited {
		p.Status = model.ParticipantStatusStarted
		p.StartedAt = &at
	}
	return nil
}

func (f *memParticipants) CompleteIfOpen(id string, summary json.RawMessage, aiReport *string, at time.Time) (bool, error) {
	p, ok := f.byID[id]
	if !ok || p.Status == model.ParticipantStatusCompleted {
		return false, nil
	}
	p.Status = model.ParticipantStatusCompleted
	p.CompletedAt = &at
	p.ScoreSummary = summary
	p.AIReportText = aiReport
	return true, nil
}

type memAssessments struct {
	assessment *model.Assessment
	questions  []model.AssessmentQuestion
}

func (f *memAssessments) FindByID(id string) (*model.Assessment, error) {
	if f.assessment.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.assessment, nil
}

func (f *memAssessments) ListQuestions(assessmentID string) ([]model.AssessmentQuestion, error) {
	return f.questions, nil
}

type memOrgs struct {
	org   *model.Organization
	group *model.AssessmentGroup
}

func (f *memOrgs) FindByID(id string) (*model.Organization, error) {
	if f.org.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.org, nil
}

func (f *memOrgs) FindGroup(id string) (*model.AssessmentGroup, error) {
	if f.group.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.group, nil
}

type memResponses struct {
	rows []model.ParticipantResponse
}

func (f *memResponses) CreateBatch(rows []model.ParticipantResponse) error {
	f.rows = append(f.rows, rows...)
	return nil
}

// ---- router fixture ----

type apiFixture struct {
	router       *gin.Engine
	participants *memParticipants
}

func intp(v int) *int { return &v }

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	org := &model.Organization{Name: "Acme"}
	org.ID = "org1"
	group := &model.AssessmentGroup{OrganizationID: "org1", AssessmentID: "a1", Name: "Cohort"}
	group.ID = "g1"

	assessment := &model.Assessment{
		OrganizationID:        "org1",
		Title:                 "Onboarding Quiz",
		Language:              model.LanguageEnglish,
		Status:                model.AssessmentStatusActive,
		IsGraded:              true,
		ShowResultsToEmployee: true,
	}
	assessment.ID = "a1"

	q1 := model.AssessmentQuestion{Text: "first", CorrectIndex: intp(0)}
	q1.ID = "q1"
	q2 := model.AssessmentQuestion{Text: "second", CorrectIndex: intp(1)}
	q2.ID = "q2"

	participants := &memParticipants{byID: make(map[string]*model.Participant)}
	assessments := &memAssessments{assessment: assessment, questions: []model.AssessmentQuestion{q1, q2}}
	orgs := &memOrgs{org: org, group: group}
	states := repository.NewMemorySessionStateStore()

	scoring := service.NewScoringService(participants, assessments, &memResponses{}, nil, time.Second)
	delivery := service.NewDeliveryService(participants, assessments, orgs, states, scoring, nil,
		service.LinkConfig{Secret: testSecret, Expiration: time.Hour})

	cfg := &config.Config{}
	cfg.Links.Secret = testSecret

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	deliveryCtrl := NewDeliveryController(delivery)
	scoringCtrl := NewScoringController(delivery)

	router.GET("/api/delivery/session", deliveryCtrl.GetSession)
	router.POST("/api/delivery/register", deliveryCtrl.Register)

	authed := router.Group("/api/delivery")
	authed.Use(middleware.DeliveryLinkMiddleware(), middleware.RequireParticipant())
	{
		authed.POST("/start", deliveryCtrl.Start)
		authed.POST("/answers", deliveryCtrl.SaveAnswer)
		authed.POST("/navigate", deliveryCtrl.Navigate)
		authed.POST("/events", deliveryCtrl.ReportEvent)
		authed.POST("/submit", scoringCtrl.Submit)
	}

	return &apiFixture{router: router, participants: participants}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) groupToken(t *testing.T) string {
	t.Helper()
	token, err := util.GenerateGroupToken("g1", "a1", testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *apiFixture) register(t *testing.T, email string) (token, participantID string) {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/delivery/register", f.groupToken(t),
		gin.H{"name": "Dana", "email": email})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		Token         string `json:"token"`
		ParticipantID string `json:"participantId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token, res.ParticipantID
}

// ---- tests ----

func TestGetSessionRequiresToken(t *testing.T) {
	fix := newAPIFixture(t)
	w := fix.do(t, http.MethodGet, "/api/delivery/session", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
}

func TestGetSessionGroupLink(t *testing.T) {
	fix := newAPIFixture(t)
	w := fix.do(t, http.MethodGet, "/api/delivery/session", fix.groupToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view service.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, model.StateRegister, view.State)
	assert.Equal(t, "Acme", view.Branding.OrganizationName)
}

func TestGetSessionInvalidToken(t *testing.T) {
	fix := newAPIFixture(t)
	w := fix.do(t, http.MethodGet, "/api/delivery/session?token=garbage", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterAndStartFlow(t *testing.T) {
	fix := newAPIFixture(t)
	token, pid := fix.register(t, "dana@example.com")
	assert.NotEmpty(t, pid)

	w := fix.do(t, http.MethodPost, "/api/delivery/start", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view service.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, model.StateQuestions, view.State)
	assert.Len(t, view.Questions, 2)

	// Answer keys must never appear in the payload.
	assert.NotContains(t, w.Body.String(), "correctIndex")
	assert.NotContains(t, w.Body.String(), "CorrectIndex")
}

func TestRegisterDuplicateEmailIs400(t *testing.T) {
	fix := newAPIFixture(t)
	fix.register(t, "dana@example.com")

	w := fix.do(t, http.MethodPost, "/api/delivery/register", fix.groupToken(t),
		gin.H{"name": "Other", "email": "dana@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email already used")
}

func TestStartRejectsGroupToken(t *testing.T) {
	fix := newAPIFixture(t)
	w := fix.do(t, http.MethodPost, "/api/delivery/start", fix.groupToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "registration required")
}

func TestSaveAnswerAndNavigate(t *testing.T) {
	fix := newAPIFixture(t)
	token, _ := fix.register(t, "dana@example.com")
	fix.do(t, http.MethodPost, "/api/delivery/start", token, nil)

	w := fix.do(t, http.MethodPost, "/api/delivery/answers", token,
		gin.H{"questionId": "q1", "value": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = fix.do(t, http.MethodPost, "/api/delivery/navigate", token, gin.H{"direction": "next"})
	require.Equal(t, http.StatusOK, w.Code)

	var view service.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Cursor)
}

func TestNavigateUnansweredIs400(t *testing.T) {
	fix := newAPIFixture(t)
	token, _ := fix.register(t, "dana@example.com")
	fix.do(t, http.MethodPost, "/api/delivery/start", token, nil)

	w := fix.do(t, http.MethodPost, "/api/delivery/navigate", token, gin.H{"direction": "next"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "answer the current question")
}

func TestSubmitFlowAndDoubleSubmit(t *testing.T) {
	fix := newAPIFixture(t)
	token, pid := fix.register(t, "dana@example.com")
	fix.do(t, http.MethodPost, "/api/delivery/start", token, nil)

	payload := gin.H{
		"participantId": pid,
		"assessmentId":  "a1",
		"answers": []gin.H{
			{"questionId": "q1", "value": 0},
			{"questionId": "q2", "value": 0},
		},
	}

	w := fix.do(t, http.MethodPost, "/api/delivery/submit", token, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res service.SubmitResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	require.NotNil(t, res.Results)
	assert.Equal(t, 50, res.Results.ScoreSummary.Graded.Percentage)

	w = fix.do(t, http.MethodPost, "/api/delivery/submit", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already submitted")
}

func TestSubmitForAnotherParticipantRejected(t *testing.T) {
	fix := newAPIFixture(t)
	token, _ := fix.register(t, "dana@example.com")
	_, otherPID := fix.register(t, "omar@example.com")
	fix.do(t, http.MethodPost, "/api/delivery/start", token, nil)

	w := fix.do(t, http.MethodPost, "/api/delivery/submit", token, gin.H{
		"participantId": otherPID,
		"assessmentId":  "a1",
		"answers":       []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHiddenEventSubmits(t *testing.T) {
	fix := newAPIFixture(t)
	token, pid := fix.register(t, "dana@example.com")
	fix.do(t, http.MethodPost, "/api/delivery/start", token, nil)
	fix.do(t, http.MethodPost, "/api/delivery/answers", token, gin.H{"questionId": "q1", "value": 0})

	w := fix.do(t, http.MethodPost, "/api/delivery/events", token, gin.H{"type": "hidden"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	p := fix.participants.byID[pid]
	assert.Equal(t, model.ParticipantStatusCompleted, p.Status)
}
