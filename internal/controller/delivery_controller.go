package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taqyim_backend/internal/model"
	"taqyim_backend/internal/service"
	"taqyim_backend/internal/util"
	"taqyim_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DeliveryController handles the participant-facing assessment flow.
type DeliveryController struct {
	Delivery *service.DeliveryService
}

func NewDeliveryController(delivery *service.DeliveryService) *DeliveryController {
	return &DeliveryController{Delivery: delivery}
}

// SaveAnswerRequest records one answer. Value is either a single option
// index or an array of indexes for multi-select questions.
type SaveAnswerRequest struct {
	QuestionID string            `json:"questionId" binding:"required"`
	Value      model.AnswerValue `json:"value"`
}

// NavigateRequest moves the question cursor.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required" example:"next"`
}

// ClientEventRequest reports a browser-side event. Hidden and unload both
// trigger a server-side submission of whatever has been answered.
type ClientEventRequest struct {
	Type string `json:"type" binding:"required" example:"hidden"`
}

// GetSession godoc
// @Summary Load a delivery session
// @Description Resolves a delivery link into the screen the client should render
// @Tags Delivery
// @Produce json
// @Param token query string true "Delivery link token"
// @Success 200 {object} service.SessionView
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/delivery/session [get]
func (ctrl *DeliveryController) GetSession(c *gin.Context) {
	token := linkToken(c)
	if token == "" {
		util.BadRequest(c, "missing delivery token")
		return
	}
	view, err := ctrl.Delivery.LoadSession(c.Request.Context(), token)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	util.Success(c, view)
}

// Register godoc
// @Summary Register a participant through a group link
// @Description Creates a participant and returns a personal session token
// @Tags Delivery
// @Accept json
// @Produce json
// @Param token query string true "Group link token"
// @Param request body service.RegisterRequest true "Registration details"
// @Success 201 {object} service.RegisterResult
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/delivery/register [post]
func (ctrl *DeliveryController) Register(c *gin.Context) {
	token := linkToken(c)
	if token == "" {
		util.BadRequest(c, "missing delivery token")
		return
	}
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	result, err := ctrl.Delivery.Register(c.Request.Context(), token, req)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	util.Created(c, result)
}

// Start godoc
// @Summary Start the assessment
// @Description Moves the session from the intro screen into the questions
// @Tags Delivery
// @Produce json
// @Security DeliveryToken
// @Success 200 {object} service.SessionView
// @Failure 400 {object} util.ErrorResponse
// @Router /api/delivery/start [post]
func (ctrl *DeliveryController) Start(c *gin.Context) {
	link := util.GetLinkFromContext(c)
	if link == nil || link.ParticipantID == "" {
		util.Unauthorized(c)
		return
	}
	view, err := ctrl.Delivery.Start(c.Request.Context(), link.ParticipantID)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	util.Success(c, view)
}

// SaveAnswer godoc
// @Summary Save one answer
// @Tags Delivery
// @Accept json
// @Produce json
// @Security DeliveryToken
// @Param request body SaveAnswerRequest true "Answer"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} util.ErrorResponse
// @Router /api/delivery/answers [post]
func (ctrl *DeliveryController) SaveAnswer(c *gin.Context) {
	link := util.GetLinkFromContext(c)
	if link == nil || link.ParticipantID == "" {
		util.Unauthorized(c)
		return
	}
	var req SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if err := ctrl.Delivery.SaveAnswer(c.Request.Context(), link.ParticipantID, req.QuestionID, req.Value); err != nil {
		respondDeliveryError(c, err)
		return
	}
	util.Success(c, gin.H{"saved": true})
}

// Navigate godoc
// @Summary Move between questions
// @Description Forward requires the current question to be answered; moving forward past the last question submits the session
// @Tags Delivery
// @Accept json
// @Produce json
// @Security DeliveryToken
// @Param request body NavigateRequest true "Direction: next or back"
// @Success 200 {object} service.SessionView
// @Failure 400 {object} util.ErrorResponse
// @Router /api/delivery/navigate [post]
func (ctrl *DeliveryController) Navigate(c *gin.Context) {
	link := util.GetLinkFromContext(c)
	if link == nil || link.ParticipantID == "" {
		util.Unauthorized(c)
		return
	}
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	view, err := ctrl.Delivery.Navigate(c.Request.Context(), link.ParticipantID, req.Direction)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	util.Success(c, view)
}

// ReportEvent godoc
// @Summary Report a browser event
// @Description Hidden and unload events submit an in-progress session with whatever has been answered
// @Tags Delivery
// @Accept json
// @Produce json
// @Security DeliveryToken
// @Param request body ClientEventRequest true "Event"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} util.ErrorResponse
// @Router /api/delivery/events [post]
func (ctrl *DeliveryController) ReportEvent(c *gin.Context) {
	link := util.GetLinkFromContext(c)
	if link == nil || link.ParticipantID == "" {
		util.Unauthorized(c)
		return
	}
	var req ClientEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if req.Type == "hidden" || req.Type == "unload" {
		if _, err := ctrl.Delivery.ReportHidden(c.Request.Context(), link.ParticipantID); err != nil {
			respondDeliveryError(c, err)
			return
		}
	}
	util.Success(c, gin.H{"received": true})
}

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	streamWriteWait = 10 * time.Second
	streamPingEvery = 30 * time.Second
)

// Stream godoc
// @Summary Session event stream
// @Description WebSocket pushing state, countdown, warning and submitted events
// @Tags Delivery
// @Security DeliveryToken
// @Success 101 {string} string "Switching Protocols"
// @Router /api/delivery/stream [get]
func (ctrl *DeliveryController) Stream(c *gin.Context) {
	link := util.GetLinkFromContext(c)
	if link == nil || link.ParticipantID == "" {
		util.Unauthorized(c)
		return
	}

	conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := ctrl.Delivery.Subscribe(link.ParticipantID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingEvery)
	defer ping.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// linkToken pulls the delivery token from the query string or the bearer
// header, whichever the client used.
func linkToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// respondDeliveryError maps service errors onto the wire contract: 404 for
// missing rows, 500 for infrastructure failures, 400 for everything the
// participant can act on.
func respondDeliveryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidDeliveryToken):
		util.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrParticipantNotFound),
		errors.Is(err, util.ErrAssessmentNotFound),
		errors.Is(err, util.ErrGroupNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrQuestionLoadFailed),
		errors.Is(err, util.ErrResponseSaveFailed):
		util.LogInternalError(c, err)
	case errors.Is(err, util.ErrAlreadySubmitted),
		errors.Is(err, util.ErrAssessmentMismatch),
		errors.Is(err, util.ErrAssessmentNotYetOpen),
		errors.Is(err, util.ErrAssessmentExpired),
		errors.Is(err, util.ErrAssessmentClosed),
		errors.Is(err, util.ErrEmailAlreadyUsed),
		errors.Is(err, util.ErrEmployeeCodeUsed),
		errors.Is(err, util.ErrRegistrationRequired),
		errors.Is(err, util.ErrQuestionUnanswered),
		errors.Is(err, util.ErrInvalidSessionState),
		errors.Is(err, util.ErrSubmissionInFlight),
		errors.Is(err, util.ErrQuestionNotInSession),
		errors.Is(err, util.ErrMissingRequiredFields):
		util.BadRequest(c, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
