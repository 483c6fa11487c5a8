package controller

import (
	"taqyim_backend/internal/service"
	"taqyim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ScoringController exposes the submission endpoint. The heavy lifting,
// including the idempotency guarantee, lives in the services; the
// controller only binds and maps errors.
type ScoringController struct {
	Delivery *service.DeliveryService
}

func NewScoringController(delivery *service.DeliveryService) *ScoringController {
	return &ScoringController{Delivery: delivery}
}

// Submit godoc
// @Summary Submit an assessment
// @Description Grades the answers, persists the outcome and returns the result; duplicate submissions are rejected
// @Tags Scoring
// @Accept json
// @Produce json
// @Security DeliveryToken
// @Param request body service.SubmitRequest true "Submission"
// @Success 200 {object} service.SubmitResult
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /api/delivery/submit [post]
func (ctrl *ScoringController) Submit(c *gin.Context) {
	link := util.GetLinkFromContext(c)
	if link == nil || link.ParticipantID == "" {
		util.Unauthorized(c)
		return
	}

	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if req.ParticipantID != link.ParticipantID {
		util.BadRequest(c, util.ErrAssessmentMismatch.Error())
		return
	}

	result, err := ctrl.Delivery.SubmitSession(c.Request.Context(), req.ParticipantID, req.AssessmentID, req.Answers, service.CauseManual)
	if err != nil {
		respondDeliveryError(c, err)
		return
	}
	util.Success(c, result)
}
