package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhanushramudri/events-backend/internal/api/handler/v1/request"
	"github.com/dhanushramudri/events-backend/internal/api/handler/v1/response"
	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/service"
)

type AdmissionService interface {
	Register(ctx context.Context, eventID uint, contact domain.Contact) (domain.Participant, error)
	Approve(ctx context.Context, eventID, participantID uint) (domain.Participant, error)
	Reject(ctx context.Context, eventID, participantID uint) (domain.Participant, error)
	Withdraw(ctx context.Context, eventID uint, email string) (domain.Participant, error)
	Remove(ctx context.Context, eventID, participantID uint) (domain.PromotionResult, error)
	ListParticipants(ctx context.Context, eventID uint) ([]domain.Participant, error)
}

type ParticipantHandler struct {
	svc  AdmissionService
	eSvc EventService
	uSvc UserService
}

func NewParticipantHandler(svc AdmissionService, eSvc EventService, uSvc UserService) *ParticipantHandler {
	return &ParticipantHandler{
		svc:  svc,
		eSvc: eSvc,
		uSvc: uSvc,
	}
}

// HandleRegister godoc
// @Summary      Register for an event
// @Description  Registers a contact for an event. The contact is either approved immediately or placed at the end of the waitlist.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                                 true  "Event ID"
// @Param        input    body      request.RegisterParticipantRequest  true  "Contact details"
// @Success      201  {object}  response.RegisterResponse
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/register [post]
func (h *ParticipantHandler) HandleRegister(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.RegisterParticipantRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participant, err := h.svc.Register(ctx.Request.Context(), eventID, domain.Contact{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrDuplicateRegistration):
			response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateRegistration))
		case errors.Is(err, service.ErrRegistrationClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRegistrationClosed))
		default:
			err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	msg := "registration confirmed"
	if participant.Status == domain.ParticipantPending {
		msg = fmt.Sprintf("added to the waitlist at position %v", participant.QueuePosition)
	}

	ctx.JSON(http.StatusCreated, response.RegisterResponse{
		Message:     msg,
		Participant: participant,
	})
}

// HandleListParticipants godoc
// @Summary      List participants for an event
// @Description  Returns every participant of the event, approved first, then by queue position. Admin only.
// @Tags         participants
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  response.ListParticipantsResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/participants [get]
// @Security BearerAuth
func (h *ParticipantHandler) HandleListParticipants(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.eSvc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleListParticipants -> h.eSvc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	participants, err := h.svc.ListParticipants(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListParticipants -> h.svc.ListParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ListParticipantsResponse{
		Event:        event,
		Participants: participants,
	})
}

// HandleApprove godoc
// @Summary      Approve a participant
// @Description  Approves a pending participant, subject to event capacity. Admin only.
// @Tags         participants
// @Produce      json
// @Param        eventID        path      int  true  "Event ID"
// @Param        participantID  path      int  true  "Participant ID"
// @Success      200  {object}  domain.Participant
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/participants/{participantID}/approve [post]
// @Security BearerAuth
func (h *ParticipantHandler) HandleApprove(ctx *gin.Context) {
	eventID, participantID, ok := h.parsePathIDs(ctx)
	if !ok {
		return
	}

	participant, err := h.svc.Approve(ctx.Request.Context(), eventID, participantID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", participantID))
		case errors.Is(err, service.ErrCapacityExceeded):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCapacityExceeded))
		default:
			err = fmt.Errorf("v1.HandleApprove -> h.svc.Approve -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, participant)
}

// HandleReject godoc
// @Summary      Reject a participant
// @Description  Rejects a participant. Rejecting an approved participant frees a spot and promotes the head of the waitlist. Admin only.
// @Tags         participants
// @Produce      json
// @Param        eventID        path      int  true  "Event ID"
// @Param        participantID  path      int  true  "Participant ID"
// @Success      200  {object}  domain.Participant
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/participants/{participantID}/reject [post]
// @Security BearerAuth
func (h *ParticipantHandler) HandleReject(ctx *gin.Context) {
	eventID, participantID, ok := h.parsePathIDs(ctx)
	if !ok {
		return
	}

	participant, err := h.svc.Reject(ctx.Request.Context(), eventID, participantID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", participantID))
		default:
			err = fmt.Errorf("v1.HandleReject -> h.svc.Reject -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, participant)
}

// HandleWithdraw godoc
// @Summary      Withdraw from an event
// @Description  Withdraws the authenticated user's registration. Admins may withdraw another contact by passing their email.
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                      true   "Event ID"
// @Param        input    body      request.WithdrawRequest  false  "Contact email (admin only)"
// @Success      200  {object}  domain.Participant
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/withdraw [post]
// @Security BearerAuth
func (h *ParticipantHandler) HandleWithdraw(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	email := user.Email
	var req request.WithdrawRequest
	if err = ctx.ShouldBindJSON(&req); err == nil && req.Email != "" {
		if err = req.Validate(); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		if req.Email != user.Email {
			if !user.IsAdmin() {
				response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("cannot withdraw another contact's registration")))
				return
			}
			email = req.Email
		}
	}

	participant, err := h.svc.Withdraw(ctx.Request.Context(), eventID, email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("registration", "email", email))
		default:
			err = fmt.Errorf("v1.HandleWithdraw -> h.svc.Withdraw -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, participant)
}

// HandleRemove godoc
// @Summary      Remove a participant
// @Description  Deletes a participant record. Removing an approved participant frees a spot and promotes the head of the waitlist. Admin only.
// @Tags         participants
// @Produce      json
// @Param        eventID        path      int  true  "Event ID"
// @Param        participantID  path      int  true  "Participant ID"
// @Success      200  {object}  response.RemoveParticipantResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/participants/{participantID} [delete]
// @Security BearerAuth
func (h *ParticipantHandler) HandleRemove(ctx *gin.Context) {
	eventID, participantID, ok := h.parsePathIDs(ctx)
	if !ok {
		return
	}

	result, err := h.svc.Remove(ctx.Request.Context(), eventID, participantID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrParticipantNotFound):
			response.RenderErr(ctx, response.ErrNotFound("participant", "ID", participantID))
		default:
			err = fmt.Errorf("v1.HandleRemove -> h.svc.Remove -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.RemoveParticipantResponse{
		Message:  "participant removed",
		Promoted: result.Promoted,
	})
}

func (h *ParticipantHandler) parsePathIDs(ctx *gin.Context) (eventID, participantID uint, ok bool) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return 0, 0, false
	}

	participantID, err = parseIDParam(ctx, "participantID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return 0, 0, false
	}

	return eventID, participantID, true
}
