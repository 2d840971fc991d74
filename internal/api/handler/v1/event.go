package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dhanushramudri/events-backend/internal/api/handler/v1/request"
	"github.com/dhanushramudri/events-backend/internal/api/handler/v1/response"
	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event, createdBy uint) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	ListEvents(ctx context.Context, status, category string, limit int) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, id uint) error
	ToggleAutoApprove(ctx context.Context, id uint) (domain.Event, error)
	GetOccupancy(ctx context.Context, id uint) (domain.Occupancy, error)
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Lists events, optionally filtered by status and category
// @Tags         events
// @Produce      json
// @Param        status    query     string  false  "event status filter"
// @Param        category  query     string  false  "event category filter"
// @Param        limit     query     int     false  "maximum number of events"
// @Success      200  {object}  response.EventsResponse
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid limit: %v", raw)))
			return
		}
		limit = parsed
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), ctx.Query("status"), ctx.Query("category"), limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.EventsResponse{Events: events})
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleGetOccupancy godoc
// @Summary      Get event occupancy
// @Description  Returns the capacity, approved count and fill percentage of an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  domain.Occupancy
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/occupancy [get]
func (h *EventHandler) HandleGetOccupancy(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	occupancy, err := h.svc.GetOccupancy(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetOccupancy -> h.svc.GetOccupancy -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, occupancy)
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Creates a new event. Admin only.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event details"
// @Success      201  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event := domain.Event{
		Title:                req.Title,
		Category:             req.Category,
		Description:          req.Description,
		Location:             req.Location,
		Date:                 req.Date,
		RegistrationClosesAt: req.RegistrationClosesAt,
		Capacity:             req.Capacity,
		AutoApprove:          req.AutoApprove,
	}
	if event.RegistrationClosesAt.IsZero() {
		event.RegistrationClosesAt = event.Date
	}

	created, err := h.svc.CreateEvent(ctx.Request.Context(), event, user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Updates event details. Capacity cannot drop below the current approved count. Admin only.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                         true  "Event ID"
// @Param        input    body      request.UpdateEventRequest  true  "Event details"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateEventRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event := domain.Event{
		ID:                   eventID,
		Title:                req.Title,
		Category:             req.Category,
		Description:          req.Description,
		Location:             req.Location,
		Date:                 req.Date,
		RegistrationClosesAt: req.RegistrationClosesAt,
		Status:               domain.EventStatus(req.Status),
		Capacity:             req.Capacity,
		AutoApprove:          req.AutoApprove,
	}
	if event.RegistrationClosesAt.IsZero() {
		event.RegistrationClosesAt = event.Date
	}

	updated, err := h.svc.UpdateEvent(ctx.Request.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrCapacityBelowApproved):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrCapacityBelowApproved))
		default:
			err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Deletes an event and all its participant records. Admin only.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// HandleToggleAutoApprove godoc
// @Summary      Toggle auto-approval for an event
// @Description  Flips the event's auto-approval flag. Admin only.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  response.ToggleAutoApproveResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/auto-approve [patch]
// @Security BearerAuth
func (h *EventHandler) HandleToggleAutoApprove(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.ToggleAutoApprove(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleToggleAutoApprove -> h.svc.ToggleAutoApprove -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	msg := "auto-approval disabled"
	if event.AutoApprove {
		msg = "auto-approval enabled"
	}

	ctx.JSON(http.StatusOK, response.ToggleAutoApproveResponse{
		Event:   event,
		Message: msg,
	})
}
