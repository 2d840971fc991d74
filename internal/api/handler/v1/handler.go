package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dhanushramudri/events-backend/internal/api/handler/v1/response"
	"github.com/dhanushramudri/events-backend/internal/api/middleware"
	"github.com/dhanushramudri/events-backend/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	GetRegistrations(ctx context.Context, user domain.User) ([]domain.Participant, error)
}

// getUserFromContext loads the authenticated user from the userID that
// VerifyJWT stored on the request context.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	v, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errors.New("user not authenticated"))
	}

	userID, ok := v.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("invalid user ID in context"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> svc.GetUser -> %w", err))
	}

	return user, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %v: %w", name, err)
	}

	return uint(id), nil
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         healthcheck
// @Produce      plain
// @Success      200 {string} string "OK"
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.String(http.StatusOK, "OK")
}
