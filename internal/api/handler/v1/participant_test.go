package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhanushramudri/events-backend/internal/api/middleware"
	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/service"
)

type stubAdmissionService struct {
	registerFn func(ctx context.Context, eventID uint, contact domain.Contact) (domain.Participant, error)
	approveFn  func(ctx context.Context, eventID, participantID uint) (domain.Participant, error)
	withdrawFn func(ctx context.Context, eventID uint, email string) (domain.Participant, error)
}

func (s *stubAdmissionService) Register(ctx context.Context, eventID uint, contact domain.Contact) (domain.Participant, error) {
	return s.registerFn(ctx, eventID, contact)
}

func (s *stubAdmissionService) Approve(ctx context.Context, eventID, participantID uint) (domain.Participant, error) {
	return s.approveFn(ctx, eventID, participantID)
}

func (s *stubAdmissionService) Reject(context.Context, uint, uint) (domain.Participant, error) {
	return domain.Participant{}, nil
}

func (s *stubAdmissionService) Withdraw(ctx context.Context, eventID uint, email string) (domain.Participant, error) {
	if s.withdrawFn != nil {
		return s.withdrawFn(ctx, eventID, email)
	}
	return domain.Participant{}, nil
}

func (s *stubAdmissionService) Remove(context.Context, uint, uint) (domain.PromotionResult, error) {
	return domain.PromotionResult{}, nil
}

func (s *stubAdmissionService) ListParticipants(context.Context, uint) ([]domain.Participant, error) {
	return nil, nil
}

func newRegisterRouter(svc AdmissionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewParticipantHandler(svc, nil, nil)
	router.POST("/api/v1/events/:eventID/register", handler.HandleRegister)
	router.POST("/api/v1/events/:eventID/participants/:participantID/approve", handler.HandleApprove)

	return router
}

func TestHandleRegister(t *testing.T) {
	t.Run("returns 201 with the participant", func(t *testing.T) {
		svc := &stubAdmissionService{
			registerFn: func(_ context.Context, eventID uint, contact domain.Contact) (domain.Participant, error) {
				return domain.Participant{
					ID:            7,
					EventID:       eventID,
					Name:          contact.Name,
					Email:         contact.Email,
					Status:        domain.ParticipantPending,
					QueuePosition: 3,
				}, nil
			},
		}
		router := newRegisterRouter(svc)

		body := `{"name":"Alice","email":"alice@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusCreated, resp.Code)
		assert.Contains(t, resp.Body.String(), `"queue_position":3`)
		assert.Contains(t, resp.Body.String(), "position 3")
	})

	t.Run("returns 409 on duplicate registration", func(t *testing.T) {
		svc := &stubAdmissionService{
			registerFn: func(context.Context, uint, domain.Contact) (domain.Participant, error) {
				return domain.Participant{}, service.ErrDuplicateRegistration
			},
		}
		router := newRegisterRouter(svc)

		body := `{"name":"Alice","email":"alice@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("returns 404 for an unknown event", func(t *testing.T) {
		svc := &stubAdmissionService{
			registerFn: func(context.Context, uint, domain.Contact) (domain.Participant, error) {
				return domain.Participant{}, service.ErrEventNotFound
			},
		}
		router := newRegisterRouter(svc)

		body := `{"name":"Alice","email":"alice@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/42/register", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("returns 400 for an invalid email", func(t *testing.T) {
		router := newRegisterRouter(&stubAdmissionService{})

		body := `{"name":"Alice","email":"not-an-email"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/register", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("returns 400 for a non-numeric event ID", func(t *testing.T) {
		router := newRegisterRouter(&stubAdmissionService{})

		body := `{"name":"Alice","email":"alice@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/abc/register", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

type stubUserService struct {
	user domain.User
}

func (s *stubUserService) GetUser(context.Context, uint) (domain.User, error) {
	return s.user, nil
}

func (s *stubUserService) GetRegistrations(context.Context, domain.User) ([]domain.Participant, error) {
	return nil, nil
}

func newWithdrawRouter(svc AdmissionService, user domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, user.ID)
	})

	handler := NewParticipantHandler(svc, nil, &stubUserService{user: user})
	router.POST("/api/v1/events/:eventID/withdraw", handler.HandleWithdraw)

	return router
}

func TestHandleWithdraw(t *testing.T) {
	self := domain.User{ID: 1, Email: "self@example.com", Role: domain.RoleUser}
	admin := domain.User{ID: 2, Email: "admin@example.com", Role: domain.RoleAdmin}

	t.Run("withdraws the caller's own registration", func(t *testing.T) {
		var gotEmail string
		svc := &stubAdmissionService{
			withdrawFn: func(_ context.Context, _ uint, email string) (domain.Participant, error) {
				gotEmail = email
				return domain.Participant{Email: email, Status: domain.ParticipantWithdrawn}, nil
			},
		}
		router := newWithdrawRouter(svc, self)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/withdraw", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "self@example.com", gotEmail)
	})

	t.Run("returns 400 for an invalid email in the body", func(t *testing.T) {
		router := newWithdrawRouter(&stubAdmissionService{}, admin)

		body := `{"email":"not-an-email"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/withdraw", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("refuses a non-admin withdrawing another contact", func(t *testing.T) {
		router := newWithdrawRouter(&stubAdmissionService{}, self)

		body := `{"email":"other@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/withdraw", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("lets an admin withdraw another contact", func(t *testing.T) {
		var gotEmail string
		svc := &stubAdmissionService{
			withdrawFn: func(_ context.Context, _ uint, email string) (domain.Participant, error) {
				gotEmail = email
				return domain.Participant{Email: email, Status: domain.ParticipantWithdrawn}, nil
			},
		}
		router := newWithdrawRouter(svc, admin)

		body := `{"email":"other@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/withdraw", strings.NewReader(body))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "other@example.com", gotEmail)
	})
}

func TestHandleApprove(t *testing.T) {
	t.Run("returns 409 when the event is at capacity", func(t *testing.T) {
		svc := &stubAdmissionService{
			approveFn: func(context.Context, uint, uint) (domain.Participant, error) {
				return domain.Participant{}, service.ErrCapacityExceeded
			},
		}
		router := newRegisterRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/participants/2/approve", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("returns the approved participant", func(t *testing.T) {
		svc := &stubAdmissionService{
			approveFn: func(_ context.Context, eventID, participantID uint) (domain.Participant, error) {
				return domain.Participant{
					ID:      participantID,
					EventID: eventID,
					Status:  domain.ParticipantApproved,
				}, nil
			},
		}
		router := newRegisterRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/1/participants/2/approve", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"status":"approved"`)
	})
}
