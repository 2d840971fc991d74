package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/dhanushramudri/events-backend/docs"
	v1 "github.com/dhanushramudri/events-backend/internal/api/handler/v1"
	"github.com/dhanushramudri/events-backend/internal/api/middleware"
	"github.com/dhanushramudri/events-backend/internal/config"
	"github.com/dhanushramudri/events-backend/internal/notifier"
	"github.com/dhanushramudri/events-backend/internal/repository"
	"github.com/dhanushramudri/events-backend/internal/repository/dao"
	"github.com/dhanushramudri/events-backend/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	if conf.API.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	participantHandler := s.initParticipantHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, participantHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	svc := s.initUserService(db)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	handler := v1.NewEventHandler(svc, s.initUserService(db))

	return handler
}

func (s *Server) initParticipantHandler(db *gorm.DB) *v1.ParticipantHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	svc := service.NewAdmissionService(eventRepo, participantRepo, s.initNotifier())
	eSvc := service.NewEventService(eventRepo)
	handler := v1.NewParticipantHandler(svc, eSvc, s.initUserService(db))

	return handler
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))

	return service.NewUserService(userRepo, participantRepo)
}

func (s *Server) initNotifier() notifier.Notifier {
	if s.Config.SMTP.Enabled {
		return notifier.NewSMTPNotifier(s.Config.SMTP)
	}

	return notifier.NewLogNotifier()
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, eventHandler *v1.EventHandler, participantHandler *v1.ParticipantHandler) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
		public.GET("/events/:eventID/occupancy", eventHandler.HandleGetOccupancy)

		public.POST("/events/:eventID/register", participantHandler.HandleRegister)
	}

	users := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		users.GET("/users/:userID", userHandler.HandleGetUser)
		users.GET("/users/me/registrations", userHandler.HandleGetRegistrations)

		users.POST("/events/:eventID/withdraw", participantHandler.HandleWithdraw)
	}

	admin := s.Router.Group(basePath, authenticator.VerifyJWT(), authenticator.RequireAdmin())
	{
		admin.POST("/events", eventHandler.HandleCreateEvent)
		admin.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		admin.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		admin.PATCH("/events/:eventID/auto-approve", eventHandler.HandleToggleAutoApprove)

		admin.GET("/events/:eventID/participants", participantHandler.HandleListParticipants)
		admin.POST("/events/:eventID/participants/:participantID/approve", participantHandler.HandleApprove)
		admin.POST("/events/:eventID/participants/:participantID/reject", participantHandler.HandleReject)
		admin.DELETE("/events/:eventID/participants/:participantID", participantHandler.HandleRemove)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Events Backend API"
	docs.SwaggerInfo.Description = "Capacity-limited event registration with admission and waitlist control."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
