package v1

import (
	"log"

	"talentbridge/internal/config"
	"talentbridge/internal/database"
	"talentbridge/internal/delivery/http/handler"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/pkg/jwt"
	"talentbridge/internal/repository"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, db database.DB, cache usecase.MatchCache, logger *log.Logger) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	candidateRepo := repository.NewPostgresCandidateRepository(db)
	jobRepo := repository.NewPostgresJobRepository(db)
	matchRepo := repository.NewPostgresMatchRepository(db)
	applicationRepo := repository.NewPostgresApplicationRepository(db)
	messageRepo := repository.NewPostgresMessageRepository(db)
	notificationRepo := repository.NewPostgresNotificationRepository(db)

	// The notification usecase doubles as the event sink for every other
	// usecase: domain events become stored notifications.
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, jobRepo, cfg.Notification.DedupBucket, logger)
	matchingUC := usecase.NewMatchingUsecase(candidateRepo, jobRepo, matchRepo, notificationRepo, cache, notificationUC)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, matchingUC, notificationUC)
	messageUC := usecase.NewMessageUsecase(messageRepo, matchRepo, jobRepo, notificationUC)

	matchHandler := handler.NewMatchHandler(matchingUC)
	applicationHandler := handler.NewApplicationHandler(applicationUC)
	messageHandler := handler.NewMessageHandler(messageUC)
	notificationHandler := handler.NewNotificationHandler(notificationUC)

	protected := r.Group("", authMw.Middleware())
	candidateOnly := protected.Group("", middleware.RequireRole(match.RoleCandidate))
	companyOnly := protected.Group("", middleware.RequireRole(match.RoleCompany))

	matchHandler.RegisterRoutes(protected, candidateOnly, companyOnly)
	applicationHandler.RegisterRoutes(protected, candidateOnly, companyOnly)
	messageHandler.RegisterRoutes(protected)
	notificationHandler.RegisterRoutes(protected)
}
