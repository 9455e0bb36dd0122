package marketplace

import (
	"context"
	"fmt"

	marketplacehttp "estatehub/internal/marketplace/adapter/http"
	"estatehub/internal/marketplace/adapter/persistence"
	"estatehub/internal/marketplace/adapter/persistence/mongodb"
	"estatehub/internal/marketplace/config"
	"estatehub/internal/marketplace/domain/repository"
	"estatehub/internal/marketplace/usecase"
	"estatehub/internal/shared/eventbus"
	"estatehub/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MarketplaceModule wires projects, appointments, favourites and the status
// summary together.
type MarketplaceModule struct {
	projects     repository.ProjectRepository
	appointments repository.AppointmentRepository

	appointmentUC *usecase.AppointmentUsecase
	projectUC     *usecase.ProjectUsecase
	favouritesUC  *usecase.FavouritesUsecase
	statusUC      *usecase.StatusUsecase

	appointmentHandler *marketplacehttp.AppointmentHTTPHandler
	projectHandler     *marketplacehttp.ProjectHTTPHandler
	favouritesHandler  *marketplacehttp.FavouritesHTTPHandler
	statusHandler      *marketplacehttp.StatusHTTPHandler
}

// NewMarketplaceModule builds the module. propertyIndex may be nil; project
// resolution then always queries MongoDB.
func NewMarketplaceModule(
	db *mongo.Database,
	cfg *config.Config,
	bus eventbus.EventBusInterface,
	propertyIndex repository.PropertyIndex,
	log logger.Logger,
) (*MarketplaceModule, error) {
	projectRepo, err := mongodb.NewMongoProjectRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create project repository: %w", err)
	}
	appointmentRepo, err := mongodb.NewMongoAppointmentRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment repository: %w", err)
	}
	favouritesRepo := mongodb.NewMongoFavouritesRepository(db)
	statusRepo := mongodb.NewMongoStatusRepository(db)

	var projects repository.ProjectRepository = projectRepo
	if propertyIndex != nil {
		projects = persistence.NewIndexedProjectRepository(projectRepo, propertyIndex)
		registerIndexInvalidation(bus, propertyIndex)
	}

	appointmentUC := usecase.NewAppointmentUsecase(appointmentRepo, projects, log)
	projectUC := usecase.NewProjectUsecase(projects, bus, log)
	favouritesUC := usecase.NewFavouritesUsecase(favouritesRepo, projects, log)
	statusUC := usecase.NewStatusUsecase(projects, statusRepo, log)

	return &MarketplaceModule{
		projects:           projects,
		appointments:       appointmentRepo,
		appointmentUC:      appointmentUC,
		projectUC:          projectUC,
		favouritesUC:       favouritesUC,
		statusUC:           statusUC,
		appointmentHandler: marketplacehttp.NewAppointmentHTTPHandler(appointmentUC),
		projectHandler:     marketplacehttp.NewProjectHTTPHandler(projectUC),
		favouritesHandler:  marketplacehttp.NewFavouritesHTTPHandler(favouritesUC),
		statusHandler:      marketplacehttp.NewStatusHTTPHandler(statusUC),
	}, nil
}

// registerIndexInvalidation drops cached property resolutions whenever a
// project's property set changes.
func registerIndexInvalidation(bus eventbus.EventBusInterface, index repository.PropertyIndex) {
	if bus == nil {
		return
	}
	invalidate := func(ctx context.Context, event eventbus.Event) error {
		if projectID, ok := event.Data().(primitive.ObjectID); ok {
			index.InvalidateProject(ctx, projectID)
		}
		return nil
	}
	bus.Subscribe(usecase.EventProjectUpdated, invalidate)
	bus.Subscribe(usecase.EventProjectDeleted, invalidate)
}

// RegisterRoutes registers all marketplace routes under the given router.
func (m *MarketplaceModule) RegisterRoutes(router fiber.Router, guard marketplacehttp.AuthGuard) {
	m.appointmentHandler.SetupRoutes(router, guard)
	m.projectHandler.SetupRoutes(router, guard)
	m.favouritesHandler.SetupRoutes(router, guard)
	m.statusHandler.SetupRoutes(router, guard)
}

// GetAppointmentUsecase exposes the appointment workflow for other modules.
func (m *MarketplaceModule) GetAppointmentUsecase() usecase.AppointmentUsecaseInterface {
	return m.appointmentUC
}
