package services

import (
	"log/slog"

	"github.com/internlink/assessment-service/internal/cache"
	"github.com/internlink/assessment-service/internal/events"
	"github.com/internlink/assessment-service/internal/repositories"
	"github.com/internlink/assessment-service/internal/validator"
)

// ServiceManager wires the service layer once and hands handlers a single
// dependency to hold on to.
type ServiceManager interface {
	Assessment() AssessmentService
	Delivery() DeliveryService
	ImportExport() ImportExportService
}

type serviceManager struct {
	assessmentService   AssessmentService
	deliveryService     DeliveryService
	importExportService ImportExportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) ServiceManager {
	return &serviceManager{
		assessmentService:   NewAssessmentService(repo, cacheService, logger, v),
		deliveryService:     NewDeliveryService(repo, publisher, logger),
		importExportService: NewImportExportService(repo, logger),
	}
}

func (sm *serviceManager) Assessment() AssessmentService {
	return sm.assessmentService
}

func (sm *serviceManager) Delivery() DeliveryService {
	return sm.deliveryService
}

func (sm *serviceManager) ImportExport() ImportExportService {
	return sm.importExportService
}
