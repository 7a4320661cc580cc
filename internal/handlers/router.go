package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/internlink/assessment-service/internal/middleware"
	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/services"
)

type HandlerManager struct {
	assessmentHandler *AssessmentHandler
	jwtSecret         string
}

func NewHandlerManager(serviceManager services.ServiceManager, jwtSecret string, logger *slog.Logger) *HandlerManager {
	return &HandlerManager{
		assessmentHandler: NewAssessmentHandler(
			serviceManager.Assessment(),
			serviceManager.Delivery(),
			serviceManager.ImportExport(),
			logger,
		),
		jwtSecret: jwtSecret,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "assessment-service",
		})
	})

	v1 := router.Group("/api/v1")

	// The catalog is public; everything else needs a token.
	v1.GET("/assessments", hm.assessmentHandler.ListAssessments)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(hm.jwtSecret))
	{
		assessments := authed.Group("/assessments")
		{
			assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
			assessments.DELETE("/:id",
				middleware.RequireRoles(models.RoleAdmin, models.RoleCompany),
				hm.assessmentHandler.DeleteAssessment)
			assessments.POST("/create",
				middleware.RequireRoles(models.RoleAdmin, models.RoleCompany),
				hm.assessmentHandler.CreateAssessment)
			assessments.GET("/:id/start",
				middleware.RequireRoles(models.RoleStudent),
				hm.assessmentHandler.StartAssessment)
			assessments.POST("/:id/submit",
				middleware.RequireRoles(models.RoleStudent),
				hm.assessmentHandler.SubmitAssessment)

			assessments.POST("/import",
				middleware.RequireRoles(models.RoleAdmin, models.RoleCompany),
				hm.assessmentHandler.ImportQuestions)
			assessments.GET("/:id/export",
				middleware.RequireRoles(models.RoleAdmin, models.RoleCompany),
				hm.assessmentHandler.ExportAssessment)
		}
	}
}
