package routes

import (
	"github.com/pavani-labs/pulse-survey-api/internal/application/reports"
	"github.com/pavani-labs/pulse-survey-api/internal/application/usecases"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/repositories"
	"github.com/pavani-labs/pulse-survey-api/internal/infrastructure/cache"
	"github.com/pavani-labs/pulse-survey-api/internal/interfaces/http/handlers"
	"github.com/pavani-labs/pulse-survey-api/internal/interfaces/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"gorm.io/gorm"
)

// SetupRoutes monta repositórios, casos de uso e handlers sobre a conexão
// e registra as rotas nos grupos de autenticação
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Add performance middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Add ETag support for efficient caching
	app.Use(etag.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Repositories
	questionnaireRepo := repositories.NewQuestionnaireRepository(db)
	responseRepo := repositories.NewResponseRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	templateRepo := repositories.NewReportTemplateRepository(db)
	reportStore := repositories.NewReportStore(db)

	// Core
	generator := reports.NewGenerator(reportStore, nil)
	reportCache := cache.New()

	// Use Cases
	reportUseCase := usecases.NewReportUseCase(generator, reportRepo, reportCache)
	questionnaireUseCase := usecases.NewQuestionnaireUseCase(questionnaireRepo, responseRepo)
	responseUseCase := usecases.NewResponseUseCase(questionnaireRepo, responseRepo)
	templateUseCase := usecases.NewTemplateUseCase(templateRepo)

	// Handlers
	reportHandler := handlers.NewReportHandler(reportUseCase)
	questionnaireHandler := handlers.NewQuestionnaireHandler(questionnaireUseCase)
	responseHandler := handlers.NewResponseHandler(responseUseCase)
	templateHandler := handlers.NewTemplateHandler(templateUseCase)

	// Routes
	groups := middleware.SetupRouteGroups(app)

	// Questionnaire routes (escopo de organização)
	groups.Organization.Post("/questionnaires", questionnaireHandler.Create)
	groups.Organization.Get("/questionnaires", questionnaireHandler.List)
	groups.Organization.Get("/questionnaires/:id", questionnaireHandler.Get)

	// Report routes
	groups.Organization.Post("/questionnaires/:id/reports/generate", reportHandler.Generate)
	groups.Organization.Get("/reports/:reportId", reportHandler.GetReport)
	groups.Organization.Get("/approaches/:approachId/templates", templateHandler.List)

	// Participant routes (token de acesso)
	groups.Participant.Post("/responses", responseHandler.Submit)
}
