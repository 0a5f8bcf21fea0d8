package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// SetupMiddlewares registra os middlewares globais da aplicação
func SetupMiddlewares(app *fiber.App) {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	app.Use(PerformanceLogger())
}

// RouteGroups define os grupos de rotas da API
type RouteGroups struct {
	Public       fiber.Router
	Organization fiber.Router
	Participant  fiber.Router
}

// SetupRouteGroups configura os grupos de rotas com seus respectivos middlewares
func SetupRouteGroups(app *fiber.App) RouteGroups {
	// Grupo público (health, emissão de links)
	public := app.Group("/")

	// Grupo de organização (token de membro, escopo por :orgId)
	organization := app.Group("/organizations/:orgId")
	organization.Use(RequireMember())

	// Grupo de participante (token de acesso restrito ao questionário do
	// próprio token; o :id no prefixo permite ao middleware conferir o escopo)
	participant := app.Group("/participant/questionnaires/:id")
	participant.Use(RequireParticipant())

	return RouteGroups{
		Public:       public,
		Organization: organization,
		Participant:  participant,
	}
}
