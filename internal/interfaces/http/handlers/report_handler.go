package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/pavani-labs/pulse-survey-api/internal/application/reports"
	"github.com/pavani-labs/pulse-survey-api/internal/application/usecases"
)

// ReportService é a superfície do caso de uso de relatórios consumida pelo
// handler; mantida como interface para permitir stubs nos testes
type ReportService interface {
	GenerateReports(ctx context.Context, organizationID, questionnaireID, templateID string, force bool) ([]usecases.ReportSummary, error)
	GetReport(ctx context.Context, organizationID, reportID string, rendered bool) (*usecases.ReportDetail, error)
}

// ReportHandler lida com requisições de geração e leitura de relatórios
type ReportHandler struct {
	reports ReportService
}

// NewReportHandler cria uma nova instância de ReportHandler
func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{
		reports: reports,
	}
}

// Generate dispara a geração de relatórios de um questionário.
// Sem template_id a geração cobre todos os templates ativos da abordagem
// (lote, com falhas por template isoladas); com template_id os erros de
// pré-condição chegam diretamente ao chamador.
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	organizationID := c.Params("orgId")
	questionnaireID := c.Params("id")
	templateID := c.Query("template_id", "")
	force := c.Query("force", "false") == "true"

	summaries, err := h.reports.GenerateReports(c.UserContext(), organizationID, questionnaireID, templateID, force)
	if err != nil {
		return reportError(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": summaries,
	})
}

// GetReport retorna a visão completa de um relatório; com rendered=true a
// árvore de apresentação do tipo do template é incluída
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	organizationID := c.Params("orgId")
	reportID := c.Params("reportId")
	rendered := c.Query("rendered", "false") == "true"

	detail, err := h.reports.GetReport(c.UserContext(), organizationID, reportID, rendered)
	if err != nil {
		return reportError(c, err)
	}

	return c.JSON(detail)
}

// reportError traduz a taxonomia de erros do core para códigos HTTP.
// Falhas internas não vazam detalhe para o chamador; o contexto completo
// já foi registrado pelo gerador.
func reportError(c *fiber.Ctx, err error) error {
	var insufficient *reports.InsufficientDataError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": insufficient.Error(),
			"count": insufficient.Count,
			"floor": insufficient.Floor,
		})
	}

	var notFound *reports.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	}

	if errors.Is(err, reports.ErrGenerationInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":               "report generation already in progress, retry shortly",
			"retry_after_seconds": 5,
		})
	}

	var configuration *reports.ConfigurationError
	if errors.As(err, &configuration) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": configuration.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error generating report"})
}
