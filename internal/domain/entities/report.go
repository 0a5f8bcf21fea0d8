package entities

import (
	"time"

	"gorm.io/datatypes"
)

// ReportStatus é a máquina de estados do relatório:
// pending -> generating -> complete | error
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportGenerating ReportStatus = "generating"
	ReportComplete   ReportStatus = "complete"
	ReportError      ReportStatus = "error"
)

// Report é o artefato gerado para um par (questionário, template).
// Existe no máximo uma linha por par; a geração cria ou atualiza in place.
// ComputedData só é persistido junto com a transição para complete.
type Report struct {
	Base
	QuestionnaireID string         `json:"questionnaire_id" gorm:"column:questionnaire_id;type:uuid;uniqueIndex:idx_reports_pair,priority:1;not null"`
	TemplateID      string         `json:"template_id" gorm:"column:template_id;type:uuid;uniqueIndex:idx_reports_pair,priority:2;not null"`
	Status          ReportStatus   `json:"status" gorm:"column:status;default:pending"`
	ComputedData    datatypes.JSON `json:"computed_data,omitempty" gorm:"column:computed_data;type:jsonb"`
	GeneratedAt     *time.Time     `json:"generated_at,omitempty" gorm:"column:generated_at"`
	ResponseCount   int            `json:"response_count" gorm:"column:response_count;default:0"`

	// Relações
	Template      ReportTemplate `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
	Questionnaire Questionnaire  `json:"questionnaire,omitempty" gorm:"foreignKey:QuestionnaireID"`
}

func (Report) TableName() string {
	return "reports"
}
