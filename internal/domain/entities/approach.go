package entities

import "gorm.io/datatypes"

// Approach representa um blueprint reutilizável de pesquisa que agrupa
// uma estrutura de questionário e seus templates de relatório
type Approach struct {
	Base
	Name        string `json:"name" gorm:"column:name;not null"`
	Description string `json:"description" gorm:"column:description"`

	// Relações
	Templates []ReportTemplate `json:"templates,omitempty" gorm:"foreignKey:ApproachID"`
}

func (Approach) TableName() string {
	return "approaches"
}

// ReportType identifica a variante de visualização de um template.
// O conjunto é fechado: tipos desconhecidos falham no dispatch de
// renderização em vez de cair em um renderer padrão.
type ReportType string

const (
	ReportTypeFlower       ReportType = "flower"
	ReportTypeSummary      ReportType = "summary"
	ReportTypeDistribution ReportType = "distribution"
)

// ReportTemplate é a configuração de um relatório dentro de uma abordagem.
// Templates inativos são ignorados pela geração em lote.
type ReportTemplate struct {
	Base
	ApproachID string         `json:"approach_id" gorm:"column:approach_id;type:uuid;index;not null"`
	Name       string         `json:"name" gorm:"column:name;not null"`
	Type       ReportType     `json:"type" gorm:"column:type;not null"`
	Config     datatypes.JSON `json:"config" gorm:"column:config;type:jsonb"`
	IsActive   bool           `json:"is_active" gorm:"column:is_active;default:true"`
	Position   int            `json:"position" gorm:"column:position;default:0"`
}

func (ReportTemplate) TableName() string {
	return "report_templates"
}
