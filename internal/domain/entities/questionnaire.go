package entities

import "time"

// QuestionnaireStatus indica o estado do questionário
type QuestionnaireStatus string

const (
	QuestionnaireDraft  QuestionnaireStatus = "draft"
	QuestionnaireActive QuestionnaireStatus = "active"
	QuestionnaireClosed QuestionnaireStatus = "closed"
)

// Questionnaire representa uma pesquisa aplicada por uma organização.
// O vínculo opcional com uma abordagem (ApproachID) determina quais
// templates de relatório se aplicam às respostas coletadas.
type Questionnaire struct {
	Base
	OrganizationID string              `json:"organization_id" gorm:"column:organization_id;type:uuid;index;not null"`
	Title          string              `json:"title" gorm:"column:title;not null"`
	Status         QuestionnaireStatus `json:"status" gorm:"column:status;default:draft"`
	ApproachID     *string             `json:"approach_id,omitempty" gorm:"column:approach_id;type:uuid"`
	StartsAt       *time.Time          `json:"starts_at,omitempty" gorm:"column:starts_at"`
	EndsAt         *time.Time          `json:"ends_at,omitempty" gorm:"column:ends_at"`

	// Relações
	Responses []Response `json:"responses,omitempty" gorm:"foreignKey:QuestionnaireID"`
	Reports   []Report   `json:"reports,omitempty" gorm:"foreignKey:QuestionnaireID"`
}

func (Questionnaire) TableName() string {
	return "questionnaires"
}
