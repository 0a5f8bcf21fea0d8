package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Response representa o conjunto de respostas de um participante a um
// questionário. O payload Answers é um objeto JSON mapeando o id da
// pergunta para o valor respondido (escala numérica, opção ou texto).
// Reenvios do mesmo participante atualizam a linha existente.
type Response struct {
	Base
	QuestionnaireID string         `json:"questionnaire_id" gorm:"column:questionnaire_id;type:uuid;index:idx_responses_pair,priority:1;not null"`
	ParticipantID   string         `json:"participant_id" gorm:"column:participant_id;index:idx_responses_pair,priority:2;not null"`
	Answers         datatypes.JSON `json:"answers" gorm:"column:answers;type:jsonb"`
	SubmittedAt     time.Time      `json:"submitted_at" gorm:"column:submitted_at"`
}

func (Response) TableName() string {
	return "responses"
}
