package entities

// Organization representa uma organização (tenant) no sistema
type Organization struct {
	Base
	Name string `json:"name" gorm:"column:name;not null"`

	// Relações
	Questionnaires []Questionnaire `json:"questionnaires,omitempty" gorm:"foreignKey:OrganizationID"`
}

func (Organization) TableName() string {
	return "organizations"
}
