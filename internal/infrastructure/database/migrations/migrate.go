package migrations

import (
	"fmt"

	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"gorm.io/gorm"
)

// Migrate applies the schema for the survey and report tables. The unique
// index on (questionnaire_id, template_id) is what keeps one report row per
// pair under concurrent generation.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.Organization{},
		&entities.Approach{},
		&entities.ReportTemplate{},
		&entities.Questionnaire{},
		&entities.Response{},
		&entities.Report{},
	)
	if err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
