package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// uniqueViolation é o código SQLSTATE do Postgres para violação de índice único
const uniqueViolation = "23505"

// ReportRepository implementa métodos para acesso a dados de relatórios,
// incluindo a transição condicional de status usada como exclusão mútua
// entre requisições concorrentes de geração.
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository cria uma nova instância de ReportRepository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{
		db: db,
	}
}

// FindByPair busca o relatório de um par (questionário, template).
// Retorna (nil, nil) quando não encontrado.
func (r *ReportRepository) FindByPair(ctx context.Context, questionnaireID, templateID string) (*entities.Report, error) {
	var report entities.Report
	err := r.db.WithContext(ctx).
		Where("questionnaire_id = ? AND template_id = ?", questionnaireID, templateID).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar relatório: %w", err)
	}
	return &report, nil
}

// FindByID busca um relatório pelo id com template e questionário carregados
func (r *ReportRepository) FindByID(ctx context.Context, reportID string) (*entities.Report, error) {
	var report entities.Report
	err := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Questionnaire").
		Where("id = ?", reportID).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar relatório: %w", err)
	}
	return &report, nil
}

// Create persiste um novo relatório. O índice único do par garante que
// chamadas concorrentes não dupliquem a linha; a violação é normalizada em
// gorm.ErrDuplicatedKey para o chamador distingui-la de uma falha do banco.
func (r *ReportRepository) Create(ctx context.Context, report *entities.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pgErr) && pgErr.Code == uniqueViolation) {
			return fmt.Errorf("relatório já existe para o par: %w", gorm.ErrDuplicatedKey)
		}
		return fmt.Errorf("erro ao criar relatório: %w", err)
	}
	return nil
}

// TransitionStatus efetua uma escrita condicional (compare-and-swap) do
// status: só atualiza se o status atual ainda for o esperado. Retorna false
// sem tocar na linha quando outro chamador venceu a corrida.
func (r *ReportRepository) TransitionStatus(ctx context.Context, reportID string, from, to entities.ReportStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("id = ? AND status = ?", reportID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("erro ao transicionar status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ReclaimStale retoma uma linha presa em generating. A condição inclui o
// updated_at observado na leitura: entre dois chamadores que viram a mesma
// linha obsoleta, só o primeiro a escrever encontra a versão intacta.
func (r *ReportRepository) ReclaimStale(ctx context.Context, reportID string, seen time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("id = ? AND status = ? AND updated_at = ?", reportID, entities.ReportGenerating, seen).
		Update("updated_at", time.Now().UTC())
	if result.Error != nil {
		return false, fmt.Errorf("erro ao retomar relatório preso: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SaveComputed persiste em uma única escrita a transição para complete
// junto com os dados computados: nunca há dado computado parcial.
func (r *ReportRepository) SaveComputed(ctx context.Context, reportID string, data datatypes.JSON, responseCount int, generatedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":         entities.ReportComplete,
			"computed_data":  data,
			"response_count": responseCount,
			"generated_at":   generatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("erro ao persistir dados computados: %w", err)
	}
	return nil
}

// SetStatus grava um status sem condição (usado para restaurar o status
// anterior ou marcar erro)
func (r *ReportRepository) SetStatus(ctx context.Context, reportID string, status entities.ReportStatus) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("id = ?", reportID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("erro ao atualizar status: %w", err)
	}
	return nil
}

// ReleaseStale move para error relatórios presos em generating há mais
// tempo que o limite, liberando o par para nova tentativa
func (r *ReportRepository) ReleaseStale(ctx context.Context, threshold time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-threshold)
	result := r.db.WithContext(ctx).
		Model(&entities.Report{}).
		Where("status = ? AND updated_at < ?", entities.ReportGenerating, cutoff).
		Update("status", entities.ReportError)
	if result.Error != nil {
		return 0, fmt.Errorf("erro ao liberar relatórios presos: %w", result.Error)
	}
	return result.RowsAffected, nil
}
