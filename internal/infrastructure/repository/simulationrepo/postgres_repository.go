package simulationrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"parley-server/services/negotiation-api/internal/domain/simulation"
	"parley-server/services/negotiation-api/internal/infrastructure/database/entities"
	"parley-server/services/negotiation-api/internal/infrastructure/database/transaction"
	"parley-server/services/negotiation-api/internal/utils/functional"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// PostgresRepository persists simulations via GORM.
type PostgresRepository struct {
	db *transaction.Database
}

var _ simulation.Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *transaction.Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, sim *simulation.Simulation) error {
	record := toEntity(sim)
	if err := r.db.GetTx(ctx).WithContext(ctx).Create(record).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create simulation")
	}
	*sim = *toDomain(record)
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*simulation.Simulation, error) {
	var record entities.Simulation
	err := r.db.GetTx(ctx).WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("simulation %d not found", id), err, "")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find simulation")
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) FindByCase(ctx context.Context, caseID uint) ([]*simulation.Simulation, error) {
	var records []*entities.Simulation
	err := r.db.GetTx(ctx).WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list case simulations")
	}
	return functional.Map(records, toDomain), nil
}

func (r *PostgresRepository) CountByCase(ctx context.Context, caseID uint) (int64, error) {
	var count int64
	err := r.db.GetTx(ctx).WithContext(ctx).
		Model(&entities.Simulation{}).
		Where("case_id = ?", caseID).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to count case simulations")
	}
	return count, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.GetTx(ctx).WithContext(ctx).Delete(&entities.Simulation{}, id)
	if result.Error != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to delete simulation")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("simulation %d not found", id), nil, "")
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.GetTx(ctx).WithContext(ctx).Model(&entities.Simulation{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to check simulation")
	}
	return count > 0, nil
}

func toEntity(sim *simulation.Simulation) *entities.Simulation {
	return &entities.Simulation{
		ID:        sim.ID,
		Headline:  sim.Headline,
		Brief:     sim.Brief,
		CreatedAt: sim.CreatedAt,
		CaseID:    sim.CaseID,
	}
}

func toDomain(record *entities.Simulation) *simulation.Simulation {
	return &simulation.Simulation{
		ID:        record.ID,
		Headline:  record.Headline,
		Brief:     record.Brief,
		CreatedAt: record.CreatedAt,
		CaseID:    record.CaseID,
	}
}
