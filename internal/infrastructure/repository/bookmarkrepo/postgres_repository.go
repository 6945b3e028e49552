package bookmarkrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"parley-server/services/negotiation-api/internal/domain/bookmark"
	"parley-server/services/negotiation-api/internal/infrastructure/database/entities"
	"parley-server/services/negotiation-api/internal/infrastructure/database/transaction"
	"parley-server/services/negotiation-api/internal/utils/functional"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// PostgresRepository persists bookmarks via GORM.
type PostgresRepository struct {
	db *transaction.Database
}

var _ bookmark.Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *transaction.Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *bookmark.Bookmark) error {
	record := toEntity(b)
	if err := r.db.GetTx(ctx).WithContext(ctx).Create(record).Error; err != nil {
		// The unique index on (simulation_id, message_id) backstops the
		// service-level duplicate check under concurrent creates.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
				"bookmark already exists for this message in this simulation", err, "")
		}
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create bookmark")
	}
	b.ID = record.ID
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*bookmark.Bookmark, error) {
	var record entities.Bookmark
	err := r.db.GetTx(ctx).WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("bookmark %d not found", id), err, "")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find bookmark")
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) FindBySimulation(ctx context.Context, simulationID uint) ([]*bookmark.Bookmark, error) {
	var records []*entities.Bookmark
	err := r.db.GetTx(ctx).WithContext(ctx).
		Where("simulation_id = ?", simulationID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list bookmarks")
	}
	return functional.Map(records, toDomain), nil
}

func (r *PostgresRepository) FindBySimulationAndMessage(ctx context.Context, simulationID, messageID uint) (*bookmark.Bookmark, error) {
	var record entities.Bookmark
	err := r.db.GetTx(ctx).WithContext(ctx).
		Where("simulation_id = ? AND message_id = ?", simulationID, messageID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"bookmark not found", err, "")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find bookmark")
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.GetTx(ctx).WithContext(ctx).Delete(&entities.Bookmark{}, id)
	if result.Error != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to delete bookmark")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("bookmark %d not found", id), nil, "")
	}
	return nil
}

func toEntity(b *bookmark.Bookmark) *entities.Bookmark {
	return &entities.Bookmark{
		ID:           b.ID,
		SimulationID: b.SimulationID,
		MessageID:    b.MessageID,
		Name:         b.Name,
	}
}

func toDomain(record *entities.Bookmark) *bookmark.Bookmark {
	return &bookmark.Bookmark{
		ID:           record.ID,
		SimulationID: record.SimulationID,
		MessageID:    record.MessageID,
		Name:         record.Name,
	}
}
