package messagerepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"parley-server/services/negotiation-api/internal/domain/message"
	"parley-server/services/negotiation-api/internal/infrastructure/database/entities"
	"parley-server/services/negotiation-api/internal/infrastructure/database/transaction"
	"parley-server/services/negotiation-api/internal/utils/functional"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// PostgresRepository persists dialogue-tree messages via GORM.
type PostgresRepository struct {
	db *transaction.Database
}

var _ message.Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *transaction.Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the message; the bigserial primary key guarantees the
// strictly increasing id order the tree relies on.
func (r *PostgresRepository) Create(ctx context.Context, msg *message.Message) error {
	record := toEntity(msg)
	if err := r.db.GetTx(ctx).WithContext(ctx).Create(record).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create message")
	}
	msg.ID = record.ID
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*message.Message, error) {
	var record entities.Message
	err := r.db.GetTx(ctx).WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("message %d not found", id), err, "")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find message")
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) FindBySimulation(ctx context.Context, simulationID uint) ([]*message.Message, error) {
	var records []*entities.Message
	err := r.db.GetTx(ctx).WithContext(ctx).
		Where("simulation_id = ?", simulationID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list simulation messages")
	}
	return functional.Map(records, toDomain), nil
}

func (r *PostgresRepository) FindChildren(ctx context.Context, parentID uint) ([]*message.Message, error) {
	var records []*entities.Message
	err := r.db.GetTx(ctx).WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list children")
	}
	return functional.Map(records, toDomain), nil
}

func (r *PostgresRepository) FindSiblings(ctx context.Context, simulationID uint, parentID *uint) ([]*message.Message, error) {
	query := r.db.GetTx(ctx).WithContext(ctx).Where("simulation_id = ?", simulationID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var records []*entities.Message
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list siblings")
	}
	return functional.Map(records, toDomain), nil
}

func (r *PostgresRepository) FindSelectedInRange(ctx context.Context, startID, endID uint) ([]*message.Message, error) {
	var records []*entities.Message
	err := r.db.GetTx(ctx).WithContext(ctx).
		Where("selected = ? AND id >= ? AND id <= ?", true, startID, endID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to query selected range")
	}
	return functional.Map(records, toDomain), nil
}

func (r *PostgresRepository) MarkSelected(ctx context.Context, id uint) (*message.Message, error) {
	tx := r.db.GetTx(ctx).WithContext(ctx)
	result := tx.Model(&entities.Message{}).Where("id = ?", id).Update("selected", true)
	if result.Error != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to mark message selected")
	}
	if result.RowsAffected == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("message %d not found", id), nil, "")
	}
	return r.FindByID(ctx, id)
}

func (r *PostgresRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.GetTx(ctx).WithContext(ctx).Delete(&entities.Message{}, ids)
	if result.Error != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to delete messages")
	}
	return result.RowsAffected, nil
}

func (r *PostgresRepository) DeleteAfter(ctx context.Context, simulationID uint, cutoff uint) (int64, error) {
	result := r.db.GetTx(ctx).WithContext(ctx).
		Where("simulation_id = ? AND id > ?", simulationID, cutoff).
		Delete(&entities.Message{})
	if result.Error != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to delete messages after cutoff")
	}
	return result.RowsAffected, nil
}

func (r *PostgresRepository) CountBySimulation(ctx context.Context, simulationID uint) (int64, error) {
	var count int64
	err := r.db.GetTx(ctx).WithContext(ctx).
		Model(&entities.Message{}).
		Where("simulation_id = ?", simulationID).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to count simulation messages")
	}
	return count, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.GetTx(ctx).WithContext(ctx).Model(&entities.Message{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to check message")
	}
	return count > 0, nil
}

func toEntity(msg *message.Message) *entities.Message {
	return &entities.Message{
		ID:           msg.ID,
		Content:      msg.Content,
		Role:         string(msg.Role),
		Selected:     msg.Selected,
		SimulationID: msg.SimulationID,
		ParentID:     msg.ParentID,
	}
}

func toDomain(record *entities.Message) *message.Message {
	return &message.Message{
		ID:           record.ID,
		ParentID:     record.ParentID,
		Role:         message.Role(record.Role),
		Content:      record.Content,
		Selected:     record.Selected,
		SimulationID: record.SimulationID,
	}
}
