package caserepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"parley-server/services/negotiation-api/internal/domain/legalcase"
	"parley-server/services/negotiation-api/internal/infrastructure/database/entities"
	"parley-server/services/negotiation-api/internal/infrastructure/database/transaction"
	"parley-server/services/negotiation-api/internal/utils/functional"
	"parley-server/services/negotiation-api/internal/utils/platformerrors"
)

// PostgresRepository persists legal cases via GORM.
type PostgresRepository struct {
	db *transaction.Database
}

var _ legalcase.Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *transaction.Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *legalcase.Case) error {
	record := toEntity(c)
	record.LastModified = time.Now()
	if err := r.db.GetTx(ctx).WithContext(ctx).Create(record).Error; err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to create case")
	}
	*c = *toDomain(record)
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uint) (*legalcase.Case, error) {
	var record entities.Case
	err := r.db.GetTx(ctx).WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("case %d not found", id), err, "")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find case")
	}
	return toDomain(&record), nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*legalcase.Case, error) {
	var records []*entities.Case
	if err := r.db.GetTx(ctx).WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list cases")
	}
	return functional.Map(records, toDomain), nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *legalcase.Case) error {
	record := toEntity(c)
	record.LastModified = time.Now()
	result := r.db.GetTx(ctx).WithContext(ctx).Model(&entities.Case{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":          record.Name,
		"party_a":       record.PartyA,
		"party_b":       record.PartyB,
		"context":       record.Context,
		"summary":       record.Summary,
		"last_modified": record.LastModified,
	})
	if result.Error != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to update case")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("case %d not found", c.ID), nil, "")
	}
	c.LastModified = record.LastModified
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.GetTx(ctx).WithContext(ctx).Delete(&entities.Case{}, id)
	if result.Error != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, result.Error, "failed to delete case")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("case %d not found", id), nil, "")
	}
	return nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.GetTx(ctx).WithContext(ctx).Model(&entities.Case{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to check case")
	}
	return count > 0, nil
}

func toEntity(c *legalcase.Case) *entities.Case {
	return &entities.Case{
		ID:           c.ID,
		Name:         c.Name,
		PartyA:       &c.PartyA,
		PartyB:       &c.PartyB,
		Context:      &c.Context,
		Summary:      &c.Summary,
		LastModified: c.LastModified,
	}
}

func toDomain(record *entities.Case) *legalcase.Case {
	c := &legalcase.Case{
		ID:           record.ID,
		Name:         record.Name,
		LastModified: record.LastModified,
	}
	if record.PartyA != nil {
		c.PartyA = *record.PartyA
	}
	if record.PartyB != nil {
		c.PartyB = *record.PartyB
	}
	if record.Context != nil {
		c.Context = *record.Context
	}
	if record.Summary != nil {
		c.Summary = *record.Summary
	}
	return c
}
