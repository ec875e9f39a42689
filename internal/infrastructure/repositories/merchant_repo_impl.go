package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/infrastructure/models"
	"merchant-crm.backend/pkg/utils"
)

// MerchantRepository implements merchant data operations
type MerchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func (r *MerchantRepository) toEntity(m *models.Merchant) *entities.Merchant {
	e := &entities.Merchant{
		ID:            m.ID,
		Name:          m.Name,
		Category:      entities.MerchantCategory(m.Category),
		City:          m.City,
		ContactName:   m.ContactName,
		ContactPhone:  m.ContactPhone,
		CreatedBy:     m.CreatedBy,
		AssignedRepID: m.AssignedRepID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.District != "" {
		e.District.SetValid(m.District)
	}
	if m.Address != "" {
		e.Address.SetValid(m.Address)
	}
	if m.ContactEmail != "" {
		e.ContactEmail.SetValid(m.ContactEmail)
	}
	if m.DeletedAt.Valid {
		e.DeletedAt = null.TimeFrom(m.DeletedAt.Time)
	}
	return e
}

func (r *MerchantRepository) toModel(e *entities.Merchant) *models.Merchant {
	return &models.Merchant{
		ID:            e.ID,
		Name:          e.Name,
		Category:      string(e.Category),
		City:          e.City,
		District:      e.District.String,
		Address:       e.Address.String,
		ContactName:   e.ContactName,
		ContactPhone:  e.ContactPhone,
		ContactEmail:  e.ContactEmail.String,
		CreatedBy:     e.CreatedBy,
		AssignedRepID: e.AssignedRepID,
	}
}

// Create creates a new merchant
func (r *MerchantRepository) Create(ctx context.Context, merchant *entities.Merchant) error {
	if merchant.ID == uuid.Nil {
		merchant.ID = utils.GenerateUUIDv7()
	}
	m := r.toModel(merchant)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	merchant.CreatedAt = m.CreatedAt
	merchant.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a merchant by ID
func (r *MerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error) {
	var m models.Merchant
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update updates a merchant profile
func (r *MerchantRepository) Update(ctx context.Context, merchant *entities.Merchant) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", merchant.ID).
		Updates(map[string]interface{}{
			"name":          merchant.Name,
			"category":      string(merchant.Category),
			"city":          merchant.City,
			"district":      merchant.District.String,
			"address":       merchant.Address.String,
			"contact_name":  merchant.ContactName,
			"contact_phone": merchant.ContactPhone,
			"contact_email": merchant.ContactEmail.String,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// AssignRep sets the canonical assigned rep for a merchant
func (r *MerchantRepository) AssignRep(ctx context.Context, id, repID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Merchant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_rep_id": repID,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SoftDelete soft deletes a merchant
func (r *MerchantRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Merchant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists merchants with pagination
func (r *MerchantRepository) List(ctx context.Context, limit, offset int) ([]*entities.Merchant, int, error) {
	return r.list(ctx, nil, limit, offset)
}

// ListByAssignedRep lists merchants assigned to the given rep with pagination
func (r *MerchantRepository) ListByAssignedRep(ctx context.Context, repID uuid.UUID, limit, offset int) ([]*entities.Merchant, int, error) {
	return r.list(ctx, &repID, limit, offset)
}

func (r *MerchantRepository) list(ctx context.Context, repID *uuid.UUID, limit, offset int) ([]*entities.Merchant, int, error) {
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Model(&models.Merchant{})
	if repID != nil {
		q = q.Where("assigned_rep_id = ?", *repID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Merchant
	find := q.Order("created_at DESC")
	if limit > 0 {
		find = find.Limit(limit).Offset(offset)
	}
	if err := find.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Merchant, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, int(total), nil
}
