package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	requestDomain "github.com/shareit-app/shareit-server/internal/domain/request"
	"github.com/shareit-app/shareit-server/internal/platform/database"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// RequestModel is the GORM model for the requests table.
type RequestModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	RequesterID int64     `gorm:"not null;index"`
	Description string    `gorm:"type:varchar(500);not null"`
	Created     time.Time `gorm:"type:timestamptz;not null"`
}

func (RequestModel) TableName() string { return "requests" }

// GormRequestRepository implements RequestRepository using GORM.
type GormRequestRepository struct {
	db *gorm.DB
}

func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

func (r *GormRequestRepository) FindByID(ctx context.Context, id int64) (*requestDomain.ItemRequest, error) {
	var model RequestModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("ItemRequest", id)
		}
		return nil, fmt.Errorf("failed to find item request: %w", err)
	}
	return toRequestDomain(&model), nil
}

func (r *GormRequestRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&RequestModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check item request: %w", err)
	}
	return count > 0, nil
}

func (r *GormRequestRepository) FindByRequesterID(ctx context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	if err := database.Conn(ctx, r.db).
		Where("requester_id = ?", requesterID).
		Order("created DESC, id DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find item requests: %w", err)
	}
	return toRequestDomains(models), nil
}

func (r *GormRequestRepository) FindOthers(ctx context.Context, userID int64, page domain.Page) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	if err := database.Conn(ctx, r.db).
		Where("requester_id <> ?", userID).
		Order("created DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find item requests: %w", err)
	}
	return toRequestDomains(models), nil
}

func (r *GormRequestRepository) Save(ctx context.Context, req *requestDomain.ItemRequest) error {
	model := &RequestModel{
		RequesterID: req.RequesterID(),
		Description: req.Description(),
		Created:     req.Created(),
	}
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save item request: %w", err)
	}
	req.AssignID(model.ID)
	return nil
}

func toRequestDomain(m *RequestModel) *requestDomain.ItemRequest {
	return requestDomain.Reconstruct(m.ID, m.RequesterID, m.Description, m.Created)
}

func toRequestDomains(models []RequestModel) []*requestDomain.ItemRequest {
	out := make([]*requestDomain.ItemRequest, len(models))
	for i := range models {
		out[i] = toRequestDomain(&models[i])
	}
	return out
}
