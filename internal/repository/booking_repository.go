package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	"github.com/shareit-app/shareit-server/internal/platform/database"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ItemID    int64     `gorm:"not null;index"`
	BookerID  int64     `gorm:"not null;index"`
	StartAt   time.Time `gorm:"column:start_at;type:timestamptz;not null"`
	EndAt     time.Time `gorm:"column:end_at;type:timestamptz;not null"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// ExistsByID reports whether a booking with the id is stored.
func (r *GormBookingRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&BookingModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check booking: %w", err)
	}
	return count > 0, nil
}

// Find translates filter into a single query over bookings. The owner view
// joins items to resolve ownership.
func (r *GormBookingRepository) Find(ctx context.Context, f bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	q := database.Conn(ctx, r.db).Model(&BookingModel{}).Select("bookings.*")

	switch f.Role {
	case bookingDomain.RoleBooker:
		q = q.Where("bookings.booker_id = ?", f.ViewerID)
	case bookingDomain.RoleItemOwner:
		q = q.Joins("JOIN items ON items.id = bookings.item_id").
			Where("items.owner_id = ?", f.ViewerID)
	}
	if len(f.ItemIDs) > 0 {
		q = q.Where("bookings.item_id IN ?", f.ItemIDs)
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = s.String()
		}
		q = q.Where("bookings.status IN ?", statuses)
	}
	if f.StartBefore != nil {
		q = q.Where("bookings.start_at < ?", *f.StartBefore)
	}
	if f.StartAfter != nil {
		q = q.Where("bookings.start_at > ?", *f.StartAfter)
	}
	if f.EndBefore != nil {
		q = q.Where("bookings.end_at < ?", *f.EndBefore)
	}
	if f.EndAfter != nil {
		q = q.Where("bookings.end_at > ?", *f.EndAfter)
	}

	dir := "DESC"
	if f.Order == bookingDomain.OrderStartAsc {
		dir = "ASC"
	}
	q = q.Order("bookings.start_at " + dir).Order("bookings.id " + dir)

	if f.Page != nil {
		q = q.Offset(f.Page.Offset()).Limit(f.Page.Limit())
	}

	var models []BookingModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// Save persists a new booking and assigns the generated id.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// IncrementVersion has already run, so the stored row holds version-1.
	expectedVersion := bk.Version() - 1
	result := database.Conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"start_at":   model.StartAt,
			"end_at":     model.EndAt,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		StartAt:   bk.Start(),
		EndAt:     bk.End(),
		Status:    bk.Status().String(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ItemID,
		m.BookerID,
		m.StartAt.UTC(),
		m.EndAt.UTC(),
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
