package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	commentDomain "github.com/shareit-app/shareit-server/internal/domain/comment"
	"github.com/shareit-app/shareit-server/internal/platform/database"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	ItemID   int64     `gorm:"not null;index"`
	AuthorID int64     `gorm:"not null"`
	Text     string    `gorm:"type:varchar(500);not null"`
	Created  time.Time `gorm:"type:timestamptz;not null"`
}

func (CommentModel) TableName() string { return "comments" }

// GormCommentRepository implements CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Save(ctx context.Context, c *commentDomain.Comment) error {
	model := &CommentModel{
		ItemID:   c.ItemID(),
		AuthorID: c.AuthorID(),
		Text:     c.Text(),
		Created:  c.Created(),
	}
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	c.AssignID(model.ID)
	return nil
}

func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*commentDomain.Comment, error) {
	if len(itemIDs) == 0 {
		return []*commentDomain.Comment{}, nil
	}
	var models []CommentModel
	if err := database.Conn(ctx, r.db).
		Where("item_id IN ?", itemIDs).
		Order("created ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	comments := make([]*commentDomain.Comment, len(models))
	for i, m := range models {
		comments[i] = commentDomain.Reconstruct(m.ID, m.ItemID, m.AuthorID, m.Text, m.Created)
	}
	return comments, nil
}
