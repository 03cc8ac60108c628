package events

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shareit-app/shareit-server/internal/application"
	bookingDomain "github.com/shareit-app/shareit-server/internal/domain/booking"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
	"github.com/shareit-app/shareit-server/internal/platform/kafka"
)

// ApprovalDecider applies an owner's decision to a booking.
type ApprovalDecider interface {
	SetApproval(ctx context.Context, bookingID, ownerID int64, approved bool) (*application.BookingDTO, error)
}

// ApprovalCommandConsumer listens to booking commands and applies the owner
// decisions they carry.
type ApprovalCommandConsumer struct {
	consumer *kafka.Consumer
	decider  ApprovalDecider
	logger   *zap.Logger
}

// NewApprovalCommandConsumer creates a new ApprovalCommandConsumer.
func NewApprovalCommandConsumer(
	brokers []string,
	groupID string,
	decider ApprovalDecider,
	logger *zap.Logger,
) *ApprovalCommandConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, bookingDomain.TopicBookingCommands, logger)
	return &ApprovalCommandConsumer{
		consumer: consumer,
		decider:  decider,
		logger:   logger,
	}
}

// Start begins consuming booking commands. This blocks until the context is cancelled.
func (c *ApprovalCommandConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *ApprovalCommandConsumer) Close() error {
	return c.consumer.Close()
}

func (c *ApprovalCommandConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from command topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case bookingDomain.CommandApprovalDecided:
		return c.handleApprovalDecided(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled booking command type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *ApprovalCommandConsumer) handleApprovalDecided(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var cmd bookingDomain.ApprovalDecidedCommand
	if err := cloudEvent.ParseData(&cmd); err != nil {
		c.logger.Error("failed to parse ApprovalDecidedCommand data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing approval command",
		zap.Int64("booking_id", cmd.BookingID),
		zap.Int64("owner_id", cmd.OwnerID),
		zap.Bool("approved", cmd.Approved),
	)

	bk, err := c.decider.SetApproval(ctx, cmd.BookingID, cmd.OwnerID, cmd.Approved)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Code != domain.CodeConflict {
			// Business rule violations will fail the same way on redelivery.
			c.logger.Warn("approval command rejected",
				zap.Int64("booking_id", cmd.BookingID),
				zap.String("code", string(appErr.Code)),
				zap.String("reason", appErr.Message),
			)
			return nil
		}
		c.logger.Error("failed to apply approval command",
			zap.Int64("booking_id", cmd.BookingID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("approval command applied",
		zap.Int64("booking_id", bk.ID),
		zap.String("status", bk.Status),
	)
	return nil
}
