package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	itemDomain "github.com/shareit-app/shareit-server/internal/domain/item"
	requestDomain "github.com/shareit-app/shareit-server/internal/domain/request"
	userDomain "github.com/shareit-app/shareit-server/internal/domain/user"
	"github.com/shareit-app/shareit-server/internal/platform/database"
	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

// CreateRequestRequest holds the description of a wanted item.
type CreateRequestRequest struct {
	Description string `json:"description" binding:"required,min=10,max=500"`
}

// ItemRequestDTO is the response representation of an item request together
// with the items offered in answer to it.
type ItemRequestDTO struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	Created     time.Time `json:"created"`
	Items       []ItemDTO `json:"items"`
}

// RequestService manages item requests.
type RequestService struct {
	requests requestDomain.RequestRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	tx       database.Transactor
	logger   *zap.Logger
	now      func() time.Time
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.RequestRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	tx database.Transactor,
	logger *zap.Logger,
	opts ...Option,
) *RequestService {
	o := applyOptions(opts)
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		tx:       tx,
		logger:   logger,
		now:      o.now,
	}
}

// CreateRequest records that requesterID is looking for an item.
func (s *RequestService) CreateRequest(ctx context.Context, requesterID int64, req CreateRequestRequest) (_ *ItemRequestDTO, err error) {
	defer func() { observe("create_request", err) }()

	var r *requestDomain.ItemRequest
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireUser(ctx, requesterID); err != nil {
			return err
		}
		r, err = requestDomain.NewItemRequest(requesterID, req.Description, s.now())
		if err != nil {
			return err
		}
		if err := s.requests.Save(ctx, r); err != nil {
			return fmt.Errorf("failed to save item request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item request created",
		zap.Int64("request_id", r.ID()),
		zap.Int64("requester_id", requesterID),
	)
	return &ItemRequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		RequesterID: r.RequesterID(),
		Created:     r.Created(),
		Items:       []ItemDTO{},
	}, nil
}

// ListOwnRequests returns requesterID's requests, newest first.
func (s *RequestService) ListOwnRequests(ctx context.Context, requesterID int64) ([]ItemRequestDTO, error) {
	var result []ItemRequestDTO
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireUser(ctx, requesterID); err != nil {
			return err
		}
		requests, err := s.requests.FindByRequesterID(ctx, requesterID)
		if err != nil {
			return fmt.Errorf("failed to list item requests: %w", err)
		}
		result, err = s.withItems(ctx, requests)
		return err
	})
	return result, err
}

// ListOtherRequests returns requests made by anyone but userID, newest first.
func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64, from, size int) ([]ItemRequestDTO, error) {
	var result []ItemRequestDTO
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireUser(ctx, userID); err != nil {
			return err
		}
		page, err := domain.NewPage(from, size)
		if err != nil {
			return err
		}
		requests, err := s.requests.FindOthers(ctx, userID, page)
		if err != nil {
			return fmt.Errorf("failed to list item requests: %w", err)
		}
		result, err = s.withItems(ctx, requests)
		return err
	})
	return result, err
}

// GetRequest returns a single request to any registered user.
func (s *RequestService) GetRequest(ctx context.Context, requestID, userID int64) (*ItemRequestDTO, error) {
	var result *ItemRequestDTO
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.requireUser(ctx, userID); err != nil {
			return err
		}
		r, err := s.requests.FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		dtos, err := s.withItems(ctx, []*requestDomain.ItemRequest{r})
		if err != nil {
			return err
		}
		result = &dtos[0]
		return nil
	})
	return result, err
}

func (s *RequestService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return domain.NewNotFoundError("User", userID)
	}
	return nil
}

func (s *RequestService) withItems(ctx context.Context, requests []*requestDomain.ItemRequest) ([]ItemRequestDTO, error) {
	dtos := make([]ItemRequestDTO, len(requests))
	if len(requests) == 0 {
		return dtos, nil
	}

	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID()
	}
	items, err := s.items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load answering items: %w", err)
	}
	byRequest := make(map[int64][]ItemDTO)
	for _, it := range items {
		if it.RequestID() == nil {
			continue
		}
		byRequest[*it.RequestID()] = append(byRequest[*it.RequestID()], toItemDTO(it))
	}

	for i, r := range requests {
		answers := byRequest[r.ID()]
		if answers == nil {
			answers = []ItemDTO{}
		}
		dtos[i] = ItemRequestDTO{
			ID:          r.ID(),
			Description: r.Description(),
			RequesterID: r.RequesterID(),
			Created:     r.Created(),
			Items:       answers,
		}
	}
	return dtos, nil
}
