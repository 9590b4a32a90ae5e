package service

import (
	"context"
	"errors"

	"glimpse/internal/models"
	"glimpse/internal/repository"

	"gorm.io/gorm"
)

type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uint) (*models.Friendship, error) {
	if senderID == receiverID {
		return nil, models.NewValidationError("You cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", receiverID)
		}
		return nil, err
	}

	existing, err := s.friendRepo.GetBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsAccepted {
			return nil, models.NewValidationError("You are already friends")
		}
		return nil, models.NewValidationError("A friend request already exists")
	}

	friendship := &models.Friendship{SenderID: senderID, ReceiverID: receiverID}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}
	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// AcceptRequest marks a pending request accepted. Only the receiver may accept.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Friend request", requestID)
		}
		return nil, err
	}

	if friendship.ReceiverID != userID {
		return nil, models.NewUnauthorizedError("You can only accept requests sent to you")
	}
	if friendship.IsAccepted {
		return nil, models.NewValidationError("Friend request already accepted")
	}

	if err := s.friendRepo.Accept(ctx, requestID); err != nil {
		return nil, err
	}
	return s.friendRepo.GetByID(ctx, requestID)
}

// ListFriends returns the accepted friends of userID as users, each friendship
// mapped to the side that is not userID.
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]*models.User, error) {
	friendships, err := s.friendRepo.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]*models.User, 0, len(friendships))
	for _, f := range friendships {
		if f.SenderID == userID {
			friends = append(friends, &f.Receiver)
		} else {
			friends = append(friends, &f.Sender)
		}
	}
	return friends, nil
}

func (s *FriendService) ListPendingRequests(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	return s.friendRepo.ListPending(ctx, userID)
}

// RemoveFriend deletes a friendship or pending request. Either participant
// may remove it.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendshipID uint) error {
	friendship, err := s.friendRepo.GetByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Friendship", friendshipID)
		}
		return err
	}

	if friendship.SenderID != userID && friendship.ReceiverID != userID {
		return models.NewUnauthorizedError("You are not part of this friendship")
	}

	return s.friendRepo.Delete(ctx, friendshipID)
}

func (s *FriendService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.Search(ctx, query, limit)
}
