package wishlist

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

var ErrInvalidInput = errors.New("invalid wishlist input")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Toggle flips the wishlist membership of a product and reports whether the
// product is on the list afterwards. Adding an already-present product or
// removing an absent one is a safe no-op, not an error.
func (s *Service) Toggle(ctx context.Context, ownerID, productID string) (bool, error) {
	if ownerID == "" || productID == "" {
		return false, fmt.Errorf("%w: owner id and product id required", ErrInvalidInput)
	}

	present, err := s.repo.Contains(ctx, ownerID, productID)
	if err != nil {
		log.Printf("wishlist contains error: %v \n", err)
		return false, err
	}

	if present {
		if err := s.repo.Remove(ctx, ownerID, productID); err != nil {
			log.Printf("wishlist remove error: %v \n", err)
			return true, err
		}
		return false, nil
	}

	if err := s.repo.Add(ctx, ownerID, productID); err != nil {
		log.Printf("wishlist add error: %v \n", err)
		return false, err
	}
	return true, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]domain.WishlistEntry, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	return s.repo.List(ctx, ownerID)
}

func (s *Service) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	return s.repo.Clear(ctx, ownerID)
}
