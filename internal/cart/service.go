package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vipinyadav01/zero-fashion/internal/cache"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidInput = errors.New("invalid cart input")

type Service struct {
	repo  Repository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache cache.CartCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// Get returns the owner's cart. An owner without a stored cart gets an empty
// one, never a not-found error.
func (s *Service) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}

	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(ownerID, func() (interface{}, error) {

		cached, err := s.cache.Get(ctx, ownerID)
		if err == nil {
			return cached, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		stored, errGet := s.repo.GetCart(ctx, ownerID)
		if errGet != nil && errors.Is(errGet, ErrCartNotFound) {
			return domain.NewCart(ownerID), nil
		}
		if errGet != nil {
			return nil, errGet // err from repo is not cache miss, return it
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), ownerID, stored)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return stored, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// Add increments the quantity of (product, size) by one, creating the entry
// if absent.
func (s *Service) Add(ctx context.Context, ownerID, productID, size string) error {
	if err := validateEntry(ownerID, productID, size); err != nil {
		return err
	}

	errAdd := s.repo.AddItem(ctx, ownerID, productID, size)
	if errAdd != nil {
		log.Printf("repo add item error: %v \n", errAdd)
		return errAdd
	}

	s.invalidateCache(ownerID)
	return nil
}

// SetQuantity sets the quantity of (product, size); zero removes the entry.
func (s *Service) SetQuantity(ctx context.Context, ownerID, productID, size string, quantity int) error {
	if err := validateEntry(ownerID, productID, size); err != nil {
		return err
	}
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}

	errUpdate := s.repo.SetQuantity(ctx, ownerID, productID, size, quantity)
	if errUpdate != nil && !errors.Is(errUpdate, ErrCartNotFound) {
		log.Printf("repo set quantity error: %v \n", errUpdate)
		return errUpdate
	}

	s.invalidateCache(ownerID)
	return nil
}

// Clear removes the owner's cart entirely. Clearing an absent cart is a no-op.
func (s *Service) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}

	errDelete := s.repo.DeleteCart(ctx, ownerID)
	if errDelete != nil && !errors.Is(errDelete, ErrCartNotFound) {
		log.Printf("repo delete cart error: %v \n", errDelete)
		return errDelete
	}

	s.invalidateCache(ownerID)
	return nil
}

func validateEntry(ownerID, productID, size string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner id required", ErrInvalidInput)
	}
	if productID == "" {
		return fmt.Errorf("%w: product id required", ErrInvalidInput)
	}
	if size == "" {
		return fmt.Errorf("%w: size required", ErrInvalidInput)
	}
	// Keys become MongoDB field paths.
	if strings.ContainsAny(productID, ".$") || strings.ContainsAny(size, ".$") {
		return fmt.Errorf("%w: product id and size must not contain '.' or '$'", ErrInvalidInput)
	}
	return nil
}

func (s *Service) invalidateCache(ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, ownerID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
