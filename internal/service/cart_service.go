package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"cart-backend/internal/cache"
	"cart-backend/internal/domain"
	"cart-backend/internal/repository"
)

// CartService reads and replaces the cart of the token holder.
type CartService interface {
	Save(ctx context.Context, token string, cart domain.Cart) error
	Load(ctx context.Context, token string) (domain.Cart, error)
}

type cartService struct {
	users  repository.UserRepository
	tokens *TokenIssuer
	cache  cache.CartCache
	logger logrus.FieldLogger
}

func NewCartService(users repository.UserRepository, tokens *TokenIssuer, carts cache.CartCache, logger logrus.FieldLogger) CartService {
	if carts == nil {
		carts = cache.Noop{}
	}
	return &cartService{
		users:  users,
		tokens: tokens,
		cache:  carts,
		logger: logger,
	}
}

func (s *cartService) Save(ctx context.Context, token string, cart domain.Cart) error {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	cart = cart.Normalize()
	if err := s.users.UpdateCart(ctx, userID, cart); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// write through so a load that read the old cart cannot repopulate it
	if err := s.cache.Set(ctx, userID, cart); err != nil {
		logger := s.logger.WithField("user_id", userID)
		logger.Warnf("update cached cart: %v", err)
		if err := s.cache.Delete(ctx, userID); err != nil {
			logger.Warnf("invalidate cached cart: %v", err)
		}
	}
	return nil
}

func (s *cartService) Load(ctx context.Context, token string) (domain.Cart, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	logger := s.logger.WithField("user_id", userID)

	cart, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		logger.Warnf("read cached cart: %v", err)
	}
	if ok {
		return cart, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	cart = user.Cart.Normalize()
	if _, err := s.cache.Add(ctx, userID, cart); err != nil {
		logger.Warnf("fill cart cache: %v", err)
	}
	return cart, nil
}
