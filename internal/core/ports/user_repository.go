package ports

import (
	"context"

	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
)

// UserRepository defines the credential store consumed by the core.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
}
