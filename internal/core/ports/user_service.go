package ports

import (
	"context"

	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
)

type UserService interface {
	Register(ctx context.Context, username, email, password, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Profile(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
