package services

import (
	"context"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/repository"

	log "github.com/sirupsen/logrus"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) List(ctx context.Context, filter domain.UserFilter, page domain.Page) ([]domain.User, domain.Pagination, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, domain.Pagination{}, domain.ErrInvalidRole
	}
	users, total, err := s.store.Users().List(ctx, filter, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return users, page.Result(total), nil
}

func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Role == role {
		return user, nil
	}

	from := user.Role
	user.Role = role
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": id, "from": from, "to": role}).Info("user role changed")
	return user, nil
}
