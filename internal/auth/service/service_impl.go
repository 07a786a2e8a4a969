package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/vitrine/internal/auth/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:  p.Log.Named("auth.service"),
		repo: p.Repo,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Response, error) {
	user, err := s.Authenticate(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	resp := ToResponse(user)
	return &resp, nil
}

func (s *Service) Authenticate(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func ToResponse(u *domain.User) domain.Response {
	resp := domain.Response{
		ID:    snowflake.ID(u.ID).String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
	if u.StoreID != 0 {
		resp.StoreID = snowflake.ID(u.StoreID).String()
	}
	return resp
}
