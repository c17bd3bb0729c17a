package users

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/common"
	"github.com/dmitrijs2005/wmsclient/internal/server/auth"
	"github.com/dmitrijs2005/wmsclient/internal/server/config"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenBytes = 16

// protectedFields cannot be changed through UpdateProfile.
var protectedFields = map[string]struct{}{
	"id": {}, "email": {}, "role": {}, "created_date": {}, "password": {},
}

type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	resetTokens map[string]string
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:        repo,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.TokenTTL,
		now:         time.Now,
		resetTokens: map[string]string{},
	}
}

func (s *Service) Register(ctx context.Context, email, password, name, role string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user, err := s.repo.Create(ctx, &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		Profile:      map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login checks the password and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, common.ErrUnauthorized
		}
		return "", nil, common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, common.ErrInternal
	}
	return token, user, nil
}

// Authenticate resolves the user a token belongs to.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile merges fields into the profile. full_name updates the name.
func (s *Service) UpdateProfile(ctx context.Context, id string, fields map[string]any) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := make(map[string]any, len(user.Profile)+len(fields))
	for k, v := range user.Profile {
		profile[k] = v
	}
	for k, v := range fields {
		if _, ok := protectedFields[k]; ok {
			continue
		}
		if k == "full_name" {
			if name, ok := v.(string); ok {
				user.Name = name
			}
			continue
		}
		profile[k] = v
	}
	user.Profile = profile
	user.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset records a reset token for known emails. Unknown
// emails succeed silently so the endpoint does not reveal accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil
		}
		return "", common.ErrInternal
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return "", common.ErrInternal
	}

	s.mu.Lock()
	s.resetTokens[token] = user.ID
	s.mu.Unlock()
	return token, nil
}
