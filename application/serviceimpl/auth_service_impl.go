package serviceimpl

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/pkg/logger"
	"face-attendance/pkg/utils"
)

type AuthServiceImpl struct {
	accountRepo repositories.AccountRepository
	jwtSecret   string
}

func NewAuthService(accountRepo repositories.AccountRepository, jwtSecret string) services.AuthService {
	return &AuthServiceImpl{
		accountRepo: accountRepo,
		jwtSecret:   jwtSecret,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	account, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Auth("login_unknown_user", "Login attempt for unknown username", map[string]interface{}{"username": username})
			return nil, services.ErrAccountNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		logger.Auth("login_bad_password", "Login attempt with wrong password", map[string]interface{}{"username": username})
		return nil, services.ErrInvalidPassword
	}

	token, err := utils.GenerateToken(account.Username, string(account.Role), s.jwtSecret)
	if err != nil {
		logger.AuthError("token_generate", "Failed to sign token", err, map[string]interface{}{"username": username})
		return nil, err
	}

	logger.Auth("login_success", "Account logged in", map[string]interface{}{"username": username, "role": account.Role})
	return &services.LoginResult{
		Token: token,
		Role:  string(account.Role),
	}, nil
}

func (s *AuthServiceImpl) SignUp(ctx context.Context, username, password string, role models.Role) (string, error) {
	if role == "" {
		role = models.RoleUser
	}

	_, err := s.accountRepo.GetByUsername(ctx, username)
	if err == nil {
		return "", services.ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	account := &models.Account{
		Username: username,
		Password: string(hash),
		Role:     role,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		// A concurrent signup can slip past the existence check and hit the
		// unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", services.ErrUsernameTaken
		}
		return "", err
	}

	logger.Auth("signup_success", "Account created", map[string]interface{}{"username": username, "role": role})
	return account.Username, nil
}
