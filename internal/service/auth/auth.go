package auth

import (
	"EliteRegistry/internal/app_errors"
	"EliteRegistry/internal/models"
	"EliteRegistry/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

type AuthRepo interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
}

type tokenRepo interface {
	Create(ctx context.Context, userID string, token *jwt.Token) (*models.RefreshToken, error)
	ByPrimaryKey(ctx context.Context, userID string, token *jwt.Token) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID string) error
}

type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	authRepo   AuthRepo
	tokenRepo  tokenRepo
}

func NewAuthService(l logger.Log, manager *JWTManager, aRepo AuthRepo, tRepo tokenRepo) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		authRepo:   aRepo,
		tokenRepo:  tRepo,
	}
}

func (u *AuthService) RefreshTokens(ctx context.Context, token string) (*models.TokenPair, error) {
	curToken, err := u.jwtManager.Parse(token)
	if err != nil {
		return nil, err
	}
	if !u.jwtManager.TokenType(curToken, RefreshTokenType) {
		return nil, app_errors.ErrTokenNotFound
	}
	userID, err := curToken.Claims.GetSubject()
	if err != nil {
		return nil, err
	}
	tokenRecord, err := u.tokenRepo.ByPrimaryKey(ctx, userID, curToken)
	if err != nil {
		return nil, err
	}
	if tokenRecord.ExpiresAt.Before(time.Now()) {
		return nil, app_errors.ErrTokenExpired
	}
	user, err := u.authRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.issue(ctx, *user)
}

func (u *AuthService) AccessClaims(ctx context.Context, token string) (*AccessTokenClaims, error) {
	return u.jwtManager.AccessClaims(token)
}

func (u *AuthService) User(ctx context.Context, id string) (*models.User, error) {
	return u.authRepo.UserByID(ctx, id)
}

func (u *AuthService) LoginUser(ctx context.Context, username, password string) (*models.TokenPair, error) {
	user, err := u.authRepo.UserByName(ctx, username)
	if err != nil {
		return nil, err
	}

	if !checkPasswordHash(password, user.Password) {
		return nil, app_errors.ErrIncorrectPassword
	}

	return u.issue(ctx, *user)
}

// issue rotates the user's refresh token: earlier ones stop working.
func (u *AuthService) issue(ctx context.Context, user models.User) (*models.TokenPair, error) {
	tokenPair, err := u.jwtManager.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	if err := u.tokenRepo.DeleteUserTokens(ctx, user.ID); err != nil {
		return nil, err
	}
	if _, err := u.tokenRepo.Create(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return nil, err
	}
	return tokenPair, nil
}

// CreateUser registers a student account.
func (u *AuthService) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.Roles = []string{models.StudentRole}
	return u.createUser(ctx, user)
}

func (u *AuthService) createUser(ctx context.Context, user models.User) (*models.User, error) {
	var err error

	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		return nil, fmt.Errorf("%w: username is required", app_errors.ErrInvalidInput)
	}
	if len(user.Password) > maxPasswordLen || len(user.Password) < minPasswordLen {
		return nil, app_errors.ErrIncorrectPassword
	}

	user.Password, err = hashPassword(user.Password)
	if err != nil {
		return nil, err
	}

	return u.authRepo.CreateUser(ctx, user)
}

// EnsureAdmin creates the bootstrap administrator unless the username is
// already taken.
func (u *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := u.authRepo.UserByName(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, app_errors.ErrUserNotFound) {
		return err
	}
	_, err = u.createUser(ctx, models.User{
		Username: username,
		Password: password,
		Roles:    []string{models.AdminRole, models.StudentRole},
	})
	if errors.Is(err, app_errors.ErrUserExists) {
		return nil
	}
	if err == nil {
		u.log.Info("bootstrap admin created", "username", username)
	}
	return err
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
