package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/internal/mailer"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/repository"
)

// Auth domain errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username or email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// TokenClaims is the JWT payload carried by authenticated requests.
type TokenClaims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService exposes account lifecycle use cases.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error)
	VerifyEmail(ctx context.Context, payload dto.VerifyEmailRequest) error
	ResendOTP(ctx context.Context, payload dto.ResendOTPRequest) error
	ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) error
}

type authService struct {
	users     repository.UserRepository
	redis     *redis.Client
	mailer    mailer.Mailer
	validator *validator.Validate
	logger    zerolog.Logger
	jwtSecret []byte
	jwtExpiry time.Duration
	otpTTL    time.Duration
	now       func() time.Time
}

// NewAuthService builds a new auth service.
func NewAuthService(
	users repository.UserRepository,
	redisClient *redis.Client,
	mail mailer.Mailer,
	validate *validator.Validate,
	logger zerolog.Logger,
	jwtSecret string,
	jwtExpiry time.Duration,
	otpTTL time.Duration,
) AuthService {
	return &authService{
		users:     users,
		redis:     redisClient,
		mailer:    mail,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
		otpTTL:    otpTTL,
		now:       time.Now,
	}
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", email)
}

func resetKey(token string) string {
	return fmt.Sprintf("pwreset:%s", token)
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.users.GetByUsername(ctx, payload.Username); err == nil {
		return dto.UserResponse{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.UserResponse{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Role:         payload.Role,
		RollNo:       payload.RollNo,
		ClassName:    payload.ClassName,
		Division:     payload.Division,
		Subject:      payload.Subject,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.sendOTP(ctx, user.Email); err != nil {
		// The account exists; verification can be retried via resend.
		s.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send verification code")
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.TokenResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TokenResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenResponse{}, ErrInvalidCredentials
		}
		return dto.TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	if !user.Verified {
		return dto.TokenResponse{}, ErrEmailNotVerified
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	return dto.TokenResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, payload dto.VerifyEmailRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	stored, err := s.redis.Get(ctx, otpKey(payload.Email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidOTP
		}
		return err
	}

	if stored != payload.Code {
		return ErrInvalidOTP
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.Verified = true
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	if err := s.redis.Del(ctx, otpKey(payload.Email)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete consumed otp")
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("email verified")

	return nil
}

func (s *authService) ResendOTP(ctx context.Context, payload dto.ResendOTPRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Verified {
		return nil
	}

	return s.sendOTP(ctx, user.Email)
}

func (s *authService) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address is registered.
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.redis.Set(ctx, resetKey(token), user.Email, s.otpTTL).Err(); err != nil {
		return err
	}

	return s.mailer.Send(ctx, user.Email, mailer.PasswordResetSubject, mailer.PasswordResetBody(token))
}

func (s *authService) ResetPassword(ctx context.Context, payload dto.ResetPasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	email, err := s.redis.Get(ctx, resetKey(payload.Token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidResetToken
		}
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	if err := s.redis.Del(ctx, resetKey(payload.Token)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to delete consumed reset token")
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password reset")

	return nil
}

func (s *authService) issueToken(user models.User) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (s *authService) sendOTP(ctx context.Context, email string) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, otpKey(email), code, s.otpTTL).Err(); err != nil {
		return err
	}

	return s.mailer.Send(ctx, email, mailer.VerificationSubject, mailer.VerificationBody(code))
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
