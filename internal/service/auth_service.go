package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"famcoach/internal/config"
	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	// RequestCode creates (or finds) the user for email and mails a
	// six-digit one-time code. Always succeeds from the caller's view
	// unless the mail or storage layer fails: an unknown email is not
	// distinguishable from a known one.
	RequestCode(ctx context.Context, req *model.RequestCodeRequest) error
	// VerifyCode exchanges a valid code for a signed session token.
	VerifyCode(ctx context.Context, req *model.VerifyCodeRequest) (*model.SessionResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	codeRepo repository.LoginCodeRepository
	mailer   Mailer
	cfg      *config.Config
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, codeRepo repository.LoginCodeRepository, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		codeRepo: codeRepo,
		mailer:   mailer,
		cfg:      cfg,
	}
}

func (s *authService) RequestCode(ctx context.Context, req *model.RequestCodeRequest) error {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	var code string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByEmail(ctx, tx, req.Email)
		if errors.Is(err, model.ErrNotFound) {
			user = &model.User{
				UserID:   uuid.New(),
				Email:    req.Email,
				Name:     req.Name,
				IsActive: false,
			}
			if err := s.userRepo.Create(ctx, tx, user); err != nil {
				logger.Error("Failed to create user for login code", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
			}
			logger.Info("Created new user for login code", "user_id", user.UserID)
		} else if err != nil {
			logger.Error("Failed to look up user by email", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}

		code, err = generateLoginCode()
		if err != nil {
			logger.Error("Failed to generate login code", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash login code", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}

		loginCode := &model.LoginCode{
			CodeID:    uuid.New(),
			UserID:    user.UserID,
			CodeHash:  string(hash),
			ExpiresAt: time.Now().Add(s.cfg.Auth.CodeTTL),
		}
		if err := s.codeRepo.Create(ctx, tx, loginCode); err != nil {
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your %s sign-in code", s.cfg.App.Name)
	body := fmt.Sprintf("Your sign-in code is: %s\n\nIt expires in %d minutes. If you did not request it, you can ignore this email.",
		code, int(s.cfg.Auth.CodeTTL.Minutes()))
	if err := s.mailer.Send(ctx, req.Email, subject, body); err != nil {
		logger.Error("Failed to send login code email", "error", err)
		return model.NewAppError("EMAIL_SEND_FAILED", "We could not send your sign-in code. Please try again shortly.", "", err)
	}

	logger.Info("Login code sent")
	return nil
}

func (s *authService) VerifyCode(ctx context.Context, req *model.VerifyCodeRequest) (*model.SessionResponse, error) {
	logger := middleware.GetLogger(ctx).With("email", req.Email)

	var user *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.userRepo.FindByEmail(ctx, tx, req.Email)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Code verification for unknown email")
				return model.NewAppError("INVALID_CODE", "That code is not valid or has expired.", "code", model.ErrUnauthorized)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}

		loginCode, err := s.codeRepo.FindLatestActive(ctx, tx, user.UserID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("No active login code for user", "user_id", user.UserID)
				return model.NewAppError("INVALID_CODE", "That code is not valid or has expired.", "code", model.ErrUnauthorized)
			}
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(loginCode.CodeHash), []byte(req.Code)); err != nil {
			logger.Warn("Login code mismatch", "user_id", user.UserID)
			return model.NewAppError("INVALID_CODE", "That code is not valid or has expired.", "code", model.ErrUnauthorized)
		}

		if err := s.codeRepo.Consume(ctx, tx, loginCode.CodeID); err != nil {
			logger.Error("Failed to consume login code", "error", err, "code_id", loginCode.CodeID)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
		}

		if !user.IsActive {
			if err := s.userRepo.Activate(ctx, tx, user.UserID); err != nil {
				logger.Error("Failed to activate user", "error", err, "user_id", user.UserID)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
			}
			user.IsActive = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	claims := &jwt.RegisteredClaims{
		Issuer:    s.cfg.App.Name,
		Subject:   user.UserID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWT.AccessTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}

	logger.Info("Login successful", "user_id", user.UserID)
	return &model.SessionResponse{
		AccessToken: signedToken,
		User:        user.ToResponse(),
	}, nil
}

func (s *authService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User not found", "user_id", userID.String())
			return nil, model.NewAppError("USER_NOT_FOUND", "Account not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding user by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong. Please try again.", "", err)
	}
	return user, nil
}

// generateLoginCode draws a uniform six-digit code.
func generateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
