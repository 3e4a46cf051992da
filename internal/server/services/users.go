package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/cryptox"
	"github.com/dmitrijs2005/datavault/internal/dbx"
	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/server/auth"
	"github.com/dmitrijs2005/datavault/internal/server/config"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/dmitrijs2005/datavault/internal/server/repositories/repomanager"
)

const saltSize = 16

// UserService provides authentication-related operations:
// - Register: create users along with their default categories
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
// - Logout: revoke a refresh token
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	logger                       logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		logger:                       logger.With("module", "users"),
	}
}

// Register creates the account and seeds its default categories in one
// transaction. Only a salt and a verifier of the password are stored.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	verr := common.NewValidationError()
	if required(verr, "username", username) {
		n := utf8.RuneCountInString(username)
		if n < minUsernameLength || n > maxUsernameLength {
			verr.Add("username", fmt.Sprintf("The username field must be between %d and %d characters.",
				minUsernameLength, maxUsernameLength))
		}
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("The password field must be at least %d characters.", minPasswordLength))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	salt := common.GenerateRandByteArray(saltSize)
	user := &models.User{UserName: username, Salt: salt, Verifier: s.makeVerifier(password, salt)}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		_, err := seedDefaultCategories(ctx, s.repomanager.Categories(tx), user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			verr.Add("username", "The username has already been taken.")
			return nil, verr
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the password and, on success, returns a new TokenPair.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, userName, password string) (*models.TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, strings.TrimSpace(userName))
	if err != nil {
		if isNotFound(err) {
			// spend the same derivation time as for a real account
			s.makeVerifier(password, s.getRandomSalt())
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !s.checkVerifier(user.Verifier, s.makeVerifier(password, user.Salt)) {
		return nil, common.ErrorUnauthorized
	}

	if n, err := s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "expired refresh tokens not pruned", "user_id", user.ID, "error", err)
	} else if n > 0 {
		s.logger.Debug(ctx, "expired refresh tokens pruned", "user_id", user.ID, "count", n)
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken redeems refreshToken and returns a fresh TokenPair. The old
// token is consumed in the same transaction that stores its replacement.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	var pair *models.TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if isNotFound(err) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if token.Expires.Before(time.Now()) {
			return common.ErrRefreshTokenExpired
		}
		pair, err = s.generateTokenPair(ctx, token.UserID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes refreshToken. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// GetUser returns the account behind an authenticated user id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// UserIDFromAccessToken validates an access token and returns its subject.
func (s *UserService) UserIDFromAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// --- helpers below ---

func (s *UserService) getRandomSalt() []byte { return common.GenerateRandByteArray(saltSize) }

func (s *UserService) makeVerifier(password string, salt []byte) []byte {
	key := cryptox.DeriveMasterKey([]byte(password), salt)
	defer common.WipeByteArray(key)
	return cryptox.MakeVerifier(key)
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) checkVerifier(verifier []byte, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*models.TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		s.logger.Error(ctx, "refresh token not stored", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTokenValidityDuration.Seconds()),
	}, nil
}
