package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/HannanShehzad/TaskManager/internal/apperror"
	"github.com/HannanShehzad/TaskManager/internal/models"
)

const tokenIssuer = "task-tracker-backend"

// TokenPair is an access token plus the refresh token that can renew it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	LoginUser(db *gorm.DB, email, password string) (*models.User, error)
	GenerateTokens(db *gorm.DB, userID uuid.UUID) (TokenPair, error)
	RefreshTokens(db *gorm.DB, refreshToken string) (TokenPair, error)
	RevokeToken(db *gorm.DB, refreshToken string) error
	ParseAccessToken(tokenString string) (uuid.UUID, error)
}

type AuthServiceImpl struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(secret string, accessTTL, refreshTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// VerifyPassword checks a plaintext password against a bcrypt hash.
func VerifyPassword(hashedPassword, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthenticated("incorrect email or password")
		}
		return nil, apperror.Internal(err)
	}
	if !VerifyPassword(user.Password, password) {
		return nil, apperror.Unauthenticated("incorrect email or password")
	}
	return &user, nil
}

// GenerateTokens signs a short-lived access token and a refresh token whose
// JTI is persisted so it can be rotated or revoked.
func (s *AuthServiceImpl) GenerateTokens(db *gorm.DB, userID uuid.UUID) (TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"user_id": userID.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
		"iss":     tokenIssuer,
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.secret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	jti, err := uuid.NewV4()
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate jti: %w", err)
	}

	refreshExpiry := now.Add(s.refreshTTL)
	refreshClaims := jwt.MapClaims{
		"user_id": userID.String(),
		"type":    "refresh",
		"jti":     jti.String(),
		"iat":     now.Unix(),
		"exp":     refreshExpiry.Unix(),
		"iss":     tokenIssuer,
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.secret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := models.Token{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: refreshExpiry,
	}
	if err := db.Create(&record).Error; err != nil {
		return TokenPair{}, fmt.Errorf("failed to create token record: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// RefreshTokens rotates a refresh token: the presented token must exist in
// the store and be unexpired, and is deleted once the new pair is issued.
func (s *AuthServiceImpl) RefreshTokens(db *gorm.DB, refreshToken string) (TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return TokenPair{}, apperror.Unauthenticated("invalid refresh token")
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != "refresh" {
		return TokenPair{}, apperror.Unauthenticated("invalid token type")
	}

	jti, err := claimUUID(claims, "jti")
	if err != nil {
		return TokenPair{}, apperror.Unauthenticated("invalid refresh token")
	}
	userID, err := claimUUID(claims, "user_id")
	if err != nil {
		return TokenPair{}, apperror.Unauthenticated("invalid refresh token")
	}

	var record models.Token
	err = db.Where("jti = ? AND user_id = ? AND expires_at > ?", jti, userID, time.Now()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, apperror.Unauthenticated("refresh token not found or expired")
		}
		return TokenPair{}, apperror.Internal(err)
	}

	pair, err := s.GenerateTokens(db, userID)
	if err != nil {
		return TokenPair{}, apperror.Internal(err)
	}

	if err := db.Delete(&record).Error; err != nil {
		return TokenPair{}, apperror.Internal(err)
	}
	return pair, nil
}

// RevokeToken deletes the store record for a refresh token, ending the
// session server-side.
func (s *AuthServiceImpl) RevokeToken(db *gorm.DB, refreshToken string) error {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return apperror.Unauthenticated("invalid refresh token")
	}
	jti, err := claimUUID(claims, "jti")
	if err != nil {
		return apperror.Unauthenticated("invalid refresh token")
	}
	return db.Where("jti = ?", jti).Delete(&models.Token{}).Error
}

// ParseAccessToken validates a bearer token and returns the identity it
// carries.
func (s *AuthServiceImpl) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return uuid.Nil, apperror.Unauthenticated("invalid or expired token")
	}
	if tokenType, _ := claims["type"].(string); tokenType == "refresh" {
		return uuid.Nil, apperror.Unauthenticated("refresh token cannot be used as access token")
	}
	userID, err := claimUUID(claims, "user_id")
	if err != nil {
		return uuid.Nil, apperror.Unauthenticated("invalid or expired token")
	}
	return userID, nil
}

func (s *AuthServiceImpl) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func claimUUID(claims jwt.MapClaims, name string) (uuid.UUID, error) {
	raw, ok := claims[name].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing %s claim", name)
	}
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s claim: %w", name, err)
	}
	return id, nil
}
