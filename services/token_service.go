package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"wheelsdoc-server/database"
	"wheelsdoc-server/models"
	"wheelsdoc-server/utils"
)

// TokenService handles access/refresh token operations
type TokenService struct{}

// NewTokenService creates a new token service
func NewTokenService() *TokenService {
	return &TokenService{}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GenerateTokenPair generates both access and refresh tokens
func (ts *TokenService) GenerateTokenPair(user *models.User, deviceID, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := ts.generateRefreshToken(user.ID, deviceID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    24 * 60 * 60,
		TokenType:    "Bearer",
	}, nil
}

// generateRefreshToken generates and stores a long-lived random refresh token
func (ts *TokenService) generateRefreshToken(userID uint, deviceID, userAgent, ipAddress string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour), // 30 days
		DeviceID:  deviceID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := database.DB.Create(refreshToken).Error; err != nil {
		return "", err
	}

	log.Printf("✅ Refresh token generated for user %d", userID)
	return tokenString, nil
}

// RotateRefreshToken validates a refresh token, revokes it and issues a new pair
func (ts *TokenService) RotateRefreshToken(tokenString, deviceID, userAgent, ipAddress string) (*TokenPair, *models.User, error) {
	var stored models.RefreshToken
	if err := database.DB.Where("token = ?", tokenString).First(&stored).Error; err != nil {
		return nil, nil, errors.New("refresh token not found")
	}

	if !stored.IsValid() {
		return nil, nil, errors.New("refresh token expired or revoked")
	}

	var user models.User
	if err := database.DB.First(&user, stored.UserID).Error; err != nil {
		return nil, nil, errors.New("user not found")
	}
	if !user.IsActive {
		return nil, nil, errors.New("user account is deactivated")
	}

	// Single-use: revoke the old token before issuing a new pair.
	stored.Revoke()
	if err := database.DB.Save(&stored).Error; err != nil {
		return nil, nil, err
	}

	pair, err := ts.GenerateTokenPair(&user, deviceID, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}

	return pair, &user, nil
}

// RevokeUserTokens revokes all refresh tokens for a user (logout everywhere)
func (ts *TokenService) RevokeUserTokens(userID uint) error {
	return database.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// CleanupExpiredTokens removes expired refresh tokens
func (ts *TokenService) CleanupExpiredTokens() error {
	result := database.DB.Where("expires_at <= ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("🧹 Cleaned up %d expired refresh tokens", result.RowsAffected)
	}
	return nil
}
