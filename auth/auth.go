package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"edhserver/models"

	jwt "github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JwtKey はトークン署名用のシークレットキー。本番環境では必ず環境変数で設定
var JwtKey = []byte(jwtKeyFromEnv())

func jwtKeyFromEnv() string {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return key
	}
	return "edhserver-dev-secret"
}

func IsValidToken(tokenString string) (bool, error) {
	claims := &models.MyClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})

	if err != nil {
		return false, err
	}

	return token.Valid, nil
}

// ParseClaims はAuthorizationヘッダーの値からクレームを取り出します。
func ParseClaims(tokenString string) (*models.MyClaims, error) {
	// Bearerトークンのプレフィックスを確認し、存在する場合は削除
	if strings.HasPrefix(tokenString, "Bearer ") {
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	}

	claims := &models.MyClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	return claims, nil
}

// GenerateGuestToken はゲストユーザーをデータベースに採番してJWTを発行します。
func GenerateGuestToken(db *gorm.DB, displayName string, logger *zap.Logger) (string, uint, error) {
	user := models.GuestUser{
		DisplayName: displayName,
	}
	if err := db.Create(&user).Error; err != nil {
		logger.Error("ゲストユーザー生成中にエラー発生", zap.Error(err))
		return "", 0, err
	}

	// トークンの有効期限を設定
	expirationTime := time.Now().Add(72 * time.Hour)

	// JWTトークン生成時に内包するデータ
	claims := &models.MyClaims{
		UserID:      user.ID,
		DisplayName: displayName,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(JwtKey)

	return tokenString, user.ID, err
}
