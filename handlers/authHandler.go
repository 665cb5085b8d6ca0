package handlers

import (
	"net/http"

	"edhserver/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ゲストトークン発行リクエストの構造体
type GuestRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
}

// GuestToken はゲストユーザーを採番してJWTを発行するハンドラです。
// アカウント登録は無く、デッキ保存のための最低限の身元だけを作ります。
func GuestToken(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Guest token request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, userID, err := auth.GenerateGuestToken(db, req.DisplayName, logger)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": userID,
	})
}

// RequireGuest はAuthorizationヘッダーのゲストトークンを検証するミドルウェアです。
func RequireGuest(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ParseClaims(c.GetHeader("Authorization"))
		if err != nil {
			logger.Error("Failed to validate token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("userID", claims.UserID)
		c.Next()
	}
}
