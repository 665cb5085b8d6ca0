package handlers

import (
	"encoding/json"
	"net/http"

	"edhserver/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// デッキ保存リクエストの構造体。中身の妥当性（カードの実在や枚数制限）は検証しない
type SaveDeckRequest struct {
	Name      string             `json:"name"`
	Commander string             `json:"commander"`
	Cards     []models.DeckEntry `json:"cards" binding:"required"`
}

// SaveDeck はデッキリストを保存して参照用のIDを返すハンドラです。
// createRoom/joinRoomのdeckIdでこのIDを指定できます。
func SaveDeck(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID := c.GetUint("userID")

	var req SaveDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Save deck request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cardsJSON, err := json.Marshal(req.Cards)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deck list"})
		return
	}

	saved := models.SavedDeck{
		DeckID:    uuid.New().String(),
		OwnerID:   userID,
		Name:      req.Name,
		Commander: req.Commander,
		CardsJSON: string(cardsJSON),
	}
	if err := db.Create(&saved).Error; err != nil {
		logger.Error("Failed to save deck", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save deck"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"deckId": saved.DeckID,
	})
}

// GetDeck は保存済みデッキを返すハンドラです。
func GetDeck(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	deckID := c.Param("deckId")

	var saved models.SavedDeck
	if err := db.Where("deck_id = ?", deckID).First(&saved).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		return
	}

	var cards []models.DeckEntry
	if err := json.Unmarshal([]byte(saved.CardsJSON), &cards); err != nil {
		logger.Error("Failed to decode saved deck", zap.String("deckId", deckID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode deck"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deckId":    saved.DeckID,
		"name":      saved.Name,
		"commander": saved.Commander,
		"cards":     cards,
	})
}
