package handlers

import (
	"net/http"

	"edhserver/table/registry"

	"github.com/gin-gonic/gin"
)

// Health は死活監視用のハンドラです。プロトコルの一部ではなく運用のためのもの
func Health(c *gin.Context, reg *registry.Registry) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"rooms":  reg.RoomCount(),
	})
}
