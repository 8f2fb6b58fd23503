package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home returns basic service information
func Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Todo API",
		"version": "1.0.0",
		"docs":    "/swagger/index.html",
	})
}

// Health reports service liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
