package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
)

// respondError maps the error taxonomy onto HTTP statuses. Collaborator
// failures are logged and reported as 502 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case models.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case models.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("collaborator failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Storage temporarily unavailable"})
	}
}
