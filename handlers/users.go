package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taxdesk/backend/database"
	"github.com/taxdesk/backend/models"
)

// AdminListUsers handles GET /api/admin/users - every registered client,
// newest first. Admin identities are not part of the client roster.
func AdminListUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.
		Where("role = ?", models.RoleUser).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
