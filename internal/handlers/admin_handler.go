package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/authsystem/internal/models"
	"github.com/joshua-takyi/authsystem/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func paramUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func ListUsers(ad *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := ad.ListUsers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}

func GetStats(ad *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := ad.GetStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func UpdateUserRole(ad *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUserID(c)
		if !ok {
			return
		}

		var req struct {
			Role string `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		user, err := ad.UpdateRole(c.Request.Context(), id, req.Role)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

func DeleteUser(ad *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUserID(c)
		if !ok {
			return
		}

		if err := ad.DeleteUser(c.Request.Context(), id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

func ToggleUserVerification(ad *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUserID(c)
		if !ok {
			return
		}

		user, err := ad.ToggleVerified(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

func GetLoginActivity(ad *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid limit"})
			return
		}

		activity, err := ad.ListActivity(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"activity": activity})
	}
}
