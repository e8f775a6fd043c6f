package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/authsystem/internal/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID extracts the authenticated user's ID from the token claims
// set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
