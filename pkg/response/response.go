package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/pkg/apperror"
)

// PathUserID parses the :user_id path parameter.
func PathUserID(c *gin.Context) (uuid.UUID, error) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return uuid.Nil, apperror.ErrBadRequest
	}

	return userID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
