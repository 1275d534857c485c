package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finsight-ai/finsight-be/types"
	"github.com/finsight-ai/finsight-be/utils"
)

// UserContextKey is where AuthMiddleware stores the parsed claims.
const UserContextKey = "user"

func AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Authorization header is required",
		})
		return
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Authorization header format must be Bearer {token}",
		})
		return
	}

	claims, err := utils.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Invalid token",
		})
		return
	}

	c.Set(UserContextKey, claims)
	c.Next()
}
