package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finsight-ai/finsight-be/service"
	"github.com/finsight-ai/finsight-be/types"
	"github.com/finsight-ai/finsight-be/utils"
)

type LoginHandler interface {
	HandleLogin(c *gin.Context)
}

type loginHandler struct {
	auth service.Authenticator
}

func NewLoginHandler(auth service.Authenticator) LoginHandler {
	return &loginHandler{auth: auth}
}

func (h *loginHandler) HandleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	if !h.auth.Verify(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Invalid username or password",
		})
		return
	}

	token, err := utils.GenerateToken(req.Username, h.auth.Role(req.Username))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.LoginResponse{
			AccessToken: token,
		},
	})
}
