package handlers

import (
	"net/http"

	"github.com/alligatorO15/jalali-finance/internal/api/middleware"
	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetCurrent(c *gin.Context) {
	user, err := h.userService.GetCurrent(c.Request.Context(), middleware.GetUserID(c), middleware.IsGuest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
