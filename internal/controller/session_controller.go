package controller

import (
	"agritrain_backend/internal/service"
	"agritrain_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

func (c *SessionController) List(ctx *gin.Context) {
	c.list(ctx, false)
}

func (c *SessionController) Active(ctx *gin.Context) {
	c.list(ctx, true)
}

func (c *SessionController) list(ctx *gin.Context, activeOnly bool) {
	userID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	sessions, err := c.SessionService.List(ctx.Request.Context(), userID, activeOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}
