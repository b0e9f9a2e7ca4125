package controller

import (
	"agritrain_backend/internal/service"
	"agritrain_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

func (c *ProgressController) List(ctx *gin.Context) {
	userID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	progress, err := c.ProgressService.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// Upsert godoc
// @Summary Record the caller's completion percentage for a scenario
// @Router /users/{id}/progress [post]
func (c *ProgressController) Upsert(ctx *gin.Context) {
	userID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "Invalid user id")
		return
	}

	var req service.ProgressInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Unprocessable(ctx, "Invalid request body")
		return
	}
	if req.ScenarioID == nil || req.CompletionPercentage == nil {
		util.Unprocessable(ctx, "scenario_id and completion_percentage are required")
		return
	}

	progress, err := c.ProgressService.Upsert(ctx.Request.Context(), userID, *req.ScenarioID, *req.CompletionPercentage)
	if err != nil {
		if errors.Is(err, util.ErrScenarioNotFound) {
			util.NotFoundWithMessage(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
