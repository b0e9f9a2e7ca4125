package controller

import (
	"agritrain_backend/internal/service"
	"agritrain_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// ScenarioController serves the scenario and quiz catalog.
type ScenarioController struct {
	ContentService *service.ContentService
}

func NewScenarioController(contentService *service.ContentService) *ScenarioController {
	return &ScenarioController{ContentService: contentService}
}

func (c *ScenarioController) List(ctx *gin.Context) {
	scenarios, err := c.ContentService.ListScenarios(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, scenarios)
}

func (c *ScenarioController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.NotFoundWithMessage(ctx, util.ErrScenarioNotFound.Error())
		return
	}

	scenario, err := c.ContentService.GetScenario(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrScenarioNotFound) {
			util.NotFoundWithMessage(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, scenario)
}

// Create godoc
// @Summary Create a training scenario
// @Router /scenarios [post]
func (c *ScenarioController) Create(ctx *gin.Context) {
	var req service.ScenarioInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	scenario, err := c.ContentService.CreateScenario(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, util.ErrScenarioNotFound) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, scenario)
}

// UploadMedia godoc
// @Summary Upload the cover image or panorama of a scenario
// @Param kind query string true "image or panorama"
// @Router /scenarios/{id}/media [post]
func (c *ScenarioController) UploadMedia(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.NotFoundWithMessage(ctx, util.ErrScenarioNotFound.Error())
		return
	}

	kind := ctx.DefaultQuery("kind", util.MediaKindImage)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}
	if !util.HasAllowedExtension(fileHeader.Filename, util.AllowedImageExtensions) {
		util.BadRequest(ctx, "Unsupported file extension")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, "File must be an image")
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	scenario, err := c.ContentService.UploadMedia(ctx.Request.Context(), id, kind, fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidMediaKind):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrScenarioNotFound):
			util.NotFoundWithMessage(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, scenario)
}
