package controller

import (
	"agritrain_backend/internal/service"
	"agritrain_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	ContentService *service.ContentService
}

func NewQuizController(contentService *service.ContentService) *QuizController {
	return &QuizController{ContentService: contentService}
}

func (c *QuizController) GetForScenario(ctx *gin.Context) {
	scenarioID, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.NotFoundWithMessage(ctx, util.ErrQuizNotFound.Error())
		return
	}

	quiz, err := c.ContentService.GetQuizForScenario(ctx.Request.Context(), scenarioID)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFoundWithMessage(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

func (c *QuizController) Get(ctx *gin.Context) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.NotFoundWithMessage(ctx, util.ErrQuizNotFound.Error())
		return
	}

	quiz, err := c.ContentService.GetQuiz(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFoundWithMessage(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Create godoc
// @Summary Attach a quiz to a scenario
// @Router /quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	var req service.QuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.ContentService.CreateQuiz(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrScenarioNotFound):
			util.NotFoundWithMessage(ctx, err.Error())
		case errors.Is(err, util.ErrQuizExists):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidQuestion):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, quiz)
}
