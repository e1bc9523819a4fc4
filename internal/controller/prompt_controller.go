package controller

import (
	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/serverutils"
	"stlc-manager-be/internal/service"
	"stlc-manager-be/pkg/catalog"

	"github.com/gofiber/fiber/v2"
)

type IPromptController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Fetch(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
}

type promptController struct {
	promptService service.IPromptService
}

func NewPromptController(promptService service.IPromptService) IPromptController {
	return &promptController{
		promptService: promptService,
	}
}

func (c *promptController) RegisterRoutes(r fiber.Router) {
	r.Get(":id/prompts/:processId", c.Show)
	r.Put(":id/prompts/:processId", c.Save)
	r.Post(":id/prompts/:processId/fetch", c.Fetch)
	r.Post(":id/prompts/:processId/reset", c.Reset)
	r.Post(":id/prompts/:processId/generate", c.Generate)
}

func (c *promptController) Show(ctx *fiber.Ctx) error {
	res, err := c.promptService.Get(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get prompt", res))
}

func (c *promptController) Save(ctx *fiber.Ctx) error {
	var req dto.SavePromptRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.promptService.Save(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"), *req.Prompt)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save prompt", res))
}

func (c *promptController) Fetch(ctx *fiber.Ctx) error {
	res, err := c.promptService.Fetch(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetch prompt", res))
}

func (c *promptController) Reset(ctx *fiber.Ctx) error {
	res, err := c.promptService.Reset(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reset prompt", res))
}

func (c *promptController) Generate(ctx *fiber.Ctx) error {
	if ctx.Params("processId") != catalog.TestScenarioGeneration {
		return fiber.NewError(fiber.StatusBadRequest, "Prompt generation is only available for "+catalog.TestScenarioGeneration)
	}

	var req dto.GeneratePromptRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.promptService.Generate(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate prompt", res))
}
