package controller

import (
	"stlc-manager-be/internal/pkg/serverutils"
	"stlc-manager-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOutputController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type outputController struct {
	outputService service.IOutputService
}

func NewOutputController(outputService service.IOutputService) IOutputController {
	return &outputController{
		outputService: outputService,
	}
}

func (c *outputController) RegisterRoutes(r fiber.Router) {
	r.Get(":id/outputs", c.List)
	r.Get(":id/outputs/:processId", c.Show)
	r.Get(":id/outputs/:processId/history", c.History)
}

func (c *outputController) List(ctx *fiber.Ctx) error {
	res, err := c.outputService.List(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get outputs", res))
}

func (c *outputController) Show(ctx *fiber.Ctx) error {
	res, err := c.outputService.Get(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get output", res))
}

func (c *outputController) History(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.outputService.History(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get output history", res))
}
