package controller

import (
	"stlc-manager-be/internal/pkg/serverutils"
	"stlc-manager-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPipelineController interface {
	RegisterRoutes(r fiber.Router)
	RunPipeline(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	RunProcess(ctx *fiber.Ctx) error
}

type pipelineController struct {
	runService service.IRunService
}

func NewPipelineController(runService service.IRunService) IPipelineController {
	return &pipelineController{
		runService: runService,
	}
}

func (c *pipelineController) RegisterRoutes(r fiber.Router) {
	r.Post(":id/pipeline/run", c.RunPipeline)
	r.Get(":id/pipeline/status", c.Status)
	r.Post(":id/processes/:processId/run", c.RunProcess)
}

func (c *pipelineController) RunPipeline(ctx *fiber.Ctx) error {
	res, err := c.runService.RunPipeline(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.AcceptedResponse("Pipeline started", res))
}

func (c *pipelineController) Status(ctx *fiber.Ctx) error {
	res, err := c.runService.Status(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get pipeline status", res))
}

func (c *pipelineController) RunProcess(ctx *fiber.Ctx) error {
	res, err := c.runService.RunProcess(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.AcceptedResponse("Process started", res))
}
