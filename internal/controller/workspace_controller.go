package controller

import (
	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/serverutils"
	"stlc-manager-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SetAutoSelection(ctx *fiber.Ctx) error
	Toggle(ctx *fiber.Ctx) error
	SetStepConfig(ctx *fiber.Ctx) error
}

type workspaceController struct {
	workspaceService service.IWorkspaceService
}

func NewWorkspaceController(workspaceService service.IWorkspaceService) IWorkspaceController {
	return &workspaceController{
		workspaceService: workspaceService,
	}
}

// RegisterRoutes expects the /workspaces group.
func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	r.Post("", c.Create)
	r.Get(":id", c.Show)
	r.Delete(":id", c.Delete)
	r.Put(":id/auto-selection", c.SetAutoSelection)
	r.Post(":id/processes/:processId/toggle", c.Toggle)
	r.Put(":id/processes/:processId/config", c.SetStepConfig)
}

func (c *workspaceController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateWorkspaceRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.workspaceService.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success create workspace", res))
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	res, err := c.workspaceService.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show workspace", res))
}

func (c *workspaceController) Delete(ctx *fiber.Ctx) error {
	if err := c.workspaceService.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete workspace", nil))
}

func (c *workspaceController) SetAutoSelection(ctx *fiber.Ctx) error {
	var req dto.SetAutoSelectionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.workspaceService.SetAutoSelection(ctx.UserContext(), ctx.Params("id"), *req.Enabled)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update auto-selection", res))
}

func (c *workspaceController) Toggle(ctx *fiber.Ctx) error {
	res, err := c.workspaceService.Toggle(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success toggle process", res))
}

func (c *workspaceController) SetStepConfig(ctx *fiber.Ctx) error {
	var req dto.UpdateStepConfigRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := c.workspaceService.SetStepConfig(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update process config", req.ToStepConfig()))
}
