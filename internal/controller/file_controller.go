package controller

import (
	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/serverutils"
	"stlc-manager-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SetProcesses(ctx *fiber.Ctx) error
	UploadForProcess(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
}

func NewFileController(fileService service.IFileService) IFileController {
	return &fileController{
		fileService: fileService,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	r.Post(":id/files", c.Upload)
	r.Get(":id/files", c.List)
	r.Delete(":id/files/:fileId", c.Delete)
	r.Put(":id/files/:fileId/processes", c.SetProcesses)
	r.Post(":id/processes/:processId/files", c.UploadForProcess)
}

func (c *fileController) Upload(ctx *fiber.Ctx) error {
	files, fileType, err := readUploads(ctx)
	if err != nil {
		return err
	}

	res, err := c.fileService.Upload(ctx.UserContext(), ctx.Params("id"), fileType, files)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success upload files", res))
}

func (c *fileController) List(ctx *fiber.Ctx) error {
	res, err := c.fileService.List(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get files", res))
}

func (c *fileController) Delete(ctx *fiber.Ctx) error {
	if err := c.fileService.Delete(ctx.UserContext(), ctx.Params("id"), ctx.Params("fileId")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete file", nil))
}

func (c *fileController) SetProcesses(ctx *fiber.Ctx) error {
	var req dto.SetFileProcessesRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.fileService.SetProcesses(ctx.UserContext(), ctx.Params("id"), ctx.Params("fileId"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update file processes", res))
}

func (c *fileController) UploadForProcess(ctx *fiber.Ctx) error {
	files, fileType, err := readUploads(ctx)
	if err != nil {
		return err
	}

	res, err := c.fileService.UploadForProcess(ctx.UserContext(), ctx.Params("id"), ctx.Params("processId"), fileType, files)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success upload process files", res))
}
