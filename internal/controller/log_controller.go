package controller

import (
	"errors"

	"stlc-manager-be/internal/pkg/logger"
	"stlc-manager-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type ILogController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type logController struct {
	logger logger.ILogger
}

func NewLogController(log logger.ILogger) ILogController {
	return &logController{logger: log}
}

func (c *logController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/system/logs")
	h.Get("", c.List)
	h.Get(":id", c.Show)
}

func (c *logController) List(ctx *fiber.Ctx) error {
	logs, err := c.logger.GetLogs(ctx.Query("level"), ctx.QueryInt("limit", 50), ctx.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get logs", logs))
}

func (c *logController) Show(ctx *fiber.Ctx) error {
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil {
		if errors.Is(err, logger.ErrLogNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get log", entry))
}
