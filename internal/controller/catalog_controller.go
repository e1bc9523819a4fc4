package controller

import (
	"stlc-manager-be/internal/pkg/serverutils"
	"stlc-manager-be/internal/service"
	"stlc-manager-be/pkg/catalog"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	Processes(ctx *fiber.Ctx) error
	DocumentTypes(ctx *fiber.Ctx) error
	TestTypes(ctx *fiber.Ctx) error
	TestTypeDetails(ctx *fiber.Ctx) error
}

type catalogController struct {
	catalog       catalog.Catalog
	promptService service.IPromptService
}

func NewCatalogController(c catalog.Catalog, promptService service.IPromptService) ICatalogController {
	return &catalogController{
		catalog:       c,
		promptService: promptService,
	}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog")
	h.Get("processes", c.Processes)
	h.Get("document-types", c.DocumentTypes)
	h.Get("test-types", c.TestTypes)
	h.Get("test-types/:testType", c.TestTypeDetails)
}

func (c *catalogController) Processes(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get processes", c.catalog.All()))
}

func (c *catalogController) DocumentTypes(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get document types", catalog.DocumentTypes()))
}

func (c *catalogController) TestTypes(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get test types", catalog.TestTypes()))
}

func (c *catalogController) TestTypeDetails(ctx *fiber.Ctx) error {
	res, err := c.promptService.TestTypeDetails(ctx.UserContext(), ctx.Params("testType"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get test type details", res))
}
