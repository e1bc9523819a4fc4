package serverutils

import (
	"errors"

	"stlc-manager-be/pkg/backend"
	"stlc-manager-be/pkg/pipeline"
	"stlc-manager-be/pkg/workspace"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, body := classify(err)
		return ctx.Status(code).JSON(body)
	}
}

func classify(err error) (int, BaseResponse[any]) {
	var (
		fiberErr   *fiber.Error
		validation *pipeline.ValidationError
		fieldErrs  validator.ValidationErrors
		httpErr    *backend.HTTPError
		remoteErr  *backend.RemoteError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse(fiberErr.Code, fiberErr.Message)
	case errors.As(err, &validation):
		return fiber.StatusUnprocessableEntity,
			ErrorResponseWithData(fiber.StatusUnprocessableEntity, validation.Error(), validation.Missing)
	case errors.As(err, &fieldErrs):
		return fiber.StatusBadRequest,
			ErrorResponseWithData(fiber.StatusBadRequest, "Invalid request", fieldErrors(fieldErrs))
	case errors.Is(err, workspace.ErrRunInProgress):
		return fiber.StatusConflict, ErrorResponse(fiber.StatusConflict, err.Error())
	case errors.Is(err, workspace.ErrWorkspaceNotFound),
		errors.Is(err, workspace.ErrUnknownProcess),
		errors.Is(err, workspace.ErrFileNotFound):
		return fiber.StatusNotFound, ErrorResponse(fiber.StatusNotFound, err.Error())
	case errors.Is(err, workspace.ErrEmptySelection),
		errors.Is(err, workspace.ErrInvalidDocumentType),
		errors.Is(err, workspace.ErrNoFiles):
		return fiber.StatusBadRequest, ErrorResponse(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &httpErr), errors.As(err, &remoteErr), errors.Is(err, backend.ErrMalformedResponse):
		return fiber.StatusBadGateway, ErrorResponse(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, err.Error())
	}
}
