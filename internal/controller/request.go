package controller

import (
	"io"

	"stlc-manager-be/internal/dto"
	"stlc-manager-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into req and runs its validation tags.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

// readUploads reads the "files" parts and the "type" field of a multipart form.
func readUploads(ctx *fiber.Ctx) ([]dto.UploadedFile, string, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Expected multipart form")
	}

	fileType := ""
	if values := form.Value["type"]; len(values) > 0 {
		fileType = values[0]
	}
	if err := serverutils.ValidateRequest(dto.UploadFilesRequest{Type: fileType}); err != nil {
		return nil, "", err
	}

	headers := form.File["files"]
	files := make([]dto.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, "", err
		}
		files = append(files, dto.UploadedFile{Name: fh.Filename, Content: content})
	}
	return files, fileType, nil
}
