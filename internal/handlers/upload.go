package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-leaderboard/internal/services"
)

const cvField = "cv"

// cvUpload is a CV file read out of a multipart request.
type cvUpload struct {
	FileName string
	MimeType string
	Data     []byte
}

// readCVUpload pulls the cv part and validates it. The declared part type is
// checked before anything is read or stored.
func readCVUpload(c *fiber.Ctx, maxFileSize int64) (*cvUpload, *fiber.Error) {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("❌ Failed to parse multipart form: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "File parse error")
	}

	files := form.File[cvField]
	if len(files) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cv file is required")
	}
	fileHeader := files[0]

	mimeType := fileHeader.Header.Get(fiber.HeaderContentType)
	if !services.IsSupportedMimeType(mimeType) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unsupported file format")
	}

	if maxFileSize > 0 && fileHeader.Size > maxFileSize {
		return nil, fiber.NewError(
			fiber.StatusBadRequest,
			fmt.Sprintf("CV file too large. Max size: %d bytes", maxFileSize),
		)
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("❌ Failed to open uploaded file: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "File parse error")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("❌ Failed to read uploaded file: %v", err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "File parse error")
	}

	return &cvUpload{
		FileName: fileHeader.Filename,
		MimeType: mimeType,
		Data:     data,
	}, nil
}

// formValue returns a trimmed text field from the already parsed form.
func formValue(c *fiber.Ctx, key string) string {
	return strings.TrimSpace(c.FormValue(key))
}

// errorResponse maps service errors onto a status and a short message.
func errorResponse(err error) *fiber.Error {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr
	case errors.Is(err, services.ErrUnsupportedFormat):
		return fiber.NewError(fiber.StatusBadRequest, "Unsupported file format")
	case errors.Is(err, services.ErrInvalidJob):
		return fiber.NewError(fiber.StatusBadRequest, services.ErrInvalidJob.Error())
	case errors.Is(err, services.ErrJobNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Job not found")
	case errors.Is(err, services.ErrExtraction):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Failed to extract text from CV")
	case errors.Is(err, services.ErrCompletion):
		return fiber.NewError(fiber.StatusBadGateway, "Completion service error")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}

func sendError(c *fiber.Ctx, err error) error {
	e := errorResponse(err)
	return c.Status(e.Code).JSON(fiber.Map{
		"error": e.Message,
	})
}

// ErrorHandler renders any error that escapes a handler as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	} else {
		log.Printf("❌ Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
