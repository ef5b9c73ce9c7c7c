package handlers

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-resume-expert/internal/repositories"
	"alfredoptarigan/ats-resume-expert/internal/services"
)

// HTTPStatus maps an error from the service layer to a status code.
func HTTPStatus(err error) int {
	var (
		uploadErr    *services.UploadError
		parseErr     *services.DocumentParseError
		emptyErr     *services.EmptyDocumentError
		modeErr      *services.UnknownModeError
		inferenceErr *services.TransientInferenceError
		notFoundErr  *repositories.SessionNotFoundError
		validateErr  validator.ValidationErrors
		fiberErr     *fiber.Error
	)

	switch {
	case errors.As(err, &uploadErr),
		errors.As(err, &parseErr),
		errors.As(err, &modeErr),
		errors.As(err, &validateErr):
		return fiber.StatusBadRequest
	case errors.As(err, &emptyErr):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound
	case errors.As(err, &inferenceErr):
		return fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := HTTPStatus(err)
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  status,
	})
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// validationMessage reports the first failed field.
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		if ve.Param() != "" {
			return fmt.Sprintf("validation error: %s - %s=%s", ve.Field(), ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
