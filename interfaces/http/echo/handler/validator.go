package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-tasksubmit/task"
)

// requestValidator adapts the task validator to echo.Validator.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{v: task.Validator()}
}

func (rv *requestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "filename must be 1-255 characters of [A-Za-z0-9._-]").SetInternal(err)
	}
	return nil
}
