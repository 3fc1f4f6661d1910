package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/postblog/platform/internal/core/domain"
)

var errInvalidPayload = domain.BadRequest("invalid payload")

// idParam parses a positive numeric path parameter.
func idParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.BadRequest("invalid " + name)
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}
