package handlers

import (
	"errors"
	"strings"
	"time"

	"kamulog-stk/internal/adapters/http/middleware"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/logger"
	"kamulog-stk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// getClientIP gets client IP address
func getClientIP(c *fiber.Ctx) string {
	ip := c.Get("X-Real-IP")
	if ip == "" {
		ip = c.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = c.IP()
	}
	return ip
}

// orgID returns the organization carried by the access token
func orgID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.LocalOrgID).(string)
	return id
}

// actor builds the audit actor for the current request
func actor(c *fiber.Ctx) domain.Actor {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	return domain.Actor{
		UserID:    userID,
		IPAddress: getClientIP(c),
	}
}

// parseDate accepts YYYY-MM-DD or RFC 3339. An empty string yields the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}

// parseOptionalDate is parseDate for optional update fields
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	return &t, nil
}

// handleError maps a service error to the response envelope by its kind
func handleError(c *fiber.Ctx, err error) error {
	code := domain.Kind(err)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.ErrorWithCode(c, fiber.StatusBadRequest, code, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.ErrorWithCode(c, fiber.StatusNotFound, code, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrState):
		return response.ErrorWithCode(c, fiber.StatusConflict, code, err.Error())
	case errors.Is(err, domain.ErrPrecondition):
		return response.ErrorWithCode(c, fiber.StatusUnprocessableEntity, code, err.Error())
	}

	logger.Log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("org_id", orgID(c)),
		zap.Error(err),
	)
	return response.ErrorWithCode(c, fiber.StatusInternalServerError, code, "Internal Server Error")
}
