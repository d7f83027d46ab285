// Package api exposes the typed RPC operations over HTTP. Operations are
// grouped by resource and named method-style (employee.getAll,
// department.update); every call is a POST with a JSON body.
package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"peopledesk/internal/apperror"
	"peopledesk/internal/database"
	"peopledesk/internal/department"
	"peopledesk/internal/employee"
	"peopledesk/internal/middleware"
	"peopledesk/internal/model"
	"peopledesk/internal/ratelimit"
	appvalidator "peopledesk/internal/validator"
)

type Handler struct {
	db          database.Store
	employees   *employee.Manager
	departments *department.Manager
	sessions    *session.Store
	validate    *appvalidator.Validator
	limiter     *ratelimit.Limiter
	logger      *slog.Logger
}

func NewHandler(
	db database.Store,
	employees *employee.Manager,
	departments *department.Manager,
	sessions *session.Store,
	validate *appvalidator.Validator,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		db:          db,
		employees:   employees,
		departments: departments,
		sessions:    sessions,
		validate:    validate,
		limiter:     limiter,
		logger:      logger,
	}
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)

	rpc := app.Group("/rpc", middleware.Authenticated(h.sessions, h.db))

	rpc.Post("/employee.getAll", h.EmployeeGetAll)
	rpc.Post("/employee.getById", h.EmployeeGetByID)
	rpc.Post("/employee.create", h.EmployeeCreate)
	rpc.Post("/employee.update", h.EmployeeUpdate)
	rpc.Post("/employee.toggleStatus", h.EmployeeToggleStatus)
	rpc.Post("/employee.getManagers", h.EmployeeGetManagers)

	rpc.Post("/department.getAll", h.DepartmentGetAll)
	rpc.Post("/department.getById", h.DepartmentGetByID)
	rpc.Post("/department.create", h.DepartmentCreate)
	rpc.Post("/department.update", h.DepartmentUpdate)
	rpc.Post("/department.toggleStatus", h.DepartmentToggleStatus)
	rpc.Post("/department.addMember", h.DepartmentAddMember)
	rpc.Post("/department.removeMember", h.DepartmentRemoveMember)
}

// caller returns the identity resolved by the auth middleware.
func caller(c *fiber.Ctx) model.Caller {
	resolved, _ := middleware.Caller(c)
	return resolved
}

// parseBody decodes and validates the request payload.
func (h *Handler) parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := h.validate.Validate(dst); err != nil {
		return apperror.Validation(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fe := vErrs[0]
		return fmt.Sprintf("field %q failed validation on %q", fe.Field(), fe.Tag())
	}
	return "invalid input"
}

// respondError translates domain errors into status codes; anything
// unclassified is logged and reported as a generic failure.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ratelimit.ErrTooManyAttempts) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": fiber.Map{"kind": "rate_limited", "message": err.Error()},
		})
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return c.Status(statusForKind(appErr.Kind)).JSON(fiber.Map{
			"error": fiber.Map{"kind": appErr.Kind, "message": appErr.Message},
		})
	}

	h.logger.Error("Unhandled error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{"kind": apperror.KindInternal, "message": "internal server error"},
	})
}

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindValidation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
