package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"peopledesk/internal/apperror"
	"peopledesk/internal/database"
	"peopledesk/internal/model"
)

// CallerKey is the fiber.Ctx locals key holding the resolved model.Caller.
const CallerKey = "caller"

// Authenticated resolves the session into a Caller and stores it in locals.
// The session only carries the user id; the role is loaded fresh from the
// store on every request because role transitions change it server-side.
func Authenticated(store *session.Store, db database.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fiber.Map{"kind": apperror.KindInternal, "message": "session error"},
			})
		}

		rawID, ok := sess.Get("user_id").(string)
		if !ok || rawID == "" {
			return unauthenticated(c)
		}
		userID, err := uuid.Parse(rawID)
		if err != nil {
			return unauthenticated(c)
		}

		user, err := db.GetUserByID(c.Context(), userID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return unauthenticated(c)
			}
			slog.Error("Failed to load user for session", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fiber.Map{"kind": apperror.KindInternal, "message": "internal server error"},
			})
		}

		caller := model.Caller{UserID: user.ID, Role: user.Role}
		if user.EmployeeID != nil {
			caller.EmployeeID = *user.EmployeeID
		}
		c.Locals(CallerKey, caller)

		return c.Next()
	}
}

// Caller returns the resolved caller stored by Authenticated.
func Caller(c *fiber.Ctx) (model.Caller, bool) {
	caller, ok := c.Locals(CallerKey).(model.Caller)
	return caller, ok
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": fiber.Map{"kind": apperror.KindUnauthenticated, "message": "authentication required"},
	})
}
