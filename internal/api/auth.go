package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"peopledesk/internal/apperror"
	"peopledesk/internal/database"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	if err := h.limiter.CheckLogin(c.Context(), email); err != nil {
		return h.respondError(c, err)
	}

	user, err := h.db.GetUserByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Generic message to prevent email enumeration.
			return h.respondError(c, apperror.Unauthenticated("invalid email or password"))
		}
		return h.respondError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return h.respondError(c, apperror.Unauthenticated("invalid email or password"))
	}

	h.limiter.ResetLogin(c.Context(), email)

	sess, err := h.sessions.Get(c)
	if err != nil {
		return h.respondError(c, err)
	}
	sess.Set("user_id", user.ID.String())
	if err := sess.Save(); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"user": user})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if err := sess.Destroy(); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
