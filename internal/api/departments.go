package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"peopledesk/internal/department"
	"peopledesk/internal/model"
)

type departmentGetAllRequest struct {
	Status *model.Status `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (h *Handler) DepartmentGetAll(c *fiber.Ctx) error {
	var req departmentGetAllRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	departments, err := h.departments.GetAll(c.Context(), caller(c), req.Status)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"departments": departments})
}

type departmentGetByIDRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

func (h *Handler) DepartmentGetByID(c *fiber.Ctx) error {
	var req departmentGetByIDRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	found, err := h.departments.GetByID(c.Context(), caller(c), req.ID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"department": found})
}

type departmentCreateRequest struct {
	Name      string       `json:"name" validate:"required,max=200"`
	ManagerID uuid.UUID    `json:"manager_id" validate:"required"`
	Status    model.Status `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (h *Handler) DepartmentCreate(c *fiber.Ctx) error {
	var req departmentCreateRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	created, err := h.departments.Create(c.Context(), caller(c), department.CreateParams{
		Name:      req.Name,
		ManagerID: req.ManagerID,
		Status:    req.Status,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"department": created})
}

type departmentUpdateRequest struct {
	ID        uuid.UUID     `json:"id" validate:"required"`
	Name      string        `json:"name" validate:"required,max=200"`
	ManagerID uuid.UUID     `json:"manager_id" validate:"required"`
	Status    *model.Status `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (h *Handler) DepartmentUpdate(c *fiber.Ctx) error {
	var req departmentUpdateRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	updated, err := h.departments.Update(c.Context(), caller(c), department.UpdateParams{
		ID:        req.ID,
		Name:      req.Name,
		ManagerID: req.ManagerID,
		Status:    req.Status,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"department": updated})
}

type departmentToggleStatusRequest struct {
	ID     uuid.UUID    `json:"id" validate:"required"`
	Status model.Status `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

func (h *Handler) DepartmentToggleStatus(c *fiber.Ctx) error {
	var req departmentToggleStatusRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	updated, err := h.departments.ToggleStatus(c.Context(), caller(c), req.ID, req.Status)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"department": updated})
}

type departmentMemberRequest struct {
	DepartmentID uuid.UUID `json:"department_id" validate:"required"`
	EmployeeID   uuid.UUID `json:"employee_id" validate:"required"`
}

func (h *Handler) DepartmentAddMember(c *fiber.Ctx) error {
	var req departmentMemberRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	if err := h.departments.AddMember(c.Context(), caller(c), req.DepartmentID, req.EmployeeID); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) DepartmentRemoveMember(c *fiber.Ctx) error {
	var req departmentMemberRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	if err := h.departments.RemoveMember(c.Context(), caller(c), req.DepartmentID, req.EmployeeID); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
