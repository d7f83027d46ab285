package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"peopledesk/internal/employee"
	"peopledesk/internal/model"
)

type employeeGetAllRequest struct {
	Status       *model.Status `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	ManagerID    *uuid.UUID    `json:"manager_id"`
	DepartmentID *uuid.UUID    `json:"department_id"`
}

func (h *Handler) EmployeeGetAll(c *fiber.Ctx) error {
	var req employeeGetAllRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	employees, err := h.employees.GetAll(c.Context(), caller(c), employee.Filter{
		Status:       req.Status,
		ManagerID:    req.ManagerID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"employees": employees})
}

type employeeGetByIDRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

func (h *Handler) EmployeeGetByID(c *fiber.Ctx) error {
	var req employeeGetByIDRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	found, err := h.employees.GetByID(c.Context(), caller(c), req.ID)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"employee": found})
}

type employeeCreateRequest struct {
	FirstName string       `json:"first_name" validate:"required,max=100"`
	LastName  string       `json:"last_name" validate:"required,max=100"`
	Phone     string       `json:"phone" validate:"required,phone"`
	Email     string       `json:"email" validate:"required,email,max=100"`
	ManagerID *uuid.UUID   `json:"manager_id"`
	Status    model.Status `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (h *Handler) EmployeeCreate(c *fiber.Ctx) error {
	var req employeeCreateRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	created, err := h.employees.Create(c.Context(), caller(c), employee.CreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		ManagerID: req.ManagerID,
		Status:    req.Status,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"employee": created})
}

type employeeUpdateRequest struct {
	ID        uuid.UUID     `json:"id" validate:"required"`
	FirstName string        `json:"first_name" validate:"required,max=100"`
	LastName  string        `json:"last_name" validate:"required,max=100"`
	Phone     string        `json:"phone" validate:"required,phone"`
	Email     string        `json:"email" validate:"required,email,max=100"`
	ManagerID *uuid.UUID    `json:"manager_id"`
	Status    *model.Status `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (h *Handler) EmployeeUpdate(c *fiber.Ctx) error {
	var req employeeUpdateRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	updated, err := h.employees.Update(c.Context(), caller(c), employee.UpdateParams{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		ManagerID: req.ManagerID,
		Status:    req.Status,
	})
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"employee": updated})
}

type employeeToggleStatusRequest struct {
	ID     uuid.UUID    `json:"id" validate:"required"`
	Status model.Status `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

func (h *Handler) EmployeeToggleStatus(c *fiber.Ctx) error {
	var req employeeToggleStatusRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.respondError(c, err)
	}

	updated, err := h.employees.ToggleStatus(c.Context(), caller(c), req.ID, req.Status)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"employee": updated})
}

func (h *Handler) EmployeeGetManagers(c *fiber.Ctx) error {
	managers, err := h.employees.GetManagers(c.Context(), caller(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{"managers": managers})
}
