package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/services"
)

type BookingHandler struct {
	service bookingService
}

type bookingService interface {
	BookSession(ctx context.Context, userID, sessionID int64, notes *string) (*models.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID int64) (*services.CancellationResult, error)
	CancelSession(ctx context.Context, teacherID, sessionID int64) (processed, attempted int, err error)
	EnrollInCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	ListBookings(ctx context.Context, userID int64) ([]models.Booking, error)
}

func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type bookSessionRequest struct {
	Notes *string `json:"notes"`
}

func (h *BookingHandler) BookSession(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req bookSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	booking, err := h.service.BookSession(c.Context(), userID, sessionID, req.Notes)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	result, err := h.service.CancelBooking(c.Context(), userID, bookingID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *BookingHandler) CancelSession(c *fiber.Ctx) error {
	teacherID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	processed, attempted, err := h.service.CancelSession(c.Context(), teacherID, sessionID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"refunds_processed": processed,
		"total_bookings":    attempted,
	})
}

func (h *BookingHandler) EnrollInCourse(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	enrollment, err := h.service.EnrollInCourse(c.Context(), userID, courseID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"enrollment": enrollment})
}

func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	bookings, err := h.service.ListBookings(c.Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}
