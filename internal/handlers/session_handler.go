package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/repository"
	"github.com/sohail-1209/learnx/internal/services"
)

type SessionHandler struct {
	service sessionCatalogService
}

type sessionCatalogService interface {
	CreateSession(ctx context.Context, input services.CreateSessionInput) (*models.Session, error)
	GetSession(ctx context.Context, sessionID int64) (*services.SessionDetail, error)
	ListAvailable(ctx context.Context, filter repository.SessionListFilter) ([]models.Session, error)
}

func NewSessionHandler(service *services.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

type createSessionRequest struct {
	CourseID    *int64          `json:"course_id"`
	Title       string          `json:"title" validate:"required"`
	Description *string         `json:"description"`
	StartTime   string          `json:"start_time" validate:"required"`
	EndTime     string          `json:"end_time" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	MaxStudents int             `json:"max_students" validate:"required,min=1"`
	Category    string          `json:"category" validate:"required"`
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	teacherID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startTime, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartTime))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "start_time must be a valid RFC3339 timestamp"})
	}
	endTime, err := time.Parse(time.RFC3339, strings.TrimSpace(req.EndTime))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "end_time must be a valid RFC3339 timestamp"})
	}

	session, err := h.service.CreateSession(c.Context(), services.CreateSessionInput{
		TeacherID:   teacherID,
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   startTime,
		EndTime:     endTime,
		Price:       req.Price,
		MaxStudents: req.MaxStudents,
		Category:    req.Category,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sessionID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	detail, err := h.service.GetSession(c.Context(), sessionID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(detail)
}

func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	filter := repository.SessionListFilter{
		Category: strings.TrimSpace(c.Query("category")),
	}

	if raw := strings.TrimSpace(c.Query("price_min")); raw != "" {
		priceMin, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price_min must be a number"})
		}
		filter.PriceMin = &priceMin
	}
	if raw := strings.TrimSpace(c.Query("price_max")); raw != "" {
		priceMax, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price_max must be a number"})
		}
		filter.PriceMax = &priceMax
	}
	if raw := strings.TrimSpace(c.Query("date_from")); raw != "" {
		dateFrom, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "date_from must be a valid RFC3339 timestamp"})
		}
		filter.DateFrom = &dateFrom
	}
	if raw := strings.TrimSpace(c.Query("date_to")); raw != "" {
		dateTo, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "date_to must be a valid RFC3339 timestamp"})
		}
		filter.DateTo = &dateTo
	}
	if raw := strings.TrimSpace(c.Query("teacher_id")); raw != "" {
		teacherID, err := parseQueryID(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "teacher_id must be a positive integer"})
		}
		filter.TeacherID = &teacherID
	}

	sessions, err := h.service.ListAvailable(c.Context(), filter)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}
