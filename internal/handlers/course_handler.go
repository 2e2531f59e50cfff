package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/repository"
	"github.com/sohail-1209/learnx/internal/services"
)

type CourseHandler struct {
	service courseCatalogService
}

type courseCatalogService interface {
	CreateCourse(ctx context.Context, input services.CreateCourseInput) (*models.Course, error)
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
	ListCourses(ctx context.Context, filter repository.CourseListFilter) ([]models.Course, error)
}

func NewCourseHandler(service *services.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

type createCourseRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"`
}

func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	teacherID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	course, err := h.service.CreateCourse(c.Context(), services.CreateCourseInput{
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"course": course})
}

func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course id"})
	}

	course, err := h.service.GetCourse(c.Context(), courseID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"course": course})
}

func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	filter := repository.CourseListFilter{
		Category: strings.TrimSpace(c.Query("category")),
	}
	if raw := strings.TrimSpace(c.Query("teacher_id")); raw != "" {
		teacherID, err := parseQueryID(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "teacher_id must be a positive integer"})
		}
		filter.TeacherID = &teacherID
	}

	courses, err := h.service.ListCourses(c.Context(), filter)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"courses": courses})
}
