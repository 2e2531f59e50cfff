package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/services"
)

type ReviewHandler struct {
	service reviewService
}

type reviewService interface {
	SubmitReview(ctx context.Context, input services.SubmitReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, userID int64, reviewID int64) error
	ListReviews(ctx context.Context, itemType string, itemID int64, page, limit int) ([]models.Review, models.PaginationMeta, error)
}

func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type submitReviewRequest struct {
	ItemID   int64   `json:"item_id" validate:"required,min=1"`
	ItemType string  `json:"item_type" validate:"required,oneof=course session teacher"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Comment  *string `json:"comment"`
}

func (h *ReviewHandler) SubmitReview(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req submitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	review, err := h.service.SubmitReview(c.Context(), services.SubmitReviewInput{
		UserID:   userID,
		ItemID:   req.ItemID,
		ItemType: req.ItemType,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	reviewID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review id"})
	}

	if err := h.service.DeleteReview(c.Context(), userID, reviewID); err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Review deleted"})
}

func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	itemType := strings.TrimSpace(c.Params("itemType"))
	itemID, err := parseQueryID(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "itemId must be a positive integer"})
	}

	page, limit := parsePageParams(c)
	reviews, meta, err := h.service.ListReviews(c.Context(), itemType, itemID, page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"reviews": reviews, "pagination": meta})
}
