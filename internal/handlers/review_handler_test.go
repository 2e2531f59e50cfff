package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/services"
)

type stubReviewService struct {
	submitResult *models.Review
	submitErr    error

	deleteErr        error
	lastDeleteUserID int64
	lastReviewID     int64

	listResult []models.Review
	listMeta   models.PaginationMeta
	listErr    error
}

func (s *stubReviewService) SubmitReview(_ context.Context, _ services.SubmitReviewInput) (*models.Review, error) {
	return s.submitResult, s.submitErr
}

func (s *stubReviewService) DeleteReview(_ context.Context, userID, reviewID int64) error {
	s.lastDeleteUserID = userID
	s.lastReviewID = reviewID
	return s.deleteErr
}

func (s *stubReviewService) ListReviews(_ context.Context, _ string, _ int64, _, _ int) ([]models.Review, models.PaginationMeta, error) {
	return s.listResult, s.listMeta, s.listErr
}

func newReviewTestApp(service *stubReviewService) *fiber.App {
	handler := &ReviewHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "student")
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/reviews", handler.SubmitReview)
	app.Delete("/api/v1/reviews/:id", handler.DeleteReview)
	app.Get("/api/v1/reviews/:itemType/:itemId", handler.ListReviews)
	return app
}

func TestDeleteReviewForwardsOwnerAndID(t *testing.T) {
	service := &stubReviewService{}
	app := newReviewTestApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/13", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastDeleteUserID != 42 {
		t.Fatalf("expected user id 42, got %d", service.lastDeleteUserID)
	}
	if service.lastReviewID != 13 {
		t.Fatalf("expected review id 13, got %d", service.lastReviewID)
	}
}

func TestDeleteReviewMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"not owner", services.ErrNotOwner, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newReviewTestApp(&stubReviewService{deleteErr: tc.err})

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/13", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

func TestDeleteReviewRejectsInvalidID(t *testing.T) {
	app := newReviewTestApp(&stubReviewService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/zero", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
