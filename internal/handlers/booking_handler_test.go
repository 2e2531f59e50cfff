package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/services"
)

type stubBookingService struct {
	bookResult    *models.Booking
	bookErr       error
	cancelResult  *services.CancellationResult
	cancelErr     error
	processed     int
	attempted     int
	cancelSessErr error
	enrollResult  *models.Enrollment
	enrollErr     error
	listResult    []models.Booking
	listErr       error

	lastUserID    int64
	lastSessionID int64
	lastBookingID int64
	lastCourseID  int64
	lastNotes     *string
}

func (s *stubBookingService) BookSession(_ context.Context, userID, sessionID int64, notes *string) (*models.Booking, error) {
	s.lastUserID = userID
	s.lastSessionID = sessionID
	s.lastNotes = notes
	return s.bookResult, s.bookErr
}

func (s *stubBookingService) CancelBooking(_ context.Context, userID, bookingID int64) (*services.CancellationResult, error) {
	s.lastUserID = userID
	s.lastBookingID = bookingID
	return s.cancelResult, s.cancelErr
}

func (s *stubBookingService) CancelSession(_ context.Context, teacherID, sessionID int64) (int, int, error) {
	s.lastUserID = teacherID
	s.lastSessionID = sessionID
	return s.processed, s.attempted, s.cancelSessErr
}

func (s *stubBookingService) EnrollInCourse(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	s.lastUserID = userID
	s.lastCourseID = courseID
	return s.enrollResult, s.enrollErr
}

func (s *stubBookingService) ListBookings(_ context.Context, userID int64) ([]models.Booking, error) {
	s.lastUserID = userID
	return s.listResult, s.listErr
}

func newBookingTestApp(service *stubBookingService) *fiber.App {
	handler := &BookingHandler{service: service}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", "student")
		c.Locals("user_id", "42")
		return c.Next()
	})
	app.Post("/api/v1/sessions/:id/book", handler.BookSession)
	app.Put("/api/v1/sessions/:id/cancel", handler.CancelSession)
	app.Put("/api/v1/bookings/:id/cancel", handler.CancelBooking)
	app.Get("/api/v1/bookings", handler.ListBookings)
	return app
}

func TestBookSessionReturnsCreatedBooking(t *testing.T) {
	service := &stubBookingService{
		bookResult: &models.Booking{ID: 91, SessionID: 7, UserID: 42, Status: models.BookingConfirmed},
	}
	app := newBookingTestApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/7/book", strings.NewReader(`{
		"notes": "please cover quadratic equations"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastUserID != 42 {
		t.Fatalf("expected user id 42, got %d", service.lastUserID)
	}
	if service.lastSessionID != 7 {
		t.Fatalf("expected session id 7, got %d", service.lastSessionID)
	}
	if service.lastNotes == nil || !strings.Contains(*service.lastNotes, "quadratic") {
		t.Fatalf("expected notes to be forwarded, got %v", service.lastNotes)
	}
}

func TestBookSessionMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"session full", services.ErrSessionFull, http.StatusConflict},
		{"duplicate booking", services.ErrDuplicateBooking, http.StatusConflict},
		{"session cancelled", services.ErrSessionCancelled, http.StatusConflict},
		{"already started", services.ErrSessionStarted, http.StatusUnprocessableEntity},
		{"self booking", services.ErrSelfBooking, http.StatusBadRequest},
		{"insufficient funds", services.ErrInsufficientFunds, http.StatusPaymentRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubBookingService{bookErr: tc.err}
			app := newBookingTestApp(service)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/7/book", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, resp.StatusCode)
			}
		})
	}
}

func TestCancelSessionReportsRefundCounts(t *testing.T) {
	service := &stubBookingService{processed: 3, attempted: 4}
	app := newBookingTestApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/12/cancel", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastSessionID != 12 {
		t.Fatalf("expected session id 12, got %d", service.lastSessionID)
	}

	var body struct {
		RefundsProcessed int `json:"refunds_processed"`
		TotalBookings    int `json:"total_bookings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.RefundsProcessed != 3 || body.TotalBookings != 4 {
		t.Fatalf("expected 3/4, got %d/%d", body.RefundsProcessed, body.TotalBookings)
	}
}

func TestCancelBookingRejectsInvalidID(t *testing.T) {
	service := &stubBookingService{}
	app := newBookingTestApp(service)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/zero/cancel", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
