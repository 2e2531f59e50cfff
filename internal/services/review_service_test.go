package services

import (
	"context"
	"errors"
	"testing"
)

func TestSubmitReviewRejectsBadInput(t *testing.T) {
	service := NewReviewService(nil, nil)

	cases := []struct {
		name     string
		input    SubmitReviewInput
		expected error
	}{
		{"rating too low", SubmitReviewInput{UserID: 1, ItemID: 2, ItemType: "session", Rating: 0}, ErrInvalidRating},
		{"rating too high", SubmitReviewInput{UserID: 1, ItemID: 2, ItemType: "session", Rating: 6}, ErrInvalidRating},
		{"unknown item type", SubmitReviewInput{UserID: 1, ItemID: 2, ItemType: "homework", Rating: 4}, ErrInvalidState},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.SubmitReview(context.Background(), tc.input)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestListReviewsRejectsUnknownItemType(t *testing.T) {
	service := NewReviewService(nil, nil)

	_, _, err := service.ListReviews(context.Background(), "homework", 1, 1, 10)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
