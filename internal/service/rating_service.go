package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/Lixing-Zhang/menuwal/internal/repository"
)

var ErrInvalidRating = errors.New("name, mobile and a rating from 1 to 5 are required")

// Aggregate computes the mean and 1..5 distribution. An empty set averages 0.
// Values outside 1..5 are ignored.
func Aggregate(ratings []models.Rating) models.RatingStats {
	stats := models.RatingStats{Distribution: make(map[int]int, models.MaxRating)}
	for v := models.MinRating; v <= models.MaxRating; v++ {
		stats.Distribution[v] = 0
	}

	sum := 0
	for _, r := range ratings {
		if r.Value < models.MinRating || r.Value > models.MaxRating {
			continue
		}
		sum += r.Value
		stats.Distribution[r.Value]++
		stats.Total++
	}
	if stats.Total > 0 {
		stats.Average = float64(sum) / float64(stats.Total)
	}
	return stats
}

// RatingService records ratings and summarises them
type RatingService struct {
	ratings repository.RatingRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewRatingService(ratings repository.RatingRepository, logger *slog.Logger) *RatingService {
	return &RatingService{ratings: ratings, logger: logger, now: time.Now}
}

// Stats aggregates every rating of a restaurant
func (s *RatingService) Stats(ctx context.Context, restaurantID string) (models.RatingStats, error) {
	ratings, err := s.ratings.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return models.RatingStats{}, fmt.Errorf("failed to list ratings: %w", err)
	}
	return Aggregate(ratings), nil
}

// List returns ratings newest first along with their stats
func (s *RatingService) List(ctx context.Context, restaurantID string) ([]models.Rating, models.RatingStats, error) {
	ratings, err := s.ratings.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, models.RatingStats{}, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, Aggregate(ratings), nil
}

// SubmitResult carries the saved rating and, when the refetch succeeded, fresh stats
type SubmitResult struct {
	Rating *models.Rating      `json:"rating"`
	Stats  *models.RatingStats `json:"stats,omitempty"`
}

// Submit validates and saves a rating, then re-aggregates the full set.
// A failed refetch is logged and the result has no stats.
func (s *RatingService) Submit(ctx context.Context, restaurantID string, req models.RatingRequest) (*SubmitResult, error) {
	name := strings.TrimSpace(req.CustomerName)
	mobile := strings.TrimSpace(req.CustomerMobile)
	if name == "" || mobile == "" || req.Value < models.MinRating || req.Value > models.MaxRating {
		return nil, ErrInvalidRating
	}

	rating := &models.Rating{
		RestaurantID:   restaurantID,
		CustomerName:   name,
		CustomerMobile: mobile,
		Value:          req.Value,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	result := &SubmitResult{Rating: rating}
	stats, err := s.Stats(ctx, restaurantID)
	if err != nil {
		s.logger.Error("failed to refetch ratings", "restaurant_id", restaurantID, "error", err)
		return result, nil
	}
	result.Stats = &stats
	return result, nil
}
