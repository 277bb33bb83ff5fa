package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a customer's star rating of a restaurant
type Rating struct {
	ID             string    `json:"id"`
	RestaurantID   string    `json:"restaurantId"`
	CustomerName   string    `json:"customerName"`
	CustomerMobile string    `json:"customerMobile"`
	Value          int       `json:"rating"`
	CreatedAt      time.Time `json:"timestamp"`
}

// RatingRequest is the body of a rating submission
type RatingRequest struct {
	CustomerName   string `json:"customerName"`
	CustomerMobile string `json:"customerMobile"`
	Value          int    `json:"rating"`
}

// RatingStats summarises a set of ratings. Distribution always has keys 1..5.
type RatingStats struct {
	Total        int         `json:"totalRatings"`
	Average      float64     `json:"averageRating"`
	Distribution map[int]int `json:"ratingDistribution"`
}
