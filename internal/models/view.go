package models

import "time"

// DeviceInfo is the coarse classification of a viewer's device
type DeviceInfo struct {
	DeviceType  string `json:"deviceType"`
	Vendor      string `json:"deviceVendor"`
	BrowserName string `json:"browserName"`
}

// MenuView is a telemetry record written for each menu page view
type MenuView struct {
	ID           string    `json:"id"`
	MenuID       string    `json:"menuId"`
	RestaurantID string    `json:"restaurantId"`
	UserAgent    string    `json:"userAgent"`
	DeviceType   string    `json:"deviceType"`
	DeviceVendor string    `json:"deviceVendor"`
	BrowserName  string    `json:"browserName"`
	Referrer     string    `json:"referrer"`
	ScreenSize   string    `json:"screenSize"`
	Language     string    `json:"language"`
	TimeOfDay    int       `json:"timeOfDay"`
	DayOfWeek    int       `json:"dayOfWeek"`
	Timestamp    time.Time `json:"timestamp"`
}
