// Package telemetry classifies menu viewers for analytics.
package telemetry

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/google/uuid"
)

const Unknown = "unknown"

const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

type rule struct {
	pattern *regexp.Regexp
	value   string
}

var (
	mobileOrTablet = regexp.MustCompile(`(?i)Mobile|Android|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)
	tabletHint     = regexp.MustCompile(`(?i)iPad|Tablet|PlayBook|Silk`)

	androidRules = []rule{
		{regexp.MustCompile(`(?i)Samsung`), "Samsung"},
		{regexp.MustCompile(`(?i)LG`), "LG"},
		{regexp.MustCompile(`(?i)HTC`), "HTC"},
		{regexp.MustCompile(`(?i)Sony`), "Sony"},
	}

	// Checked in order; first match wins.
	browserRules = []rule{
		{regexp.MustCompile(`(?i)Chrome`), "Chrome"},
		{regexp.MustCompile(`(?i)Firefox`), "Firefox"},
		{regexp.MustCompile(`(?i)Safari`), "Safari"},
		{regexp.MustCompile(`(?i)Edge`), "Edge"},
		{regexp.MustCompile(`(?i)Opera|OPR`), "Opera"},
		{regexp.MustCompile(`(?i)MSIE|Trident`), "Internet Explorer"},
	}

	appleMobile = regexp.MustCompile(`(?i)iPhone|iPad|iPod`)
	android     = regexp.MustCompile(`(?i)Android`)
	windows     = regexp.MustCompile(`(?i)Windows`)
	macintosh   = regexp.MustCompile(`(?i)Macintosh`)
	linux       = regexp.MustCompile(`(?i)Linux`)
)

// Classify derives device class, vendor and browser family from a user agent.
// Unmatched input yields Unknown on that axis.
func Classify(userAgent string) models.DeviceInfo {
	return models.DeviceInfo{
		DeviceType:  deviceType(userAgent),
		Vendor:      vendor(userAgent),
		BrowserName: browser(userAgent),
	}
}

func deviceType(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return Unknown
	}
	if !mobileOrTablet.MatchString(ua) {
		return DeviceDesktop
	}
	if tabletHint.MatchString(ua) || androidWithoutMobile(ua) {
		return DeviceTablet
	}
	return DeviceMobile
}

// androidWithoutMobile reports whether an "Android" token is not followed by
// "Mobile" anywhere later in the string.
func androidWithoutMobile(ua string) bool {
	lower := strings.ToLower(ua)
	idx := strings.LastIndex(lower, "android")
	if idx < 0 {
		return false
	}
	return !strings.Contains(lower[idx:], "mobile")
}

func vendor(ua string) string {
	switch {
	case appleMobile.MatchString(ua):
		return "Apple"
	case android.MatchString(ua):
		for _, r := range androidRules {
			if r.pattern.MatchString(ua) {
				return r.value
			}
		}
		return "Android"
	case windows.MatchString(ua):
		return "Microsoft"
	case macintosh.MatchString(ua):
		return "Apple"
	case linux.MatchString(ua):
		return "Linux"
	}
	return Unknown
}

func browser(ua string) string {
	for _, r := range browserRules {
		if r.pattern.MatchString(ua) {
			return r.value
		}
	}
	return Unknown
}

// ViewRequest is the request metadata available when a menu is viewed
type ViewRequest struct {
	UserAgent  string
	Referrer   string
	ScreenSize string
	Language   string
}

// NewView builds the telemetry record for one view of menu
func NewView(menu *models.Menu, req ViewRequest, now time.Time) models.MenuView {
	info := Classify(req.UserAgent)

	return models.MenuView{
		ID:           fmt.Sprintf("%s_%d_%s", menu.ID, now.UnixMilli(), strings.ReplaceAll(uuid.New().String(), "-", "")[:8]),
		MenuID:       menu.ID,
		RestaurantID: orUnknown(menu.RestaurantID),
		UserAgent:    req.UserAgent,
		DeviceType:   info.DeviceType,
		DeviceVendor: info.Vendor,
		BrowserName:  info.BrowserName,
		Referrer:     orDefault(req.Referrer, "direct"),
		ScreenSize:   orUnknown(req.ScreenSize),
		Language:     orUnknown(primaryLanguage(req.Language)),
		TimeOfDay:    now.Hour(),
		DayOfWeek:    int(now.Weekday()),
		Timestamp:    now,
	}
}

// primaryLanguage extracts the first tag of an Accept-Language header
func primaryLanguage(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.TrimSpace(first)
}

func orUnknown(s string) string {
	return orDefault(s, Unknown)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
