package telemetry

import (
	"strings"
	"testing"
	"time"

	"github.com/Lixing-Zhang/menuwal/internal/models"
	"github.com/stretchr/testify/assert"
)

const (
	uaIPhone       = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaIPad         = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	uaSamsungPhone = "Mozilla/5.0 (Linux; Android 13; SAMSUNG SM-S918B) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/21.0 Chrome/110.0.5481.154 Mobile Safari/537.36"
	uaAndroidTab   = "Mozilla/5.0 (Linux; Android 12; Pixel C) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"
	uaWindows      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0"
	uaMacFirefox   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14.1; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaLinuxOpera   = "Opera/9.80 (X11; Linux x86_64) Presto/2.12.388 Version/12.16"
	uaIE11         = "Mozilla/5.0 (Windows NT 6.1; Trident/7.0; rv:11.0) like Gecko"
	uaMacSafari    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want models.DeviceInfo
	}{
		{"iPhone", uaIPhone, models.DeviceInfo{DeviceType: DeviceMobile, Vendor: "Apple", BrowserName: "Safari"}},
		{"iPad", uaIPad, models.DeviceInfo{DeviceType: DeviceTablet, Vendor: "Apple", BrowserName: "Safari"}},
		{"Samsung phone", uaSamsungPhone, models.DeviceInfo{DeviceType: DeviceMobile, Vendor: "Samsung", BrowserName: "Chrome"}},
		{"Android tablet", uaAndroidTab, models.DeviceInfo{DeviceType: DeviceTablet, Vendor: "Android", BrowserName: "Chrome"}},
		// Chrome is checked before Edge, so Chromium Edge reports Chrome.
		{"Windows Edge", uaWindows, models.DeviceInfo{DeviceType: DeviceDesktop, Vendor: "Microsoft", BrowserName: "Chrome"}},
		{"Mac Firefox", uaMacFirefox, models.DeviceInfo{DeviceType: DeviceDesktop, Vendor: "Apple", BrowserName: "Firefox"}},
		{"Mac Safari", uaMacSafari, models.DeviceInfo{DeviceType: DeviceDesktop, Vendor: "Apple", BrowserName: "Safari"}},
		{"Linux Opera", uaLinuxOpera, models.DeviceInfo{DeviceType: DeviceDesktop, Vendor: "Linux", BrowserName: "Opera"}},
		{"IE 11", uaIE11, models.DeviceInfo{DeviceType: DeviceDesktop, Vendor: "Microsoft", BrowserName: "Internet Explorer"}},
		{"curl", "curl/8.4.0", models.DeviceInfo{DeviceType: DeviceDesktop, Vendor: Unknown, BrowserName: Unknown}},
		{"empty", "", models.DeviceInfo{DeviceType: Unknown, Vendor: Unknown, BrowserName: Unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ua))
		})
	}
}

func TestClassify_IsDeterministic(t *testing.T) {
	for _, ua := range []string{uaIPhone, uaSamsungPhone, uaWindows, ""} {
		assert.Equal(t, Classify(ua), Classify(ua))
	}
}

func TestNewView(t *testing.T) {
	menu := &models.Menu{ID: "m1", RestaurantID: "r1"}
	now := time.Date(2024, 3, 10, 19, 30, 0, 0, time.UTC) // a Sunday

	view := NewView(menu, ViewRequest{
		UserAgent:  uaIPhone,
		ScreenSize: "390x844",
		Language:   "en-IN,en;q=0.9",
	}, now)

	assert.True(t, strings.HasPrefix(view.ID, "m1_1710099000000_"))
	assert.Len(t, view.ID, len("m1_1710099000000_")+8)
	assert.Equal(t, "r1", view.RestaurantID)
	assert.Equal(t, DeviceMobile, view.DeviceType)
	assert.Equal(t, "Apple", view.DeviceVendor)
	assert.Equal(t, "direct", view.Referrer)
	assert.Equal(t, "390x844", view.ScreenSize)
	assert.Equal(t, "en-IN", view.Language)
	assert.Equal(t, 19, view.TimeOfDay)
	assert.Equal(t, 0, view.DayOfWeek)
}

func TestNewView_Defaults(t *testing.T) {
	view := NewView(&models.Menu{ID: "m1"}, ViewRequest{Referrer: "https://instagram.com"}, time.Now())

	assert.Equal(t, Unknown, view.RestaurantID)
	assert.Equal(t, Unknown, view.ScreenSize)
	assert.Equal(t, Unknown, view.Language)
	assert.Equal(t, "https://instagram.com", view.Referrer)
}
