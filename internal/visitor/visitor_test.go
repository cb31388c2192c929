package visitor

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uaChromeDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaGooglebot     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	uaCurl          = "curl/8.4.0"
	uaFacebookHit   = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
	uaCustomBot     = "MyCustomBot/2.1 (+https://example.com/bot)"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name     string
		ua       string
		wantName string
		wantType string
	}{
		{"desktop chrome", uaChromeDesktop, "Chrome", ""},
		{"googlebot", uaGooglebot, "Googlebot", TypeCrawler},
		{"curl", uaCurl, "cURL", TypeCLI},
		{"facebook fetcher", uaFacebookHit, "Facebook", TypeFetcher},
		{"wget", "Wget/1.21.3 (linux-gnu)", "Wget", TypeCLI},
		{"thunderbird", "Mozilla/5.0 (X11; Linux x86_64; rv:102.0) Gecko/20100101 Thunderbird/102.4.2", "Thunderbird", TypeEmail},
		{"vlc", "VLC/3.0.18 LibVLC/3.0.18", "VLC", TypeMediaPlayer},
		{"tesla", "Mozilla/5.0 (X11; GNU/Linux) AppleWebKit/601.1 (KHTML, like Gecko) Tesla QtCarBrowser Safari/601.1", "Tesla", TypeVehicle},
		{"self-identified bot", uaCustomBot, "mycustombot", TypeCrawler},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := ParseUserAgent(tt.ua)
			assert.Equal(t, tt.wantName, agent.Name)
			assert.Equal(t, tt.wantType, agent.Type)
		})
	}
}

func TestClassifyBotDetermination(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		headers map[string]string
		wantBot bool
	}{
		{"mainstream desktop browser", uaChromeDesktop, nil, false},
		{"crawler type", uaGooglebot, nil, true},
		{"fetcher type", uaFacebookHit, nil, true},
		{"generic bot name", uaCustomBot, nil, true},
		{"spider in name", "WebSpider/1.0", nil, true},
		{"verified bot verdict", uaChromeDesktop, map[string]string{"Cf-Verified-Bot": "true"}, true},
		{"cli is not a bot", uaCurl, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			headers.Set("User-Agent", tt.ua)
			for k, v := range tt.headers {
				headers.Set(k, v)
			}

			_, isBot := Classify(headers, "203.0.113.7:1234", GeoFromHeaders(headers))
			assert.Equal(t, tt.wantBot, isBot)
		})
	}
}

func TestClassifyProfile(t *testing.T) {
	headers := http.Header{}
	headers.Set("User-Agent", uaChromeDesktop)
	headers.Set("Referer", "https://news.ycombinator.com/item?id=1")
	headers.Set("Accept-Language", "fr-CH, fr;q=0.9, en;q=0.8")
	headers.Set("Cf-Connecting-Ip", "203.0.113.7")
	headers.Set("Cf-Ipcountry", "US")
	headers.Set("Cf-Region", "California")
	headers.Set("Cf-Ipcity", "San Francisco")
	headers.Set("Cf-Timezone", "America/Los_Angeles")
	headers.Set("Cf-Iplatitude", "37.7749")
	headers.Set("Cf-Iplongitude", "-122.4194")
	headers.Set("Cf-Ray", "8f2a6b3c9d1e2f3a-SJC")

	profile, isBot := Classify(headers, "10.0.0.1:443", GeoFromHeaders(headers))

	require.False(t, isBot)
	assert.Equal(t, "203.0.113.7", profile.IP)
	assert.Equal(t, "news.ycombinator.com", profile.Referer)
	assert.Equal(t, "fr-CH", profile.Language)
	assert.Equal(t, "US", profile.Country)
	assert.Equal(t, "\U0001F1FA\U0001F1F8 California,United States", profile.Region)
	assert.Equal(t, "\U0001F1FA\U0001F1F8 San Francisco,United States", profile.City)
	assert.Equal(t, "America/Los_Angeles", profile.Timezone)
	assert.Equal(t, "Chrome", profile.Browser)
	assert.Equal(t, "Windows", profile.OS)
	assert.Equal(t, "desktop", profile.DeviceType)
	assert.Equal(t, "SJC", profile.Colo)
	assert.Equal(t, 37.7749, profile.Latitude)
	assert.Equal(t, -122.4194, profile.Longitude)
}

func TestClassifyDegradesGracefully(t *testing.T) {
	headers := http.Header{}
	headers.Set("User-Agent", uaChromeDesktop)
	headers.Set("Referer", "://not-a-url")

	profile, _ := Classify(headers, "203.0.113.7:1234", GeoFromHeaders(headers))

	assert.Empty(t, profile.Referer)
	assert.Equal(t, "203.0.113.7", profile.IP, "falls back to the peer address")
	assert.Empty(t, profile.Country)
	assert.Empty(t, profile.Language)
	assert.Zero(t, profile.Latitude)
}

func TestClassifyRegionWithoutCountry(t *testing.T) {
	headers := http.Header{}
	headers.Set("User-Agent", uaChromeDesktop)
	headers.Set("Cf-Region", "Bavaria")

	profile, _ := Classify(headers, "203.0.113.7:1234", GeoFromHeaders(headers))

	// No country code: no flag, sentinel country name, no stray separators.
	assert.Equal(t, "Bavaria,Worldwide", profile.Region)
	assert.Equal(t, "Worldwide", profile.City)
}

func TestClientIPPrecedence(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.2")

	profile, _ := Classify(headers, "10.0.0.1:443", GeoFromHeaders(headers))
	assert.Equal(t, "198.51.100.4", profile.IP)

	headers.Set("X-Real-Ip", "198.51.100.5")
	profile, _ = Classify(headers, "10.0.0.1:443", GeoFromHeaders(headers))
	assert.Equal(t, "198.51.100.5", profile.IP)

	headers.Set("Cf-Connecting-Ip", "198.51.100.6")
	profile, _ = Classify(headers, "10.0.0.1:443", GeoFromHeaders(headers))
	assert.Equal(t, "198.51.100.6", profile.IP)
}
