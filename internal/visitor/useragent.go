package visitor

import (
	"strings"

	"github.com/mileusna/useragent"
)

// Browser type taxonomy. Ordinary browsers carry an empty type; everything
// else is one of these categories.
const (
	TypeCrawler     = "crawler"
	TypeFetcher     = "fetcher"
	TypeCLI         = "cli"
	TypeEmail       = "email"
	TypeInApp       = "inapp"
	TypeMediaPlayer = "mediaplayer"
	TypeVehicle     = "vehicle"
)

// Device type classes beyond mobile/tablet/desktop.
const (
	deviceConsole  = "console"
	deviceSmartTV  = "smarttv"
	deviceWearable = "wearable"
)

// Agent is the parsed user-agent: browser name plus extended type, OS,
// device model and device class.
type Agent struct {
	Name       string
	Type       string
	OS         string
	Device     string
	DeviceType string
}

type agentRule struct {
	pattern string // lower-cased substring of the user-agent
	name    string
	kind    string
}

// agentRules is matched in order, before the general-purpose parser. The
// categories mirror the extended taxonomy used by the analytics schema:
// crawlers, CLI clients, email clients, fetchers, in-app browsers, media
// players and vehicle head-units.
var agentRules = []agentRule{
	// Crawlers: search-engine and SEO spiders.
	{"googlebot", "Googlebot", TypeCrawler},
	{"bingbot", "Bingbot", TypeCrawler},
	{"baiduspider", "Baiduspider", TypeCrawler},
	{"yandexbot", "YandexBot", TypeCrawler},
	{"duckduckbot", "DuckDuckBot", TypeCrawler},
	{"applebot", "Applebot", TypeCrawler},
	{"ahrefsbot", "AhrefsBot", TypeCrawler},
	{"semrushbot", "SemrushBot", TypeCrawler},
	{"mj12bot", "MJ12bot", TypeCrawler},
	{"gptbot", "GPTBot", TypeCrawler},

	// Command-line and programmatic clients.
	{"curl/", "cURL", TypeCLI},
	{"wget/", "Wget", TypeCLI},
	{"httpie/", "HTTPie", TypeCLI},
	{"python-requests", "Python Requests", TypeCLI},
	{"python-urllib", "Python urllib", TypeCLI},
	{"go-http-client", "Go-http-client", TypeCLI},
	{"okhttp/", "OkHttp", TypeCLI},
	{"axios/", "axios", TypeCLI},
	{"postmanruntime", "PostmanRuntime", TypeCLI},
	{"insomnia/", "Insomnia", TypeCLI},
	{"libwww-perl", "libwww-perl", TypeCLI},

	// Email clients.
	{"thunderbird/", "Thunderbird", TypeEmail},
	{"microsoft outlook", "Outlook", TypeEmail},
	{"outlook-express", "Outlook", TypeEmail},
	{"airmail", "Airmail", TypeEmail},
	{"mailbird", "Mailbird", TypeEmail},
	{"the bat!", "The Bat!", TypeEmail},

	// Fetchers: link preview and unfurling agents.
	{"facebookexternalhit", "Facebook", TypeFetcher},
	{"slackbot-linkexpanding", "Slack", TypeFetcher},
	{"twitterbot", "Twitter", TypeFetcher},
	{"telegrambot", "Telegram", TypeFetcher},
	{"discordbot", "Discord", TypeFetcher},
	{"whatsapp", "WhatsApp", TypeFetcher},
	{"linkedinbot", "LinkedIn", TypeFetcher},
	{"skypeuripreview", "Skype", TypeFetcher},
	{"pinterestbot", "Pinterest", TypeFetcher},
	{"vkshare", "VK", TypeFetcher},
	{"iframely", "Iframely", TypeFetcher},

	// In-app browsers.
	{"instagram", "Instagram", TypeInApp},
	{"fb_iab", "Facebook", TypeInApp},
	{"fban/", "Facebook", TypeInApp},
	{"fbav/", "Facebook", TypeInApp},
	{"micromessenger", "WeChat", TypeInApp},
	{" line/", "Line", TypeInApp},
	{"tiktok", "TikTok", TypeInApp},
	{"snapchat", "Snapchat", TypeInApp},
	{"gsa/", "Google Search App", TypeInApp},

	// Media players.
	{"vlc/", "VLC", TypeMediaPlayer},
	{"itunes/", "iTunes", TypeMediaPlayer},
	{"windows-media-player", "Windows Media Player", TypeMediaPlayer},
	{"winamp", "Winamp", TypeMediaPlayer},
	{"sonos/", "Sonos", TypeMediaPlayer},
	{"stagefright", "Stagefright", TypeMediaPlayer},
	{"foobar2000", "foobar2000", TypeMediaPlayer},

	// Vehicle head-units.
	{"qtcarbrowser", "Tesla", TypeVehicle},
	{"tesla/", "Tesla", TypeVehicle},
	{"carplay", "CarPlay", TypeVehicle},
	{"android auto", "Android Auto", TypeVehicle},
}

// extraDeviceRules classify hardware the general-purpose parser does not
// separate out.
var extraDeviceRules = []struct {
	pattern    string
	deviceType string
}{
	{"playstation", deviceConsole},
	{"xbox", deviceConsole},
	{"nintendo", deviceConsole},
	{"smart-tv", deviceSmartTV},
	{"smarttv", deviceSmartTV},
	{"appletv", deviceSmartTV},
	{"crkey", deviceSmartTV},
	{"roku", deviceSmartTV},
	{"watch os", deviceWearable},
}

// ParseUserAgent resolves a user-agent string against the extended taxonomy
// first and falls back to the general-purpose parser for ordinary browsers.
func ParseUserAgent(raw string) Agent {
	if raw == "" {
		return Agent{}
	}
	lower := strings.ToLower(raw)

	agent := Agent{}
	for _, rule := range agentRules {
		if strings.Contains(lower, rule.pattern) {
			agent.Name = rule.name
			agent.Type = rule.kind
			break
		}
	}

	parsed := useragent.Parse(raw)
	if agent.Name == "" {
		agent.Name = parsed.Name
		if name, ok := genericBotName(lower); ok {
			agent.Name = name
			agent.Type = TypeCrawler
		} else if parsed.Bot {
			agent.Type = TypeCrawler
		}
	}
	agent.OS = parsed.OS
	agent.Device = parsed.Device
	agent.DeviceType = deviceType(lower, parsed)
	return agent
}

// genericBotName catches self-identified bots and spiders that are not in
// the rule table, e.g. "MyBot/1.0".
func genericBotName(lower string) (string, bool) {
	for _, marker := range []string{"bot", "spider"} {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		start := idx
		for start > 0 && isNameByte(lower[start-1]) {
			start--
		}
		end := idx + len(marker)
		return lower[start:end], true
	}
	return "", false
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '-' || b == '_'
}

func deviceType(lower string, parsed useragent.UserAgent) string {
	for _, rule := range extraDeviceRules {
		if strings.Contains(lower, rule.pattern) {
			return rule.deviceType
		}
	}
	switch {
	case parsed.Mobile:
		return "mobile"
	case parsed.Tablet:
		return "tablet"
	case parsed.Desktop:
		return "desktop"
	}
	return ""
}
