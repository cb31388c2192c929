// Package visitor classifies an incoming redirect request into a structured
// profile: network identity, geo placement from edge headers, negotiated
// language, and a user-agent taxonomy that goes beyond ordinary browsers.
package visitor

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Profile is the flattened, per-request view of a visitor. It is never
// persisted as-is; the access log encoder turns it into positional slots.
type Profile struct {
	UserAgent   string
	IP          string
	Referer     string
	Country     string
	Region      string
	City        string
	Timezone    string
	Language    string
	OS          string
	Browser     string
	BrowserType string
	Device      string
	DeviceType  string
	Colo        string
	Latitude    float64
	Longitude   float64
}

// Geo is the edge-provided request metadata, extracted from the headers the
// platform sets in front of the service.
type Geo struct {
	Country     string
	Region      string
	City        string
	Timezone    string
	Colo        string
	Latitude    float64
	Longitude   float64
	VerifiedBot bool
}

// GeoFromHeaders reads the edge geo headers. The colo identifier is the
// data-center suffix of the ray id.
func GeoFromHeaders(headers http.Header) Geo {
	geo := Geo{
		Country:     headers.Get("Cf-Ipcountry"),
		Region:      headers.Get("Cf-Region"),
		City:        headers.Get("Cf-Ipcity"),
		Timezone:    headers.Get("Cf-Timezone"),
		VerifiedBot: headers.Get("Cf-Verified-Bot") == "true",
	}
	if lat, err := strconv.ParseFloat(headers.Get("Cf-Iplatitude"), 64); err == nil {
		geo.Latitude = lat
	}
	if lon, err := strconv.ParseFloat(headers.Get("Cf-Iplongitude"), 64); err == nil {
		geo.Longitude = lon
	}
	if ray := headers.Get("Cf-Ray"); ray != "" {
		if idx := strings.LastIndexByte(ray, '-'); idx >= 0 && idx < len(ray)-1 {
			geo.Colo = ray[idx+1:]
		}
	}
	return geo
}

// Classify builds the visitor profile and decides bot status. Bot is the OR
// of three signals: the upstream verified-bot verdict, a crawler/fetcher
// browser type, and a browser name of "spider" or "bot".
func Classify(headers http.Header, remoteAddr string, geo Geo) (Profile, bool) {
	userAgent := headers.Get("User-Agent")
	agent := ParseUserAgent(userAgent)

	countryName := CountryName(geo.Country)
	flag := Flag(geo.Country)

	profile := Profile{
		UserAgent:   userAgent,
		IP:          clientIP(headers, remoteAddr),
		Referer:     refererHost(headers.Get("Referer")),
		Country:     geo.Country,
		Region:      displayLocation(flag, geo.Region, countryName),
		City:        displayLocation(flag, geo.City, countryName),
		Timezone:    geo.Timezone,
		Language:    preferredLanguage(headers.Get("Accept-Language")),
		OS:          agent.OS,
		Browser:     agent.Name,
		BrowserType: agent.Type,
		Device:      agent.Device,
		DeviceType:  agent.DeviceType,
		Colo:        geo.Colo,
		Latitude:    geo.Latitude,
		Longitude:   geo.Longitude,
	}

	isBot := geo.VerifiedBot ||
		agent.Type == TypeCrawler || agent.Type == TypeFetcher ||
		strings.ToLower(agent.Name) == "spider" || strings.ToLower(agent.Name) == "bot"

	return profile, isBot
}

// clientIP prefers the edge-supplied connecting-ip headers over the raw
// peer address, which is usually the edge itself.
func clientIP(headers http.Header, remoteAddr string) string {
	if ip := headers.Get("Cf-Connecting-Ip"); ip != "" {
		return ip
	}
	if ip := headers.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	if fwd := headers.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// refererHost reduces the referer to its host. Unparsable values degrade to
// an empty field rather than failing the pipeline.
func refererHost(referer string) string {
	if referer == "" {
		return ""
	}
	u, err := url.Parse(referer)
	if err != nil {
		return ""
	}
	return u.Host
}

// preferredLanguage picks the highest-weighted tag of an Accept-Language
// header.
func preferredLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

// displayLocation composes "{flag} {part},{country}" with empty parts
// omitted.
func displayLocation(flag, part, country string) string {
	parts := make([]string, 0, 2)
	if part != "" {
		parts = append(parts, part)
	}
	if country != "" {
		parts = append(parts, country)
	}
	joined := strings.Join(parts, ",")
	if flag == "" {
		return joined
	}
	if joined == "" {
		return flag
	}
	return flag + " " + joined
}
