package models

import (
	"encoding/json"
	"errors"
	"net/url"
	"time"
)

var (
	ErrInvalidData = errors.New("invalid input data")
	ErrUnfound     = errors.New("link not found")
	ErrConflict    = errors.New("link already exists")
	ErrExpired     = errors.New("link is expired")
)

// Link is the stored record behind a short slug. Timestamps and expiration
// are unix seconds, matching the wire format of the management API.
type Link struct {
	ID           string          `json:"id"`
	Slug         string          `json:"slug"`
	URL          string          `json:"url"`
	Name         string          `json:"name,omitempty"`
	Comment      string          `json:"comment,omitempty"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description,omitempty"`
	Image        string          `json:"image,omitempty"`
	Organization string          `json:"organization,omitempty"`
	UTMSource    string          `json:"utm_source,omitempty"`
	UTMMedium    string          `json:"utm_medium,omitempty"`
	UTMCampaign  string          `json:"utm_campaign,omitempty"`
	UTMID        string          `json:"utm_id,omitempty"`
	QRStyle      json.RawMessage `json:"qr_style_options,omitempty"`
	CreatedAt    int64           `json:"createdAt"`
	UpdatedAt    int64           `json:"updatedAt"`
	Expiration   int64           `json:"expiration,omitempty"`
}

// Validate checks the fields the redirect path depends on. Expiration, when
// set, must still be in the future.
func (l Link) Validate(now time.Time) error {
	if l.URL == "" || l.Slug == "" {
		return ErrInvalidData
	}
	u, err := url.Parse(l.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidData
	}
	if l.Expiration != 0 && l.Expiration <= now.Unix() {
		return ErrExpired
	}
	return nil
}

// UTMParams returns the non-empty utm_* fields keyed by their query
// parameter names.
func (l Link) UTMParams() map[string]string {
	params := make(map[string]string, 4)
	if l.UTMSource != "" {
		params["utm_source"] = l.UTMSource
	}
	if l.UTMMedium != "" {
		params["utm_medium"] = l.UTMMedium
	}
	if l.UTMCampaign != "" {
		params["utm_campaign"] = l.UTMCampaign
	}
	if l.UTMID != "" {
		params["utm_id"] = l.UTMID
	}
	return params
}
