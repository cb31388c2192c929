// Package link holds the shared request handling of the link management
// API: body decoding, defaulting and validation.
package link

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"shortlink/internal/models"
)

// Response is the body returned by create and upsert.
type Response struct {
	Link      models.Link `json:"link"`
	ShortLink string      `json:"shortLink"`
	Status    string      `json:"status,omitempty"`
}

// DecodeBody parses and validates a link payload, filling in generated id,
// slug and timestamps. The slug is lower-cased unless case-sensitive mode
// is on.
func DecodeBody(r *http.Request, pattern *regexp.Regexp, caseSensitive bool) (models.Link, error) {
	var link models.Link
	if err := json.NewDecoder(r.Body).Decode(&link); err != nil {
		return models.Link{}, fmt.Errorf("invalid request body: %w", err)
	}

	if link.URL == "" {
		return models.Link{}, errors.New("url is required")
	}
	if link.ID == "" {
		link.ID = models.NewLinkID()
	}
	if link.Slug == "" {
		slug, err := models.NewSlug()
		if err != nil {
			return models.Link{}, err
		}
		link.Slug = slug
	}
	if !caseSensitive {
		link.Slug = strings.ToLower(link.Slug)
	}
	if !pattern.MatchString(link.Slug) {
		return models.Link{}, fmt.Errorf("slug %q does not match the slug pattern", link.Slug)
	}

	now := time.Now()
	if link.CreatedAt == 0 {
		link.CreatedAt = now.Unix()
	}
	link.UpdatedAt = now.Unix()

	if err := link.Validate(now); err != nil {
		return models.Link{}, err
	}
	return link, nil
}
