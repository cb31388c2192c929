package storage

import (
	"context"

	"shortlink/internal/models"
)

const (
	// LinkKeyPrefix is the key namespace for serialized link records.
	LinkKeyPrefix = "link:"
	// MetaKeyPrefix is the key namespace for side-channel link metadata.
	MetaKeyPrefix = "metadata:link:"
)

// LinkStore is the key-value contract the resolver and the management API
// run against. Implementations must return models.ErrUnfound for missing or
// expired slugs.
type LinkStore interface {
	Get(ctx context.Context, slug string) (models.Link, error)
	Put(ctx context.Context, link models.Link) error
	Exists(ctx context.Context, slug string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// Metadata is the compact side channel stored next to each link record so
// the backing store can be inspected without decoding full records.
type Metadata struct {
	URL          string `json:"url"`
	Name         string `json:"name,omitempty"`
	Comment      string `json:"comment,omitempty"`
	Organization string `json:"organization,omitempty"`
	UTMSource    string `json:"utm_source,omitempty"`
	UTMMedium    string `json:"utm_medium,omitempty"`
	UTMCampaign  string `json:"utm_campaign,omitempty"`
	UTMID        string `json:"utm_id,omitempty"`
	Expiration   int64  `json:"expiration,omitempty"`
}

// MetadataOf extracts the side-channel metadata from a link record.
func MetadataOf(link models.Link) Metadata {
	return Metadata{
		URL:          link.URL,
		Name:         link.Name,
		Comment:      link.Comment,
		Organization: link.Organization,
		UTMSource:    link.UTMSource,
		UTMMedium:    link.UTMMedium,
		UTMCampaign:  link.UTMCampaign,
		UTMID:        link.UTMID,
		Expiration:   link.Expiration,
	}
}
