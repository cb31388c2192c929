// Package accesslog maps a visit to the fixed-width positional record the
// analytics store requires: one index, sixteen string blobs, two numeric
// doubles. The slot order is a frozen wire contract; reordering it would
// silently corrupt every historical row, so both encode and decode are
// generated from the single slot table below.
package accesslog

import (
	"shortlink/internal/models"
	"shortlink/internal/visitor"
)

const (
	NumBlobs   = 16
	NumDoubles = 2
)

// Entry is the named field set of one access-log row.
type Entry struct {
	Slug        string
	URL         string
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

type blobSlot struct {
	name  string
	field func(*Entry) *string
}

type doubleSlot struct {
	name  string
	field func(*Entry) *float64
}

// blobSlots fixes blob positions 1..16. Do not reorder without a migration
// of the stored dataset.
var blobSlots = [NumBlobs]blobSlot{
	{"slug", func(e *Entry) *string { return &e.Slug }},
	{"url", func(e *Entry) *string { return &e.URL }},
	{"ua", func(e *Entry) *string { return &e.UserAgent }},
	{"ip", func(e *Entry) *string { return &e.IP }},
	{"referer", func(e *Entry) *string { return &e.Referer }},
	{"country", func(e *Entry) *string { return &e.Country }},
	{"region", func(e *Entry) *string { return &e.Region }},
	{"city", func(e *Entry) *string { return &e.City }},
	{"timezone", func(e *Entry) *string { return &e.Timezone }},
	{"language", func(e *Entry) *string { return &e.Language }},
	{"os", func(e *Entry) *string { return &e.OS }},
	{"browser", func(e *Entry) *string { return &e.Browser }},
	{"browserType", func(e *Entry) *string { return &e.BrowserType }},
	{"device", func(e *Entry) *string { return &e.Device }},
	{"deviceType", func(e *Entry) *string { return &e.DeviceType }},
	{"colo", func(e *Entry) *string { return &e.Colo }},
}

// doubleSlots fixes double positions 1..2.
var doubleSlots = [NumDoubles]doubleSlot{
	{"latitude", func(e *Entry) *float64 { return &e.Latitude }},
	{"longitude", func(e *Entry) *float64 { return &e.Longitude }},
}

// FromVisit flattens a resolved link and a visitor profile into an entry.
func FromVisit(link models.Link, profile visitor.Profile) Entry {
	return Entry{
		Slug:        link.Slug,
		URL:         link.URL,
		UserAgent:   profile.UserAgent,
		IP:          profile.IP,
		Referer:     profile.Referer,
		Country:     profile.Country,
		Region:      profile.Region,
		City:        profile.City,
		Timezone:    profile.Timezone,
		Language:    profile.Language,
		OS:          profile.OS,
		Browser:     profile.Browser,
		BrowserType: profile.BrowserType,
		Device:      profile.Device,
		DeviceType:  profile.DeviceType,
		Colo:        profile.Colo,
		Latitude:    profile.Latitude,
		Longitude:   profile.Longitude,
	}
}

// Blobs encodes the entry into the 16 fixed blob slots. Missing values
// become empty strings, never nulls.
func (e Entry) Blobs() []string {
	blobs := make([]string, NumBlobs)
	for i, slot := range blobSlots {
		blobs[i] = *slot.field(&e)
	}
	return blobs
}

// Doubles encodes the entry into the 2 fixed double slots. Missing values
// become zero.
func (e Entry) Doubles() []float64 {
	doubles := make([]float64, NumDoubles)
	for i, slot := range doubleSlots {
		doubles[i] = *slot.field(&e)
	}
	return doubles
}

// Decode is the structural inverse of Blobs/Doubles. Arrays shorter than
// the schema leave the remaining fields at their zero value.
func Decode(blobs []string, doubles []float64) Entry {
	var e Entry
	for i, slot := range blobSlots {
		if i >= len(blobs) {
			break
		}
		*slot.field(&e) = blobs[i]
	}
	for i, slot := range doubleSlots {
		if i >= len(doubles) {
			break
		}
		*slot.field(&e) = doubles[i]
	}
	return e
}

// BlobColumn resolves a field name to its 1-based blob position, for
// building queries against the stored dataset. Returns 0 for unknown names.
func BlobColumn(name string) int {
	for i, slot := range blobSlots {
		if slot.name == name {
			return i + 1
		}
	}
	return 0
}

// Record is the write unit the analytics store accepts. Indexes always
// holds exactly the link id.
type Record struct {
	Indexes []string
	Blobs   []string
	Doubles []float64
}

// NewRecord builds the analytics record for one visit.
func NewRecord(linkID string, e Entry) Record {
	return Record{
		Indexes: []string{linkID},
		Blobs:   e.Blobs(),
		Doubles: e.Doubles(),
	}
}
