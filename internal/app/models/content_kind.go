package models

import (
	"fmt"
	"time"
)

// ContentKind tags the collections an administrator can delete from
type ContentKind string

const (
	KindNotice      ContentKind = "notice"
	KindTopic       ContentKind = "topic"
	KindResource    ContentKind = "resource"
	KindEvent       ContentKind = "event"
	KindMarketplace ContentKind = "marketplace"
	KindPlacement   ContentKind = "placement"
)

// ContentKinds lists every kind in display order
var ContentKinds = []ContentKind{KindNotice, KindTopic, KindResource, KindEvent, KindMarketplace, KindPlacement}

// ParseContentKind validates s
func ParseContentKind(s string) (ContentKind, error) {
	for _, k := range ContentKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// FeedItem is one entry of the home feed. Exactly one of the payload fields is set.
type FeedItem struct {
	Kind   ContentKind `json:"kind"`
	Date   time.Time   `json:"date"`
	Notice *Notice     `json:"notice,omitempty"`
	Event  *Event      `json:"event,omitempty"`
	Topic  *Topic      `json:"topic,omitempty"`
}

// SearchResults groups matches by collection
type SearchResults struct {
	Users     []User     `json:"users"`
	Topics    []Topic    `json:"topics"`
	Resources []Resource `json:"resources"`
	Events    []Event    `json:"events"`
}

// Empty reports whether nothing matched
func (r SearchResults) Empty() bool {
	return len(r.Users) == 0 && len(r.Topics) == 0 && len(r.Resources) == 0 && len(r.Events) == 0
}

// AdminStats counts the main collections
type AdminStats struct {
	Users     int `json:"users"`
	Notices   int `json:"notices"`
	Topics    int `json:"topics"`
	Resources int `json:"resources"`
	Events    int `json:"events"`
	Market    int `json:"marketplace"`
	Placement int `json:"placements"`
}
