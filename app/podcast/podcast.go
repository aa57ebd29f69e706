package podcast

import "time"

// Podcast is a subscribed external source. The update pipeline receives a
// snapshot by value and returns a diff; it never mutates the caller's copy.
type Podcast struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	Signature string `json:"signature"`
	Items     []Item `json:"items"`
}

// Item is one piece of content belonging to a podcast.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	PubDate     time.Time `json:"pub_date"`
	Cover       Cover     `json:"cover,omitempty"`
}

// Cover references an item's or podcast's artwork.
type Cover struct {
	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Same reports whether two items designate the same remote content.
// Identity is the persisted ID when both sides carry one, otherwise the
// canonical URL. Incidental fields (title, description, dates) are ignored
// so that two fetches of the same remote item always agree.
func (i Item) Same(o Item) bool {
	if i.ID != "" && o.ID != "" {
		return i.ID == o.ID
	}
	return i.URL != "" && i.URL == o.URL
}

// Key returns the identity key used for in-set deduplication.
func (i Item) Key() string {
	if i.URL != "" {
		return i.URL
	}
	return i.ID
}

// Contains reports whether the podcast already knows the given item.
func (p Podcast) Contains(item Item) bool {
	for _, known := range p.Items {
		if known.Same(item) {
			return true
		}
	}
	return false
}
