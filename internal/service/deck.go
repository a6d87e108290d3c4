package service

import "concierge/internal/model"

// ResultDeck is the ordered listing sequence with a focused index.
// It is not safe for concurrent use; Session serializes access.
type ResultDeck struct {
	listings    []model.Listing
	activeIndex int
}

// Reset replaces the listings and focuses the first one.
// An empty sequence leaves the deck untouched and reports false.
func (d *ResultDeck) Reset(listings []model.Listing) bool {
	if len(listings) == 0 {
		return false
	}
	d.listings = append([]model.Listing(nil), listings...)
	d.activeIndex = 0
	return true
}

// Navigate moves the focus by delta, clamped to the deck bounds.
// It reports whether the focus changed.
func (d *ResultDeck) Navigate(delta int) bool {
	if len(d.listings) == 0 {
		return false
	}
	last := len(d.listings) - 1
	var next int
	switch {
	case delta > last-d.activeIndex:
		next = last
	case delta < -d.activeIndex:
		next = 0
	default:
		next = d.activeIndex + delta
	}
	if next == d.activeIndex {
		return false
	}
	d.activeIndex = next
	return true
}

// Focus moves to index, clamped to the deck bounds
func (d *ResultDeck) Focus(index int) bool {
	if len(d.listings) == 0 {
		return false
	}
	return d.Navigate(clamp(index, 0, len(d.listings)-1) - d.activeIndex)
}

// Len returns the number of listings
func (d *ResultDeck) Len() int { return len(d.listings) }

// ActiveIndex returns the focused index and false when the deck is empty
func (d *ResultDeck) ActiveIndex() (int, bool) {
	if len(d.listings) == 0 {
		return 0, false
	}
	return d.activeIndex, true
}

// Active returns the focused listing
func (d *ResultDeck) Active() (model.Listing, bool) {
	if len(d.listings) == 0 {
		return model.Listing{}, false
	}
	return d.listings[d.activeIndex], true
}

// IndexOf returns the position of the listing with id, or -1
func (d *ResultDeck) IndexOf(id model.ListingID) int {
	for i := range d.listings {
		if d.listings[i].ID == id {
			return i
		}
	}
	return -1
}

// At returns the listing at index
func (d *ResultDeck) At(index int) model.Listing { return d.listings[index] }

// Listings returns a copy of the sequence
func (d *ResultDeck) Listings() []model.Listing {
	return append([]model.Listing(nil), d.listings...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
