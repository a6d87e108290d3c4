package service

import "concierge/internal/model"

// OverlaySession is the modal stack above the deck: Closed, or Detail(listing)
// with at most one nested overlay. It is not safe for concurrent use.
type OverlaySession struct {
	listing    *model.Listing
	imageIndex int
	nested     *nestedOverlay
}

type nestedOverlay struct {
	kind    model.NestedKind
	contact model.ContactKind

	// Renovation only. The target image is fixed when the overlay opens.
	key       model.JobKey
	imageURL  string
	comparing bool
}

// IsOpen reports whether a detail view is shown
func (o *OverlaySession) IsOpen() bool { return o.listing != nil }

// Select opens the detail of listing. Rejected while a detail is already open.
func (o *OverlaySession) Select(listing model.Listing) error {
	if o.listing != nil {
		return ErrDetailOpen
	}
	o.listing = &listing
	o.imageIndex = 0
	o.nested = nil
	return nil
}

// CloseDetail returns to Closed, discarding any nested overlay
func (o *OverlaySession) CloseDetail() error {
	if o.listing == nil {
		return ErrOverlayClosed
	}
	o.listing = nil
	o.imageIndex = 0
	o.nested = nil
	return nil
}

// OpenBooking replaces any nested overlay with the booking form
func (o *OverlaySession) OpenBooking() error {
	if o.listing == nil {
		return ErrOverlayClosed
	}
	o.nested = &nestedOverlay{kind: model.NestedBooking}
	return nil
}

// OpenRenovation replaces any nested overlay with the renovation panel,
// targeting the image currently under the gallery cursor.
func (o *OverlaySession) OpenRenovation() error {
	if o.listing == nil {
		return ErrOverlayClosed
	}
	o.nested = &nestedOverlay{
		kind:     model.NestedRenovation,
		key:      model.JobKey{ListingID: o.listing.ID, ImageIndex: o.imageIndex},
		imageURL: o.listing.Image(o.imageIndex),
	}
	return nil
}

// OpenContact replaces any nested overlay with the contact confirmation
func (o *OverlaySession) OpenContact(kind model.ContactKind) error {
	if !kind.Valid() {
		return ErrInvalidContact
	}
	if o.listing == nil {
		return ErrOverlayClosed
	}
	o.nested = &nestedOverlay{kind: model.NestedContact, contact: kind}
	return nil
}

// CloseNested drops back to the bare detail. Without a nested overlay it is a no-op.
func (o *OverlaySession) CloseNested() error {
	if o.listing == nil {
		return ErrOverlayClosed
	}
	o.nested = nil
	return nil
}

// ShiftImage moves the gallery cursor by delta, wrapping around the image count
func (o *OverlaySession) ShiftImage(delta int) error {
	if o.listing == nil {
		return ErrOverlayClosed
	}
	n := len(o.listing.Images)
	if n == 0 {
		return nil
	}
	o.imageIndex = ((o.imageIndex+delta)%n + n) % n
	return nil
}

// SetComparing toggles the hold-to-compare view of the renovation panel
func (o *OverlaySession) SetComparing(on bool) error {
	if o.nested == nil || o.nested.kind != model.NestedRenovation {
		return ErrNotRenovating
	}
	o.nested.comparing = on
	return nil
}

// RenovationTarget returns the job key and original image of the open renovation panel
func (o *OverlaySession) RenovationTarget() (model.JobKey, string, error) {
	if o.nested == nil || o.nested.kind != model.NestedRenovation {
		return model.JobKey{}, "", ErrNotRenovating
	}
	return o.nested.key, o.nested.imageURL, nil
}

// Listing returns the listing under the detail view
func (o *OverlaySession) Listing() (model.Listing, bool) {
	if o.listing == nil {
		return model.Listing{}, false
	}
	return *o.listing, true
}

// Nested returns the kind of the nested overlay, or "" when none is open
func (o *OverlaySession) Nested() model.NestedKind {
	if o.nested == nil {
		return ""
	}
	return o.nested.kind
}

// Snapshot describes the stack. Renovation job state is filled in by the caller.
func (o *OverlaySession) Snapshot() model.OverlaySnapshot {
	if o.listing == nil {
		return model.OverlaySnapshot{}
	}

	listing := *o.listing
	snap := model.OverlaySnapshot{
		Open:       true,
		Listing:    &listing,
		ImageIndex: o.imageIndex,
		Image:      listing.Image(o.imageIndex),
	}

	if o.nested != nil {
		nested := &model.NestedSnapshot{
			Kind:    o.nested.kind,
			Contact: o.nested.contact,
		}
		if o.nested.kind == model.NestedRenovation {
			key := o.nested.key
			nested.Key = &key
			nested.Comparing = o.nested.comparing
			nested.DisplayImage = o.nested.imageURL
		}
		snap.Nested = nested
	}

	return snap
}
