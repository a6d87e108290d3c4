package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"concierge/internal/model"

	"go.uber.org/zap"
)

const interactionLogTimeout = 5 * time.Second

// Session is one conversation: narration, deck and overlay stack.
// Every transition holds mu, so transitions never interleave.
type Session struct {
	id           string
	locale       Locale
	assistant    Assistant
	parser       *ResponseParser
	cache        *EnhancementCache
	interactions InteractionLogger
	logger       *zap.Logger

	mu        sync.Mutex
	narration string
	inFlight  int
	deck      ResultDeck
	overlay   OverlaySession
	changed   chan struct{} // closed and replaced on every state change
}

// SessionDeps are the collaborators shared by every session
type SessionDeps struct {
	Locale       Locale
	Assistant    Assistant
	Cache        *EnhancementCache
	Interactions InteractionLogger
	Logger       *zap.Logger
}

// NewSession creates a session showing the locale greeting
func NewSession(id string, deps SessionDeps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interactions := deps.Interactions
	if interactions == nil {
		interactions = nopInteractionLogger{}
	}
	logger = logger.With(zap.String("session_id", id))

	return &Session{
		id:           id,
		locale:       deps.Locale,
		assistant:    deps.Assistant,
		parser:       NewResponseParser(deps.Locale, logger),
		cache:        deps.Cache,
		interactions: interactions,
		logger:       logger,
		narration:    deps.Locale.Greeting,
		changed:      make(chan struct{}),
	}
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Changes returns a channel closed at the next state change
func (s *Session) Changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// notifyLocked wakes every Changes waiter. Callers hold mu.
func (s *Session) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// SubmitQuery sends text to the assistant. Blank text is ignored and yields a nil channel;
// otherwise the returned channel is closed once the response has been applied.
//
// Overlapping queries are not ordered: whichever resolves last sets the narration.
func (s *Session) SubmitQuery(text string) <-chan struct{} {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	s.narration = s.locale.Searching
	s.inFlight++
	s.notifyLocked()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.resolveQuery(text)
	}()
	return done
}

func (s *Session) resolveQuery(text string) {
	startTime := time.Now()
	raw, err := s.assistant.Chat(context.Background(), text)
	took := time.Since(startTime).Milliseconds()

	entry := model.QueryLog{
		SessionID:      s.id,
		Query:          text,
		ResponseTimeMs: took,
	}

	if err != nil {
		s.logger.Warn("Assistant request failed", zap.Error(err), zap.Int64("took_ms", took))

		s.mu.Lock()
		s.narration = s.locale.Failure
		s.inFlight--
		s.notifyLocked()
		s.mu.Unlock()

		entry.Failed = true
		entry.Narration = s.locale.Failure
		s.logQuery(entry)
		return
	}

	parsed := s.parser.Parse(raw)

	s.mu.Lock()
	s.narration = parsed.Narration
	s.deck.Reset(parsed.Listings)
	s.inFlight--
	s.notifyLocked()
	s.mu.Unlock()

	s.logger.Info("Assistant response applied",
		zap.Int("listings", len(parsed.Listings)),
		zap.Int64("took_ms", took),
	)

	entry.Narration = parsed.Narration
	entry.ListingIDs = make(model.JSONArray, len(parsed.Listings))
	for i, l := range parsed.Listings {
		entry.ListingIDs[i] = string(l.ID)
	}
	s.logQuery(entry)
}

// Navigate moves the deck focus by delta and reports whether it changed
func (s *Session) Navigate(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changedIf(s.deck.Navigate(delta))
}

// Focus moves the deck focus to index and reports whether it changed
func (s *Session) Focus(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changedIf(s.deck.Focus(index))
}

func (s *Session) changedIf(changed bool) bool {
	if changed {
		s.notifyLocked()
	}
	return changed
}

// apply runs an overlay transition under mu and notifies on success
func (s *Session) apply(transition func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := transition(); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

// SelectListing opens the detail of a listing in the current deck
func (s *Session) SelectListing(id model.ListingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.deck.IndexOf(id)
	if idx < 0 {
		return ErrListingNotFound
	}
	if err := s.overlay.Select(s.deck.At(idx)); err != nil {
		return err
	}
	s.notifyLocked()

	s.logAction(string(id), model.ActionViewDetails, "")
	return nil
}

// CloseDetail closes the detail and any nested overlay
func (s *Session) CloseDetail() error {
	return s.apply(s.overlay.CloseDetail)
}

// ShiftImage moves the detail gallery cursor
func (s *Session) ShiftImage(delta int) error {
	return s.apply(func() error { return s.overlay.ShiftImage(delta) })
}

// OpenBooking opens the visit scheduling form
func (s *Session) OpenBooking() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.overlay.OpenBooking(); err != nil {
		return err
	}
	s.notifyLocked()
	s.logOverlayAction(model.ActionBooking, "")
	return nil
}

// OpenRenovation opens the renovation panel on the image under the gallery cursor
func (s *Session) OpenRenovation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.overlay.OpenRenovation(); err != nil {
		return err
	}
	s.notifyLocked()
	key, _, _ := s.overlay.RenovationTarget()
	s.logOverlayAction(model.ActionRenovation, key.String())
	return nil
}

// OpenContact opens the contact confirmation for kind
func (s *Session) OpenContact(kind model.ContactKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.overlay.OpenContact(kind); err != nil {
		return err
	}
	s.notifyLocked()
	action := model.ActionContactPhone
	if kind == model.ContactEmail {
		action = model.ActionContactEmail
	}
	s.logOverlayAction(action, "")
	return nil
}

// CloseNested returns to the bare detail
func (s *Session) CloseNested() error {
	return s.apply(s.overlay.CloseNested)
}

// RequestEnhancement asks for a renovation of the image under the open renovation panel.
// The returned channel is closed once the cache entry settles.
func (s *Session) RequestEnhancement(style string, mode model.RenovationMode) (<-chan struct{}, error) {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil, ErrEmptyStyle
	}
	if mode == "" {
		mode = model.ModeRoom
	}
	if !mode.Valid() {
		return nil, ErrInvalidMode
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key, imageURL, err := s.overlay.RenovationTarget()
	if err != nil {
		return nil, err
	}
	listing, _ := s.overlay.Listing()

	params := model.EnhancementParams{
		Style:    style,
		Mode:     mode,
		ImageURL: imageURL,
		Sqm:      listing.Sqm,
	}
	if mode == model.ModeHouse {
		params.GalleryImages = append([]string(nil), listing.Images...)
	}

	done, issued := s.cache.Request(key, params)
	s.notifyLocked()

	go func() {
		<-done
		s.mu.Lock()
		s.notifyLocked()
		s.mu.Unlock()

		if !issued {
			return
		}
		if job := s.cache.Get(key); job.Status == model.JobError {
			s.logAction(string(key.ListingID), model.ActionEnhanceFailed, job.Error)
		}
	}()
	return done, nil
}

// SelectVariant picks a generated variant of the renovation panel's job
func (s *Session) SelectVariant(index int) error {
	return s.apply(func() error {
		key, _, err := s.overlay.RenovationTarget()
		if err != nil {
			return err
		}
		return s.cache.SelectVariant(key, index)
	})
}

// CompareHold shows the original image while held
func (s *Session) CompareHold() error {
	return s.apply(func() error { return s.overlay.SetComparing(true) })
}

// CompareRelease shows the selected variant again
func (s *Session) CompareRelease() error {
	return s.apply(func() error { return s.overlay.SetComparing(false) })
}

// Snapshot returns the read model of the session
func (s *Session) Snapshot() model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.SessionSnapshot{
		SessionID: s.id,
		Narration: s.narration,
		Awaiting:  s.inFlight > 0,
		Listings:  s.deck.Listings(),
		Overlay:   s.overlay.Snapshot(),
	}
	if idx, ok := s.deck.ActiveIndex(); ok {
		snap.ActiveIndex = &idx
	}

	if nested := snap.Overlay.Nested; nested != nil && nested.Kind == model.NestedRenovation {
		job := s.cache.Get(*nested.Key)
		nested.Job = &job
		nested.DisplayImage = s.cache.DisplayImage(*nested.Key, nested.DisplayImage, nested.Comparing)
	}

	return snap
}

// logOverlayAction reports an action on the listing under the detail view. Callers hold mu.
func (s *Session) logOverlayAction(action, detail string) {
	listing, ok := s.overlay.Listing()
	if !ok {
		return
	}
	s.logAction(string(listing.ID), action, detail)
}

// Log action (non-blocking)
func (s *Session) logAction(listingID, action, detail string) {
	entry := model.ActionLog{SessionID: s.id, ListingID: listingID, Action: action, Detail: detail}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), interactionLogTimeout)
		defer cancel()
		if err := s.interactions.LogAction(ctx, entry); err != nil {
			s.logger.Warn("Failed to log action", zap.String("action", action), zap.Error(err))
		}
	}()
}

// Log query (non-blocking)
func (s *Session) logQuery(entry model.QueryLog) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), interactionLogTimeout)
		defer cancel()
		if err := s.interactions.LogQuery(ctx, entry); err != nil {
			s.logger.Warn("Failed to log query", zap.Error(err))
		}
	}()
}
