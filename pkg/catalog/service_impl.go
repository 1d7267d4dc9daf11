package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// service implements the Service interface
type service struct {
	store  CollectionStore
	events EventSink
	logger *slog.Logger
	now    func() time.Time
	newID  func() (string, error)
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the collection store for the service
func WithStore(store CollectionStore) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithLogger sets the logger used for non-fatal operational noise
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for derived fields (blog dates,
// order timestamps). Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithIDSource overrides the document id generator. Intended for tests.
func WithIDSource(newID func() (string, error)) Option {
	return func(s *service) {
		s.newID = newID
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		now:   time.Now,
		newID: NewID,
	}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("collection store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) GetAll(ctx context.Context, kind Kind) ([]Document, error) {
	if _, err := schemaFor(kind); err != nil {
		return nil, err
	}
	docs, err := s.store.LoadAll(ctx, kind)
	if err != nil {
		return nil, &DocumentError{Kind: kind, Op: "list", Err: err}
	}
	return docs, nil
}

func (s *service) GetByIDOrSlug(ctx context.Context, kind Kind, identifier string) (Document, error) {
	if _, err := schemaFor(kind); err != nil {
		return nil, err
	}
	docs, err := s.store.LoadAll(ctx, kind)
	if err != nil {
		return nil, &DocumentError{Kind: kind, Identifier: identifier, Op: "get", Err: err}
	}
	for _, doc := range docs {
		if doc.matches(identifier) {
			return doc, nil
		}
	}
	return nil, &DocumentError{Kind: kind, Identifier: identifier, Op: "get", Err: ErrNotFound}
}

func (s *service) Create(ctx context.Context, kind Kind, fields map[string]interface{}) (Document, error) {
	sc, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}

	bag, err := canonicalize(fields)
	if err != nil {
		return nil, &InputError{Kind: kind, Err: err}
	}

	doc, err := normalizeCreate(kind, sc, bag, s.now())
	if err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, &DocumentError{Kind: kind, Op: "create", Err: err}
	}
	doc["id"] = id
	if sc.hasSlug {
		doc["slug"] = Slugify(slugSource(sc, doc))
	}

	docs, err := s.store.LoadAll(ctx, kind)
	if err != nil {
		return nil, &DocumentError{Kind: kind, Op: "create", Err: err}
	}
	docs = append(docs, doc)
	if err := s.store.SaveAll(ctx, kind, docs); err != nil {
		return nil, &DocumentError{Kind: kind, Op: "create", Err: err}
	}

	if s.events != nil {
		if err := s.events.DocumentCreated(ctx, kind, doc); err != nil {
			s.logger.Warn("event sink failed", "event", "created", "kind", kind, "id", doc.ID(), "error", err)
		}
	}
	return doc, nil
}

func (s *service) Update(ctx context.Context, kind Kind, identifier string, fields map[string]interface{}) (Document, error) {
	sc, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}

	bag, err := canonicalize(fields)
	if err != nil {
		return nil, &InputError{Kind: kind, Err: err}
	}
	patch := normalizeUpdate(sc, bag)

	docs, err := s.store.LoadAll(ctx, kind)
	if err != nil {
		return nil, &DocumentError{Kind: kind, Identifier: identifier, Op: "update", Err: err}
	}
	for i, doc := range docs {
		if !doc.matches(identifier) {
			continue
		}
		// The patch never carries id or slug, so both survive the merge.
		updated := doc.Clone()
		for k, v := range patch {
			updated[k] = v
		}
		docs[i] = updated
		if err := s.store.SaveAll(ctx, kind, docs); err != nil {
			return nil, &DocumentError{Kind: kind, Identifier: identifier, Op: "update", Err: err}
		}
		if s.events != nil {
			if err := s.events.DocumentUpdated(ctx, kind, updated); err != nil {
				s.logger.Warn("event sink failed", "event", "updated", "kind", kind, "id", updated.ID(), "error", err)
			}
		}
		return updated, nil
	}
	return nil, &DocumentError{Kind: kind, Identifier: identifier, Op: "update", Err: ErrNotFound}
}

func (s *service) Delete(ctx context.Context, kind Kind, identifier string) (Document, error) {
	if _, err := schemaFor(kind); err != nil {
		return nil, err
	}

	docs, err := s.store.LoadAll(ctx, kind)
	if err != nil {
		return nil, &DocumentError{Kind: kind, Identifier: identifier, Op: "delete", Err: err}
	}
	for i, doc := range docs {
		if !doc.matches(identifier) {
			continue
		}
		docs = append(docs[:i], docs[i+1:]...)
		if err := s.store.SaveAll(ctx, kind, docs); err != nil {
			return nil, &DocumentError{Kind: kind, Identifier: identifier, Op: "delete", Err: err}
		}
		if s.events != nil {
			if err := s.events.DocumentDeleted(ctx, kind, doc); err != nil {
				s.logger.Warn("event sink failed", "event", "deleted", "kind", kind, "id", doc.ID(), "error", err)
			}
		}
		return doc, nil
	}
	return nil, &DocumentError{Kind: kind, Identifier: identifier, Op: "delete", Err: ErrNotFound}
}
