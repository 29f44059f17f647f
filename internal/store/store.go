package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gitlab.com/dirk.krummacker/contact-list/internal/model"
)

// Mirror receives the full collection after every mutation.
type Mirror interface {
	Save(ctx context.Context, contacts []model.Contact) error
}

// Loader provides the collection that the store starts with.
type Loader interface {
	Load(ctx context.Context) []model.Contact
}

// ValidationError is returned by Add when name or phone are rejected. The collection is left
// unchanged.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// WriteError is returned when the collection was changed but could not be written to the mirror.
// The in-memory collection stays authoritative.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not save contacts: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Store is the ordered collection of contacts, newest first.
type Store struct {
	mu       sync.Mutex
	contacts []model.Contact
	mirror   Mirror
	now      func() time.Time
	newId    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the clock used to stamp new contacts.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIdGenerator replaces the generator of contact ids. Generated ids must be unique.
func WithIdGenerator(newId func() string) Option {
	return func(s *Store) { s.newId = newId }
}

// New creates an empty store that saves every change to mirror.
func New(mirror Mirror, opts ...Option) *Store {
	s := &Store{
		mirror: mirror,
		now:    time.Now,
		newId:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the one provided by loader. Nothing is saved.
func (s *Store) Load(ctx context.Context, loader Loader) {
	contacts := loader.Load(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = slices.Clone(contacts)
}

// Add validates name and phone, creates a contact and inserts it at the head of the collection.
//
// The length bounds are checked on the values as submitted, the stored values are trimmed. If the
// contact was added but could not be saved, the contact is returned together with a *WriteError.
func (s *Store) Add(ctx context.Context, name string, phone string) (model.Contact, error) {
	if err := validate(name, phone); err != nil {
		return model.Contact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contact := model.Contact{
		Id:        s.uniqueId(),
		Name:      strings.TrimSpace(name),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: s.now().UnixMilli(),
	}
	s.contacts = slices.Insert(s.contacts, 0, contact)
	return contact, s.save(ctx)
}

// Delete removes the contact with the given id. It reports whether a contact was removed; the
// order of the remaining contacts does not change.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.contacts, func(c model.Contact) bool { return c.Id == id })
	if index < 0 {
		return false, nil
	}
	s.contacts = slices.Delete(s.contacts, index, index+1)
	return true, s.save(ctx)
}

// All returns a snapshot of the collection, newest first.
func (s *Store) All() []model.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.contacts)
}

// Len returns the number of contacts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

// save writes the collection to the mirror. It must be called with the lock held.
func (s *Store) save(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}
	if err := s.mirror.Save(ctx, slices.Clone(s.contacts)); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// uniqueId returns an id that is not used by any contact. It must be called with the lock held.
func (s *Store) uniqueId() string {
	for {
		id := s.newId()
		if !slices.ContainsFunc(s.contacts, func(c model.Contact) bool { return c.Id == id }) {
			return id
		}
	}
}

// validate checks that name and phone are present and within their length bounds.
func validate(name string, phone string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(phone) == "" {
		return &ValidationError{Message: "name and phone must not be empty"}
	}
	if !utf8.ValidString(name) || !utf8.ValidString(phone) {
		return &ValidationError{Message: "name and phone must be valid UTF-8 text"}
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		return &ValidationError{Message: fmt.Sprintf("name too long (at most %d characters)", model.MaxNameLength)}
	}
	if utf8.RuneCountInString(phone) > model.MaxPhoneLength {
		return &ValidationError{Message: fmt.Sprintf("phone too long (at most %d characters)", model.MaxPhoneLength)}
	}
	return nil
}
