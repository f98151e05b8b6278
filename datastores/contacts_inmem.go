package datastores

import (
	"context"
	"slices"
	"sync"
)

// ContactsInmem implements [ContactsList].
// Contacts are kept sorted by id, except between [ContactsInmem.UpdateAt] and [ContactsInmem.Commit].
type ContactsInmem struct {
	mu       sync.Mutex
	contacts []Contact
	flush    func([]Contact) error // called with mu held after each structural change
}

var _ ContactsList = (*ContactsInmem)(nil)

func NewContactsInmem(cs ...Contact) *ContactsInmem {
	contacts := slices.Clone(cs)
	sortContacts(contacts)
	return &ContactsInmem{contacts: contacts}
}

func (s *ContactsInmem) Contacts() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.contacts)
}

func (s *ContactsInmem) Add(c Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		return ErrEmptyID
	}
	if s.index(c.ID) >= 0 {
		return ErrDuplicateID
	}
	prev := slices.Clone(s.contacts)
	s.contacts = append(s.contacts, c)
	sortContacts(s.contacts)
	return s.flushOrRestore(prev)
}

func (s *ContactsInmem) DeleteAt(i int) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteAt(i)
}

// UpdateAt replaces the contact at position i without re-sorting nor persisting.
// Call [ContactsInmem.Commit] once editing is done.
func (s *ContactsInmem) UpdateAt(i int, c Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateAt(i, c)
}

// Commit re-sorts the contacts and persists them.
func (s *ContactsInmem) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sortContacts(s.contacts)
	return s.flushLocked()
}

func (s *ContactsInmem) LoadErr() error { return nil }

func (s *ContactsInmem) List(_ context.Context) ([]Contact, error) {
	return s.Contacts(), nil
}

func (s *ContactsInmem) Get(_ context.Context, id string) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return Contact{}, ErrObjectNotFound
	}
	return s.contacts[i], nil
}

func (s *ContactsInmem) Create(_ context.Context, c Contact) error {
	return s.Add(c)
}

func (s *ContactsInmem) Update(_ context.Context, id string, c Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrObjectNotFound
	}
	prev := slices.Clone(s.contacts)
	if err := s.updateAt(i, c); err != nil {
		return err
	}
	sortContacts(s.contacts)
	return s.flushOrRestore(prev)
}

func (s *ContactsInmem) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return ErrObjectNotFound
	}
	_, err := s.deleteAt(i)
	return err
}

func (s *ContactsInmem) index(id string) int {
	return slices.IndexFunc(s.contacts, func(c Contact) bool { return c.ID == id })
}

func (s *ContactsInmem) deleteAt(i int) (Contact, error) {
	if i < 0 || i >= len(s.contacts) {
		return Contact{}, ErrOutOfRange
	}
	c, prev := s.contacts[i], slices.Clone(s.contacts)
	s.contacts = slices.Delete(s.contacts, i, i+1)
	return c, s.flushOrRestore(prev)
}

func (s *ContactsInmem) updateAt(i int, c Contact) error {
	if i < 0 || i >= len(s.contacts) {
		return ErrOutOfRange
	}
	if c.ID == "" {
		return ErrEmptyID
	}
	if c.ID != s.contacts[i].ID && s.index(c.ID) >= 0 {
		return ErrDuplicateID
	}
	s.contacts[i] = c
	return nil
}

// replace swaps the whole sequence, as done when loading.
func (s *ContactsInmem) replace(cs []Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sortContacts(cs)
	s.contacts = cs
}

// flushOrRestore persists the contacts, or puts prev back if that fails.
func (s *ContactsInmem) flushOrRestore(prev []Contact) error {
	if err := s.flushLocked(); err != nil {
		s.contacts = prev
		return err
	}
	return nil
}

func (s *ContactsInmem) flushLocked() error {
	if s.flush == nil {
		return nil
	}
	return s.flush(s.contacts)
}
