package datastores

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// Contact is one address book record. Every field but ID may be empty.
type Contact struct {
	ID        string `json:"id"          yaml:"id"`
	FirstName string `json:"first_name"  yaml:"first_name"`
	LastName  string `json:"last_name"   yaml:"last_name"`
	House     string `json:"house"       yaml:"house"`
	Street    string `json:"street"      yaml:"street"`
	Town      string `json:"town"        yaml:"town"`
	Postcode  string `json:"postcode"    yaml:"postcode"`
	Phone     string `json:"phone"       yaml:"phone"`
	Email     string `json:"email"       yaml:"email"`
}

type ContactsStore interface {
	List(context.Context) ([]Contact, error)
	Get(context.Context, string) (Contact, error)
	Create(context.Context, Contact) error
	Update(context.Context, string, Contact) error
	Delete(context.Context, string) error
}

// ContactsList is the positional view of a store, as rendered by a shell.
type ContactsList interface {
	ContactsStore
	Contacts() []Contact
	Add(Contact) error
	DeleteAt(int) (Contact, error)
	UpdateAt(int, Contact) error
	Commit() error
	LoadErr() error
}

var (
	ErrObjectNotFound = errors.New("store: object not found")
	ErrEmptyID        = errors.New("store: contact id is empty")
	ErrDuplicateID    = errors.New("store: contact id already exists")
	ErrOutOfRange     = errors.New("store: position out of range")
)

// sortContacts orders contacts by id, keeping the relative order of equal ids.
func sortContacts(cs []Contact) {
	slices.SortStableFunc(cs, func(a, b Contact) int { return strings.Compare(a.ID, b.ID) })
}
