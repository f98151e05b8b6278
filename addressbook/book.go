// Package addressbook turns shell events into changes of a contacts store.
//
// Shells never mutate contacts themselves: they send an [Intent] to
// [Book.Dispatch] and render the [State] it returns.
package addressbook

import (
	"errors"
	"log/slog"
	"slices"

	ds "github.com/oaiiae/addressbook/datastores"
)

type NoticeKind string

const (
	Warning  NoticeKind = "warning"
	Error    NoticeKind = "error"
	Question NoticeKind = "question"
)

// Notice is a message waiting for the user.
// A [Question] runs its pending intent on [Confirm] and nothing on [Dismiss].
type Notice struct {
	Kind  NoticeKind
	Title string
	Text  string
	Err   error

	confirm Intent
}

// Form is an open contact window. Index is -1 for the add form.
type Form struct {
	Index    int
	Draft    ds.Contact
	Editable bool
	Altered  bool
	Saved    bool

	pending bool // the store holds an uncommitted update from this form
}

func (f *Form) Adding() bool { return f.Index < 0 }

type State struct {
	Contacts []ds.Contact
	Selected int
	Form     *Form
	Notice   *Notice
}

// Selection returns the selected contact, if any.
func (s State) Selection() (ds.Contact, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Contacts) {
		return ds.Contact{}, false
	}
	return s.Contacts[s.Selected], true
}

// IndexOf returns the position of the contact with the given id, or -1.
func (s State) IndexOf(id string) int {
	return slices.IndexFunc(s.Contacts, func(c ds.Contact) bool { return c.ID == id })
}

// Failed returns the error carried by a pending warning or error notice.
func (s State) Failed() error {
	if s.Notice == nil || s.Notice.Kind == Question {
		return nil
	}
	if s.Notice.Err != nil {
		return s.Notice.Err
	}
	return errors.New(s.Notice.Text)
}

type Book struct {
	store  ds.ContactsList
	logger *slog.Logger
	state  State
}

// New starts a book over store. When the store could not load its
// contacts, the first state carries a warning about it.
func New(store ds.ContactsList, logger *slog.Logger) *Book {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Book{store: store, logger: logger, state: State{Selected: -1}}
	b.state.Contacts = store.Contacts()
	if err := store.LoadErr(); err != nil {
		b.state.Notice = &Notice{
			Kind:  Warning,
			Title: "Contacts Not Loaded",
			Text:  "Could not load contacts, starting with an empty address book: " + err.Error(),
			Err:   err,
		}
	}
	return b
}

// State returns a copy of the current state.
func (b *Book) State() State {
	s := b.state
	s.Contacts = slices.Clone(s.Contacts)
	if s.Form != nil {
		form := *s.Form
		s.Form = &form
	}
	if s.Notice != nil {
		notice := *s.Notice
		s.Notice = &notice
	}
	return s
}

// Dispatch applies in and returns the new state.
// While a notice is pending only [Confirm] and [Dismiss] have an effect.
func (b *Book) Dispatch(in Intent) State {
	if b.state.Notice != nil {
		switch in.(type) {
		case Confirm, Dismiss:
		default:
			return b.State()
		}
	}
	in.apply(b)
	b.state.Contacts = b.store.Contacts()
	return b.State()
}

func (b *Book) notify(title string, err error) {
	n := &Notice{Kind: Error, Title: title, Text: err.Error(), Err: err}
	switch {
	case errors.Is(err, ds.ErrEmptyID):
		n.Kind, n.Title, n.Text = Warning, "No Contact ID", "Please add a contact ID"
	case errors.Is(err, ds.ErrDuplicateID):
		n.Kind, n.Title, n.Text = Warning, "Duplicate Contact ID", "This contact ID is already used by another contact"
	}
	b.logger.Debug("notice raised", "title", n.Title, "err", err)
	b.state.Notice = n
}

func (b *Book) ask(title, text string, confirm Intent) {
	b.state.Notice = &Notice{Kind: Question, Title: title, Text: text, confirm: confirm}
}
