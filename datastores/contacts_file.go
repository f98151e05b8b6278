package datastores

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/VictoriaMetrics/metrics"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed contacts.schema.json
var contactsSchemaText string

var contactsSchema = jsonschema.MustCompileString( //nolint: gochecknoglobals // compiled once
	"https://oaiiae.github.io/addressbook/contacts.schema.json",
	contactsSchemaText,
)

// ContactsFile is a [ContactsInmem] whose every structural change is
// written to a JSON file. The file is read once, by [NewContactsFile].
type ContactsFile struct {
	*ContactsInmem

	path    string
	logger  *slog.Logger
	loadErr error

	writes, writeErrors, loadErrors *metrics.Counter
}

var _ ContactsList = (*ContactsFile)(nil)

type ContactsFileOption func(*ContactsFile)

func WithLogger(logger *slog.Logger) ContactsFileOption {
	return func(s *ContactsFile) { s.logger = logger }
}

// WithMetrics registers the file counters in set.
func WithMetrics(set *metrics.Set) ContactsFileOption {
	return func(s *ContactsFile) {
		s.writes = set.GetOrCreateCounter("contacts_file_writes_total")
		s.writeErrors = set.GetOrCreateCounter("contacts_file_write_errors_total")
		s.loadErrors = set.GetOrCreateCounter("contacts_file_load_errors_total")
	}
}

// NewContactsFile loads the contacts stored at path.
// A file that cannot be loaded leaves the store empty; see [ContactsFile.LoadErr].
func NewContactsFile(path string, opts ...ContactsFileOption) *ContactsFile {
	s := &ContactsFile{ContactsInmem: NewContactsInmem(), path: path, logger: slog.Default()}
	WithMetrics(metrics.NewSet())(s)
	for _, opt := range opts {
		opt(s)
	}
	s.ContactsInmem.flush = s.save
	_ = s.Load()
	return s
}

func (s *ContactsFile) Path() string { return s.path }

// Load replaces the contacts with the content of the file.
// On failure the store is emptied and the error is logged and kept.
func (s *ContactsFile) Load() error {
	cs, err := readContacts(s.path)

	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()

	if err != nil {
		s.loadErrors.Inc()
		s.logger.Warn("could not load contacts", "file", s.path, "err", err)
		s.replace(nil)
		return err
	}
	s.replace(cs)
	s.logger.Debug("contacts loaded", "file", s.path, "count", len(cs))
	return nil
}

// LoadErr returns the error of the last [ContactsFile.Load].
func (s *ContactsFile) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Save overwrites the file with the current contacts.
func (s *ContactsFile) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(s.contacts)
}

func (s *ContactsFile) save(cs []Contact) error {
	if cs == nil {
		cs = []Contact{}
	}
	data, err := json.MarshalIndent(cs, "", "  ")
	if err == nil {
		err = os.WriteFile(s.path, append(data, '\n'), 0o600)
	}
	if err != nil {
		s.writeErrors.Inc()
		s.logger.Error("could not save contacts", "file", s.path, "err", err)
		return fmt.Errorf("store: save contacts: %w", err)
	}
	s.writes.Inc()
	return nil
}

func readContacts(path string) ([]Contact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed contacts file: %w", err)
	}
	if err := contactsSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid contacts file: %w", err)
	}

	var cs []Contact
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("malformed contacts file: %w", err)
	}
	return cs, nil
}
