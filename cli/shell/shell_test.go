package shell

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaiiae/addressbook/addressbook"
	ds "github.com/oaiiae/addressbook/datastores"
)

var discardLogger = slog.New(slog.DiscardHandler)

func newModel(t *testing.T, content string) (tea.Model, *ds.ContactsFile) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	store := ds.NewContactsFile(path, ds.WithLogger(discardLogger))
	return New(addressbook.New(store, discardLogger)), store
}

// enter types each line into m and presses enter after it.
func enter(t *testing.T, m tea.Model, lines ...string) tea.Model {
	t.Helper()
	for _, line := range lines {
		for _, r := range line {
			if r == ' ' {
				m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}})
				continue
			}
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	return m
}

func lineWith(t *testing.T, view, s string) string {
	t.Helper()
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, s) {
			return line
		}
	}
	t.Fatalf("no line with %q in:\n%s", s, view)
	return ""
}

func TestModel_List(t *testing.T) {
	m, _ := newModel(t, `[{"id":"bob","town":"Ely"},{"id":"ann"}]`)

	view := enter(t, m, "select 2", "list").View()
	assert.Contains(t, view, "Contacts")
	assert.Contains(t, lineWith(t, view, "bob"), "*")
	assert.Contains(t, lineWith(t, view, "bob"), "Ely")
	assert.NotContains(t, lineWith(t, view, "ann"), "*")
	assert.Contains(t, view, "> ")
}

func TestModel_ArrowKeysSelect(t *testing.T) {
	m, _ := newModel(t, `[{"id":"a"},{"id":"b"},{"id":"c"}]`)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, lineWith(t, m.View(), " b "), "*")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Contains(t, lineWith(t, m.View(), " a "), "*", "stops at the first row")
}

func TestModel_AddContact(t *testing.T) {
	m, store := newModel(t, `[]`)

	m = enter(t, m, "add", "set first_name Carol", "set street Long Lane")
	view := m.View()
	assert.Contains(t, view, "New contact")
	assert.Contains(t, lineWith(t, view, "Street"), "Long Lane")
	assert.Contains(t, view, "contact> ")

	m = enter(t, m, "save")
	assert.Contains(t, m.View(), "Carol")
	assert.Equal(t, []ds.Contact{{ID: "Carol", FirstName: "Carol", Street: "Long Lane"}}, store.Contacts())
}

func TestModel_Backspace(t *testing.T) {
	m, _ := newModel(t, `[]`)

	m = enter(t, m, "add")
	for _, r := range "set town Yorkk" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, lineWith(t, m.View(), "Town"), "York")
	assert.NotContains(t, lineWith(t, m.View(), "Town"), "Yorkk")
}

func TestModel_WarningWaitsForAnswer(t *testing.T) {
	m, store := newModel(t, `[]`)

	m = enter(t, m, "add", "set phone 123", "save")
	view := m.View()
	assert.Contains(t, view, "WARNING: No Contact ID")
	assert.Contains(t, view, "Please add a contact ID")
	assert.Contains(t, view, "(ok) ")

	m = enter(t, m, "set id x")
	assert.Contains(t, m.View(), `"set id x" was ignored, answer ok first`)

	m = enter(t, m, "ok", "set id x", "save")
	assert.NotContains(t, m.View(), "WARNING")
	assert.Equal(t, []ds.Contact{{ID: "x", Phone: "123"}}, store.Contacts())
}

func TestModel_EditAndClose(t *testing.T) {
	m, store := newModel(t, `[{"id":"a"},{"id":"b"}]`)

	m = enter(t, m, "view 1", "edit")
	assert.Contains(t, m.View(), "Contact (editing)")

	enter(t, m, "set id c", "save", "close")
	assert.Equal(t, []ds.Contact{{ID: "b"}, {ID: "c"}}, store.Contacts())
}

func TestModel_Delete(t *testing.T) {
	m, store := newModel(t, `[{"id":"a"},{"id":"b"}]`)

	m = enter(t, m, "delete 1")
	assert.Contains(t, m.View(), "Really delete contact a?")
	assert.Contains(t, m.View(), "(yes/no) ")

	m = enter(t, m, "add")
	assert.Contains(t, m.View(), `"add" was ignored, answer yes or no first`)

	enter(t, m, "no", "delete 2", "yes")
	assert.Equal(t, []ds.Contact{{ID: "a"}}, store.Contacts())
}

func TestModel_Errors(t *testing.T) {
	m, _ := newModel(t, `[]`)

	assert.Contains(t, enter(t, m, "frobnicate").View(), `unknown command "frobnicate"`)
	assert.Contains(t, enter(t, m, "select x").View(), `expected a contact number, got "x"`)
	assert.Contains(t, enter(t, m, "set nickname y").View(), `unknown field "nickname"`)
	assert.Contains(t, enter(t, m, "help").View(), "first_name, last_name")
	assert.NotContains(t, enter(t, m, "help", "list").View(), "first_name, last_name")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t, `[]`)
	for _, line := range []string{"quit", "exit"} {
		typed := m
		for _, r := range line {
			typed, _ = typed.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
		quit, cmd := typed.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, quit.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_LoadWarning(t *testing.T) {
	m, _ := newModel(t, `[{"first_name":"no id"}]`)
	view := m.View()
	assert.Contains(t, view, "(no contacts)")
	assert.Contains(t, view, "WARNING: Contacts Not Loaded")
	assert.Contains(t, view, "(ok) ")
}

func TestRun_Script(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := ds.NewContactsFile(path, ds.WithLogger(discardLogger))
	book := addressbook.New(store, discardLogger)
	book.Dispatch(addressbook.Dismiss{})

	var out bytes.Buffer
	script := "add\nset first_name Dee\nset town Hull\nsave\n"
	require.NoError(t, Run(context.Background(), book, strings.NewReader(script), &out))

	assert.Equal(t, []ds.Contact{{ID: "Dee", FirstName: "Dee", Town: "Hull"}}, store.Contacts())
	assert.Contains(t, out.String(), "Dee")
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	book := addressbook.New(ds.NewContactsInmem(), discardLogger)
	err := Run(ctx, book, strings.NewReader("add\n"), new(bytes.Buffer))
	assert.ErrorIs(t, err, context.Canceled)
}
