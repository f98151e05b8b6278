// Package shell is an interactive terminal front end for an address book.
//
// [Model] reads a command line from key presses, turns it into
// addressbook intents and renders the state the book returns.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oaiiae/addressbook/addressbook"
)

const usage = `commands:
  list                 show the contacts
  select N             select contact N (or use the up and down keys)
  add                  open a form for a new contact
  view [N]             open the selected contact (or contact N)
  edit                 make the open contact editable
  set FIELD VALUE      change a field of the open form
  save                 add the new contact or save the edited one
  close                close the open form
  delete [N]           delete the selected contact (or contact N)
  yes | no | ok        answer a question, or acknowledge a warning or an error
  help                 show this help
  quit                 leave
fields: `

func help() string {
	names := make([]string, 0, len(addressbook.Fields))
	for _, f := range addressbook.Fields {
		names = append(names, f.String())
	}
	return usage + strings.Join(names, ", ")
}

var (
	errQuit = errors.New("quit")
	errHelp = errors.New("help")
)

type Model struct {
	book   *addressbook.Book
	state  addressbook.State
	input  string
	output string // reply to the last command line
	done   bool
}

var _ tea.Model = Model{}

func New(book *addressbook.Book) Model {
	return Model{book: book, state: book.State()}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.done = true
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyCtrlJ:
		line := m.input
		m.input = ""
		return m.exec(line)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	case tea.KeyUp:
		m = m.move(-1)
	case tea.KeyDown:
		m = m.move(1)
	}
	return m, nil
}

// move shifts the selection by delta rows.
func (m Model) move(delta int) Model {
	n := len(m.state.Contacts)
	if n == 0 || m.state.Form != nil || m.state.Notice != nil {
		return m
	}
	i := m.state.Selected + delta
	switch {
	case m.state.Selected < 0 && delta < 0:
		i = n - 1
	case i < 0:
		i = 0
	case i >= n:
		i = n - 1
	}
	m.state = m.book.Dispatch(addressbook.Select{Index: i})
	return m
}

func (m Model) exec(line string) (tea.Model, tea.Cmd) {
	m.output = ""
	intents, err := parse(line)
	switch {
	case errors.Is(err, errQuit):
		m.done = true
		return m, tea.Quit
	case errors.Is(err, errHelp):
		m.output = help()
	case err != nil:
		m.output = err.Error()
	}

	if n := m.state.Notice; n != nil && blocked(intents) {
		m.output = fmt.Sprintf("%q was ignored, answer %s first", strings.TrimSpace(line), answers(n))
	}
	for _, intent := range intents {
		m.state = m.book.Dispatch(intent)
	}
	m.state = m.book.State()
	return m, nil
}

// blocked reports whether intents hold anything a pending notice swallows.
func blocked(intents []addressbook.Intent) bool {
	for _, intent := range intents {
		switch intent.(type) {
		case addressbook.Confirm, addressbook.Dismiss:
		default:
			return true
		}
	}
	return false
}

func answers(n *addressbook.Notice) string {
	if n.Kind == addressbook.Question {
		return "yes or no"
	}
	return "ok"
}

func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(Render(m.state))
	b.WriteString("\n")
	if m.output != "" {
		b.WriteString(m.output)
		b.WriteString("\n")
	}
	b.WriteString(promptStyle.Render(prompt(m.state)))
	b.WriteString(m.input)
	b.WriteString(cursorStyle.Render(" "))
	return b.String()
}

func prompt(s addressbook.State) string {
	switch {
	case s.Notice != nil && s.Notice.Kind == addressbook.Question:
		return "(yes/no) "
	case s.Notice != nil:
		return "(ok) "
	case s.Form != nil:
		return "contact> "
	default:
		return "> "
	}
}

func parse(line string) ([]addressbook.Intent, error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "", "list", "ls":
		return nil, nil
	case "help", "?":
		return nil, errHelp
	case "quit", "exit":
		return nil, errQuit
	case "select":
		i, err := row(rest)
		if err != nil {
			return nil, err
		}
		return []addressbook.Intent{addressbook.Select{Index: i}}, nil
	case "add", "new":
		return []addressbook.Intent{addressbook.OpenAdd{}}, nil
	case "view", "show":
		return withRow(rest, addressbook.OpenView{})
	case "edit":
		return []addressbook.Intent{addressbook.Edit{}}, nil
	case "set":
		name, value, _ := strings.Cut(rest, " ")
		field, err := addressbook.ParseField(name)
		if err != nil {
			return nil, err
		}
		return []addressbook.Intent{addressbook.SetField{Field: field, Value: strings.TrimSpace(value)}}, nil
	case "save":
		return []addressbook.Intent{addressbook.Submit{}}, nil
	case "close":
		return []addressbook.Intent{addressbook.Close{}}, nil
	case "delete", "rm":
		return withRow(rest, addressbook.RequestDelete{})
	case "yes", "y", "ok":
		return []addressbook.Intent{addressbook.Confirm{}}, nil
	case "no", "n", "cancel":
		return []addressbook.Intent{addressbook.Dismiss{}}, nil
	default:
		return nil, fmt.Errorf("unknown command %q, type help", cmd)
	}
}

// row parses a 1-based row number.
func row(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a contact number, got %q", s)
	}
	return n - 1, nil
}

func withRow(s string, intent addressbook.Intent) ([]addressbook.Intent, error) {
	if s == "" {
		return []addressbook.Intent{intent}, nil
	}
	i, err := row(s)
	if err != nil {
		return nil, err
	}
	return []addressbook.Intent{addressbook.Select{Index: i}, intent}, nil
}

// Run runs the shell until the user quits, ctx is done or a non-terminal in is exhausted.
func Run(ctx context.Context, book *addressbook.Book, in io.Reader, out io.Writer) error {
	input := in
	var script *quitOnEOF
	if !terminal(in) {
		script = &quitOnEOF{Reader: in}
		input = script
	}

	p := tea.NewProgram(New(book), tea.WithContext(ctx), tea.WithInput(input), tea.WithOutput(out))
	if script != nil {
		script.quit = p.Quit
	}
	if _, err := p.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func terminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// quitOnEOF stops the program once a piped script is read.
type quitOnEOF struct {
	io.Reader
	quit func()
}

func (r *quitOnEOF) Read(b []byte) (int, error) {
	n, err := r.Reader.Read(b)
	if errors.Is(err, io.EOF) {
		if n > 0 {
			return n, nil
		}
		r.quit()
	}
	return n, err
}
