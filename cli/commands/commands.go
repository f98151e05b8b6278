// Package commands holds the one-shot subcommands working on the contacts file.
package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oaiiae/addressbook/addressbook"
	"github.com/oaiiae/addressbook/cli/shell"
	ds "github.com/oaiiae/addressbook/datastores"
)

// Action is the body of a subcommand.
type Action func(cmd *cobra.Command, args []string, book *addressbook.Book) error

// Opener turns an [Action] into a cobra RunE, opening the address book
// the process options point to.
type Opener func(Action) func(*cobra.Command, []string) error

// New returns the subcommands.
func New(open Opener) []*cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: open(func(cmd *cobra.Command, _ []string, book *addressbook.Book) error {
			format, _ := cmd.Flags().GetString("format")
			return List(cmd.OutOrStdout(), ready(cmd, book), format)
		}),
	}
	list.Flags().String("format", "text", "output format: text, json or yaml")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: open(func(cmd *cobra.Command, args []string, book *addressbook.Book) error {
			yes, _ := cmd.Flags().GetBool("yes")
			return Delete(cmd.InOrStdin(), cmd.OutOrStdout(), ready(cmd, book), args[0], yes)
		}),
	}
	del.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	return []*cobra.Command{
		list,
		{
			Use:   "show ID",
			Short: "Show a contact",
			Args:  cobra.ExactArgs(1),
			RunE: open(func(cmd *cobra.Command, args []string, book *addressbook.Book) error {
				return Show(cmd.OutOrStdout(), ready(cmd, book), args[0])
			}),
		},
		{
			Use:     "add FIELD=VALUE...",
			Short:   "Add a contact",
			Example: "  addressbook add first_name=John last_name=Smith town=Bath",
			Args:    cobra.MinimumNArgs(1),
			RunE: open(func(cmd *cobra.Command, args []string, book *addressbook.Book) error {
				return Add(cmd.OutOrStdout(), ready(cmd, book), args)
			}),
		},
		{
			Use:     "edit ID FIELD=VALUE...",
			Short:   "Edit a contact",
			Example: "  addressbook edit john phone=01225000000 id=john.smith",
			Args:    cobra.MinimumNArgs(2), //nolint: mnd // id and one assignment
			RunE: open(func(cmd *cobra.Command, args []string, book *addressbook.Book) error {
				return Edit(cmd.OutOrStdout(), ready(cmd, book), args[0], args[1:])
			}),
		},
		del,
		{
			Use:   "shell",
			Short: "Browse and edit contacts interactively",
			Args:  cobra.NoArgs,
			RunE: open(func(cmd *cobra.Command, _ []string, book *addressbook.Book) error {
				return shell.Run(cmd.Context(), book, cmd.InOrStdin(), cmd.OutOrStdout())
			}),
		},
	}
}

// ready reports a pending load warning on stderr and acknowledges it.
func ready(cmd *cobra.Command, book *addressbook.Book) *addressbook.Book {
	if n := book.State().Notice; n != nil {
		cmd.PrintErrf("%s: %s\n", n.Kind, n.Text)
		book.Dispatch(addressbook.Dismiss{})
	}
	return book
}

func List(w io.Writer, book *addressbook.Book, format string) error {
	contacts := book.State().Contacts
	if contacts == nil {
		contacts = []ds.Contact{}
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(contacts)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2) //nolint: mnd
		if err := enc.Encode(contacts); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		_, err := fmt.Fprintln(w, plainTable(contacts))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// plainTable lays contacts out in columns, without borders.
func plainTable(contacts []ds.Contact) string {
	cell := lipgloss.NewStyle().PaddingRight(2) //nolint: mnd
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers("ID", "NAME", "TOWN", "PHONE", "EMAIL").
		StyleFunc(func(int, int) lipgloss.Style { return cell })
	for _, c := range contacts {
		t.Row(c.ID, strings.TrimSpace(c.FirstName+" "+c.LastName), c.Town, c.Phone, c.Email)
	}
	return t.String()
}

func Show(w io.Writer, book *addressbook.Book, id string) error {
	state, err := openContact(book, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, shell.RenderForm(state.Form))
	return err
}

func Add(w io.Writer, book *addressbook.Book, assignments []string) error {
	intents, err := parseAssignments(assignments)
	if err != nil {
		return err
	}

	book.Dispatch(addressbook.OpenAdd{})
	for _, intent := range intents {
		book.Dispatch(intent)
	}
	id := book.State().Form.Draft.ID
	if err := book.Dispatch(addressbook.Submit{}).Failed(); err != nil {
		return err
	}
	fmt.Fprintf(w, "added %s\n", id)
	return nil
}

func Edit(w io.Writer, book *addressbook.Book, id string, assignments []string) error {
	intents, err := parseAssignments(assignments)
	if err != nil {
		return err
	}
	if _, err := openContact(book, id); err != nil {
		return err
	}

	book.Dispatch(addressbook.Edit{})
	for _, intent := range intents {
		book.Dispatch(intent)
	}
	newID := book.State().Form.Draft.ID
	if err := book.Dispatch(addressbook.Submit{}).Failed(); err != nil {
		return err
	}
	if err := book.Dispatch(addressbook.Close{}).Failed(); err != nil {
		return err
	}
	fmt.Fprintf(w, "saved %s\n", newID)
	return nil
}

func Delete(r io.Reader, w io.Writer, book *addressbook.Book, id string, yes bool) error {
	i := book.State().IndexOf(id)
	if i < 0 {
		return fmt.Errorf("contact %q: %w", id, ds.ErrObjectNotFound)
	}

	book.Dispatch(addressbook.Select{Index: i})
	state := book.Dispatch(addressbook.RequestDelete{})
	if !yes {
		fmt.Fprintf(w, "%s [y/N] ", state.Notice.Text)
		answer, _ := bufio.NewReader(r).ReadString('\n')
		yes = strings.EqualFold(strings.TrimSpace(answer), "y") || strings.EqualFold(strings.TrimSpace(answer), "yes")
	}
	if !yes {
		book.Dispatch(addressbook.Dismiss{})
		fmt.Fprintln(w, "kept", id)
		return nil
	}

	if err := book.Dispatch(addressbook.Confirm{}).Failed(); err != nil {
		return err
	}
	fmt.Fprintln(w, "deleted", id)
	return nil
}

// openContact opens the contact with the given id in a read-only form.
func openContact(book *addressbook.Book, id string) (addressbook.State, error) {
	i := book.State().IndexOf(id)
	if i < 0 {
		return addressbook.State{}, fmt.Errorf("contact %q: %w", id, ds.ErrObjectNotFound)
	}
	book.Dispatch(addressbook.Select{Index: i})
	return book.Dispatch(addressbook.OpenView{}), nil
}

// parseAssignments turns FIELD=VALUE arguments into intents.
// The id is set last, so that a first name does not override it in the add form.
func parseAssignments(args []string) ([]addressbook.Intent, error) {
	var intents []addressbook.Intent
	var setID *addressbook.SetField
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected FIELD=VALUE, got %q", arg)
		}
		field, err := addressbook.ParseField(name)
		if err != nil {
			return nil, err
		}
		set := addressbook.SetField{Field: field, Value: value}
		if field == addressbook.ID {
			setID = &set
			continue
		}
		intents = append(intents, set)
	}
	if setID != nil {
		intents = append(intents, *setID)
	}
	return intents, nil
}
