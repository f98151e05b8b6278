package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oaiiae/addressbook/addressbook"
	ds "github.com/oaiiae/addressbook/datastores"
)

type result struct {
	stdout, stderr string
	err            error
}

// execute runs the subcommand in args against a contacts file holding content.
func execute(t *testing.T, path, stdin string, args ...string) result {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	opener := func(action Action) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store := ds.NewContactsFile(path, ds.WithLogger(logger))
			return action(cmd, args, addressbook.New(store, logger))
		}
	}

	root := &cobra.Command{Use: "addressbook", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(New(opener)...)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return result{stdout.String(), stderr.String(), err}
}

func dataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func stored(t *testing.T, path string) []ds.Contact {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cs []ds.Contact
	require.NoError(t, json.Unmarshal(data, &cs))
	return cs
}

func TestList(t *testing.T) {
	path := dataFile(t, `[{"id":"b","first_name":"Bo","last_name":"Li","town":"Ely"},{"id":"a"}]`)

	res := execute(t, path, "", "list")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "a "))
	assert.Contains(t, lines[2], "Bo Li")

	res = execute(t, path, "", "list", "--format", "json")
	require.NoError(t, res.err)
	var cs []ds.Contact
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &cs))
	assert.Equal(t, []string{"a", "b"}, []string{cs[0].ID, cs[1].ID})

	res = execute(t, path, "", "list", "--format", "yaml")
	require.NoError(t, res.err)
	cs = nil
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &cs))
	assert.Equal(t, "Ely", cs[1].Town)

	res = execute(t, path, "", "list", "--format", "xml")
	assert.ErrorContains(t, res.err, `unknown format "xml"`)
}

func TestList_LoadWarning(t *testing.T) {
	res := execute(t, dataFile(t, `oops`), "", "list", "--format", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "warning: Could not load contacts")
	assert.JSONEq(t, `[]`, res.stdout)
}

func TestShow(t *testing.T) {
	path := dataFile(t, `[{"id":"a","postcode":"BA1"}]`)
	res := execute(t, path, "", "show", "a")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Postcode")
	assert.Contains(t, res.stdout, "BA1")

	res = execute(t, path, "", "show", "zz")
	assert.ErrorIs(t, res.err, ds.ErrObjectNotFound)
}

func TestAdd(t *testing.T) {
	path := dataFile(t, `[{"id":"z"}]`)

	res := execute(t, path, "", "add", "id=jo", "first_name=Joanna", "town=York")
	require.NoError(t, res.err)
	assert.Equal(t, "added jo\n", res.stdout)
	assert.Equal(t, []ds.Contact{{ID: "jo", FirstName: "Joanna", Town: "York"}, {ID: "z"}}, stored(t, path))

	res = execute(t, path, "", "add", "first_name=Kim")
	require.NoError(t, res.err)
	assert.Equal(t, "added Kim\n", res.stdout, "id defaults to the first name")

	res = execute(t, path, "", "add", "phone=1")
	assert.ErrorIs(t, res.err, ds.ErrEmptyID)
	res = execute(t, path, "", "add", "id=z")
	assert.ErrorIs(t, res.err, ds.ErrDuplicateID)
	res = execute(t, path, "", "add", "nickname=x")
	assert.ErrorContains(t, res.err, `unknown field "nickname"`)
	res = execute(t, path, "", "add", "just-text")
	assert.ErrorContains(t, res.err, "expected FIELD=VALUE")
	assert.Len(t, stored(t, path), 3)
}

func TestEdit(t *testing.T) {
	path := dataFile(t, `[{"id":"a"},{"id":"b"}]`)

	res := execute(t, path, "", "edit", "a", "id=c", "email=c@example.com")
	require.NoError(t, res.err)
	assert.Equal(t, "saved c\n", res.stdout)
	assert.Equal(t, []ds.Contact{{ID: "b"}, {ID: "c", Email: "c@example.com"}}, stored(t, path))

	res = execute(t, path, "", "edit", "b", "id=")
	assert.ErrorIs(t, res.err, ds.ErrEmptyID)
	res = execute(t, path, "", "edit", "nope", "town=x")
	assert.ErrorIs(t, res.err, ds.ErrObjectNotFound)
}

func TestDelete(t *testing.T) {
	path := dataFile(t, `[{"id":"a"},{"id":"b"}]`)

	res := execute(t, path, "n\n", "delete", "a")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Really delete contact a? [y/N] kept a")
	assert.Len(t, stored(t, path), 2)

	res = execute(t, path, "yes\n", "delete", "a")
	require.NoError(t, res.err)
	assert.Equal(t, []ds.Contact{{ID: "b"}}, stored(t, path))

	res = execute(t, path, "", "delete", "--yes", "b")
	require.NoError(t, res.err)
	assert.Empty(t, stored(t, path))

	res = execute(t, path, "", "delete", "-y", "b")
	assert.ErrorIs(t, res.err, ds.ErrObjectNotFound)
}

func TestShell(t *testing.T) {
	path := dataFile(t, `[]`)
	res := execute(t, path, "add\nset first_name Al\nsave\nquit\n", "shell")
	require.NoError(t, res.err)
	assert.Equal(t, []ds.Contact{{ID: "Al", FirstName: "Al"}}, stored(t, path))
}
