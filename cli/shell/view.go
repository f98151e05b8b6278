package shell

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/oaiiae/addressbook/addressbook"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	subtle = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true).Foreground(accent)
	activeStyle = cellStyle.Reverse(true)
	emptyStyle  = lipgloss.NewStyle().Italic(true).Foreground(subtle)
	labelStyle  = lipgloss.NewStyle().Width(14).Foreground(subtle) //nolint: mnd // widest label plus a gap
	formStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	promptStyle = lipgloss.NewStyle().Foreground(accent)
	cursorStyle = lipgloss.NewStyle().Reverse(true)

	noticeStyles = map[addressbook.NoticeKind]lipgloss.Style{
		addressbook.Warning:  noticeStyle("#FFB000"),
		addressbook.Error:    noticeStyle("#FF4672"),
		addressbook.Question: noticeStyle("#02BA84"),
	}
)

func noticeStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(color)).
		PaddingLeft(1)
}

// Render shows the open form, or the contact list, followed by the pending notice.
func Render(s addressbook.State) string {
	parts := []string{}
	if s.Form != nil {
		parts = append(parts, RenderForm(s.Form))
	} else {
		parts = append(parts, RenderList(s))
	}
	if n := s.Notice; n != nil {
		parts = append(parts, RenderNotice(n))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RenderList shows the contacts as a table, the selected row marked with a star.
func RenderList(s addressbook.State) string {
	title := titleStyle.Render("Contacts")
	if len(s.Contacts) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, emptyStyle.Render("(no contacts)"))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers("", "#", "ID", "NAME", "TOWN").
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == s.Selected:
				return activeStyle
			default:
				return cellStyle
			}
		})
	for i, c := range s.Contacts {
		mark := ""
		if i == s.Selected {
			mark = "*"
		}
		t.Row(mark, strconv.Itoa(i+1), c.ID, strings.TrimSpace(c.FirstName+" "+c.LastName), c.Town)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, t.String())
}

// RenderForm shows every field of the open contact.
func RenderForm(f *addressbook.Form) string {
	heading := "Contact"
	switch {
	case f.Adding():
		heading = "New contact"
	case f.Editable:
		heading = "Contact (editing)"
	}

	lines := []string{titleStyle.Render(heading)}
	for _, field := range addressbook.Fields {
		lines = append(lines, labelStyle.Render(field.Label())+field.Get(&f.Draft))
	}
	return formStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func RenderNotice(n *addressbook.Notice) string {
	style, ok := noticeStyles[n.Kind]
	if !ok {
		style = noticeStyles[addressbook.Error]
	}
	title := lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(string(n.Kind)) + ": " + n.Title)
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, n.Text))
}
