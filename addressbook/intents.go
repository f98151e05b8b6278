package addressbook

// Intent is something the user asked for. See [Book.Dispatch].
type Intent interface {
	apply(b *Book)
}

type (
	// Select picks a row of the contact list.
	Select struct{ Index int }
	// OpenAdd opens an empty form for a new contact.
	OpenAdd struct{}
	// OpenView opens the selected contact, read-only.
	OpenView struct{}
	// Edit makes the open contact editable.
	Edit struct{}
	// SetField changes one entry of the open form.
	SetField struct {
		Field Field
		Value string
	}
	// Submit adds the new contact, or saves the edited one.
	Submit struct{}
	// Close closes the open form, asking first if it holds unsaved changes.
	Close struct{}
	// RequestDelete asks whether to delete the selected contact.
	RequestDelete struct{}
	// Confirm answers yes to the pending notice.
	Confirm struct{}
	// Dismiss answers no to, or acknowledges, the pending notice.
	Dismiss struct{}

	deleteAt struct{ index int }
	discard  struct{}
)

func (in Select) apply(b *Book) {
	if b.state.Form != nil {
		return
	}
	if in.Index < 0 || in.Index >= len(b.state.Contacts) {
		b.state.Selected = -1
		return
	}
	b.state.Selected = in.Index
}

func (OpenAdd) apply(b *Book) {
	if b.state.Form != nil {
		return
	}
	b.state.Form = &Form{Index: -1, Editable: true}
}

func (OpenView) apply(b *Book) {
	if b.state.Form != nil {
		return
	}
	c, ok := b.state.Selection()
	if !ok {
		return
	}
	b.state.Form = &Form{Index: b.state.Selected, Draft: c, Saved: true}
}

func (Edit) apply(b *Book) {
	if f := b.state.Form; f != nil && !f.Adding() {
		f.Editable = true
	}
}

func (in SetField) apply(b *Book) {
	f := b.state.Form
	if f == nil || !f.Editable {
		return
	}
	in.Field.Set(&f.Draft, in.Value)
	if f.Adding() && in.Field == FirstName {
		f.Draft.ID = in.Value
	}
	f.Altered, f.Saved = true, false
}

func (Submit) apply(b *Book) {
	f := b.state.Form
	if f == nil || !f.Altered {
		return
	}

	if f.Adding() {
		if err := b.store.Add(f.Draft); err != nil {
			b.notify("Error Adding Contact", err)
			return
		}
		b.logger.Info("contact added", "id", f.Draft.ID)
		b.state.Form, b.state.Selected = nil, -1
		return
	}

	if err := b.store.UpdateAt(f.Index, f.Draft); err != nil {
		b.notify("Error Saving Contact", err)
		return
	}
	b.logger.Info("contact saved", "id", f.Draft.ID)
	f.Saved, f.Altered, f.Editable, f.pending = true, false, false, true
}

func (Close) apply(b *Book) {
	f := b.state.Form
	switch {
	case f == nil:
	case f.Adding():
		b.state.Form = nil
	case f.Altered && !f.Saved:
		b.ask("Contact Not Saved", "Really close contact without saving?", discard{})
	default:
		if err := b.store.Commit(); err != nil {
			b.notify("Error Saving Contact", err)
			return
		}
		b.state.Form, b.state.Selected = nil, -1
	}
}

func (discard) apply(b *Book) {
	if f := b.state.Form; f != nil && f.pending {
		if err := b.store.Commit(); err != nil {
			b.notify("Error Saving Contact", err)
		}
	}
	b.state.Form, b.state.Selected = nil, -1
}

func (RequestDelete) apply(b *Book) {
	if b.state.Form != nil {
		return
	}
	c, ok := b.state.Selection()
	if !ok {
		return
	}
	b.ask("Delete?", "Really delete contact "+c.ID+"?", deleteAt{b.state.Selected})
}

func (in deleteAt) apply(b *Book) {
	c, err := b.store.DeleteAt(in.index)
	b.state.Selected = -1
	if err != nil {
		b.notify("Error Deleting Contact", err)
		return
	}
	b.logger.Info("contact deleted", "id", c.ID)
}

func (Confirm) apply(b *Book) {
	n := b.state.Notice
	b.state.Notice = nil
	if n != nil && n.confirm != nil {
		n.confirm.apply(b)
	}
}

func (Dismiss) apply(b *Book) {
	b.state.Notice = nil
}
