package addressbook

import (
	"fmt"

	ds "github.com/oaiiae/addressbook/datastores"
)

// Field names one editable entry of a contact form.
type Field int

const (
	FirstName Field = iota
	LastName
	House
	Street
	Town
	Postcode
	Phone
	Email
	ID
)

// Fields lists the form entries in display order.
var Fields = []Field{FirstName, LastName, House, Street, Town, Postcode, Phone, Email, ID} //nolint: gochecknoglobals

var fieldNames = [...]string{
	FirstName: "first_name",
	LastName:  "last_name",
	House:     "house",
	Street:    "street",
	Town:      "town",
	Postcode:  "postcode",
	Phone:     "phone",
	Email:     "email",
	ID:        "id",
}

var fieldLabels = [...]string{
	FirstName: "First name",
	LastName:  "Last name",
	House:     "House",
	Street:    "Street",
	Town:      "Town",
	Postcode:  "Postcode",
	Phone:     "Phone",
	Email:     "Email",
	ID:        "Contact ID",
}

// ParseField accepts the JSON name of a field.
func ParseField(s string) (Field, error) {
	for f, name := range fieldNames {
		if name == s {
			return Field(f), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

func (f Field) String() string { return fieldNames[f] }

func (f Field) Label() string { return fieldLabels[f] }

func (f Field) Get(c *ds.Contact) string {
	return *f.ref(c)
}

func (f Field) Set(c *ds.Contact, value string) {
	*f.ref(c) = value
}

func (f Field) ref(c *ds.Contact) *string {
	switch f {
	case FirstName:
		return &c.FirstName
	case LastName:
		return &c.LastName
	case House:
		return &c.House
	case Street:
		return &c.Street
	case Town:
		return &c.Town
	case Postcode:
		return &c.Postcode
	case Phone:
		return &c.Phone
	case Email:
		return &c.Email
	case ID:
		return &c.ID
	default:
		panic(fmt.Sprintf("addressbook: invalid field %d", int(f)))
	}
}
