package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/addressbook/datastores"
)

type Contacts struct {
	Store        ds.ContactsStore
	ErrorHandler func(context.Context, error)
}

type ContactModel struct {
	ID string `json:"id" example:"john" doc:"Unique contact identifier, also the sort key"`

	FirstName string `json:"first_name" required:"false" example:"john"`
	LastName  string `json:"last_name"  required:"false" example:"smith"`
	House     string `json:"house"      required:"false" example:"12"`
	Street    string `json:"street"     required:"false" example:"High Street"`
	Town      string `json:"town"       required:"false" example:"Bath"`
	Postcode  string `json:"postcode"   required:"false" example:"BA1 1AA"`
	Phone     string `json:"phone"      required:"false" example:"01225 000000"`
	Email     string `json:"email"      required:"false" example:"john@example.com"`
}

func modelOf(c ds.Contact) ContactModel {
	return ContactModel(c)
}

func (m *ContactModel) contact() ds.Contact {
	return ds.Contact(*m)
}

func (h *Contacts) RegisterList(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/",
		handlerWithErrorHandler(h.list, h.ErrorHandler),
		opErrors(http.StatusInternalServerError),
	)
}

type ContactsListOutput struct {
	Body []ContactModel
}

func (h *Contacts) list(ctx context.Context, _ *struct{}) (*ContactsListOutput, error) {
	contacts, err := h.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	body := make([]ContactModel, 0, len(contacts))
	for _, contact := range contacts {
		body = append(body, modelOf(contact))
	}

	return &ContactsListOutput{Body: body}, nil
}

func (h *Contacts) RegisterGet(api huma.API) { // called by [huma.AutoRegister]
	huma.Get(api, "/{id}",
		handlerWithErrorHandler(h.get, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

type ContactsGetOutput struct {
	Body ContactModel
}

func (h *Contacts) get(ctx context.Context, input *struct {
	ID string `path:"id" doc:"ID of the contact to get"`
}) (*ContactsGetOutput, error) {
	contact, err := h.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, statusError(err)
	}
	return &ContactsGetOutput{Body: modelOf(contact)}, nil
}

func (h *Contacts) RegisterPost(api huma.API) { // called by [huma.AutoRegister]
	huma.Post(api, "/",
		handlerWithErrorHandler(h.post, h.ErrorHandler),
		opErrors(http.StatusConflict, http.StatusUnprocessableEntity, http.StatusInternalServerError),
		func(o *huma.Operation) { o.DefaultStatus = http.StatusCreated },
	)
}

func (h *Contacts) post(ctx context.Context, input *struct {
	Body ContactModel
}) (*ContactsGetOutput, error) {
	contact := input.Body.contact()
	if err := h.Store.Create(ctx, contact); err != nil {
		return nil, statusError(err)
	}
	return &ContactsGetOutput{Body: modelOf(contact)}, nil
}

func (h *Contacts) RegisterPut(api huma.API) { // called by [huma.AutoRegister]
	huma.Put(api, "/{id}",
		handlerWithErrorHandler(h.put, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity, http.StatusInternalServerError),
	)
}

func (h *Contacts) put(ctx context.Context, input *struct {
	ID   string `path:"id" doc:"ID of the contact to edit, the body may rename it"`
	Body ContactModel
}) (*ContactsGetOutput, error) {
	contact := input.Body.contact()
	if err := h.Store.Update(ctx, input.ID, contact); err != nil {
		return nil, statusError(err)
	}
	return &ContactsGetOutput{Body: modelOf(contact)}, nil
}

func (h *Contacts) RegisterDel(api huma.API) { // called by [huma.AutoRegister]
	huma.Delete(api, "/{id}",
		handlerWithErrorHandler(h.del, h.ErrorHandler),
		opErrors(http.StatusNotFound, http.StatusInternalServerError),
	)
}

func (h *Contacts) del(ctx context.Context, input *struct {
	ID string `path:"id" doc:"ID of the contact to delete"`
}) (*struct{}, error) {
	return nil, statusError(h.Store.Delete(ctx, input.ID))
}
