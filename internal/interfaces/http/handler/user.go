package handler

import (
	identityapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the caller's profile and delivery contacts
type UserHandler struct {
	BaseHandler
	userService    *identityapp.UserService
	contactService *identityapp.ContactService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService, contactService *identityapp.ContactService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		contactService: contactService,
	}
}

// GetDetails returns the caller's profile with contacts
func (h *UserHandler) GetDetails(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	details, err := h.userService.GetDetails(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, details)
}

// UpdateDetails applies a partial profile update
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateDetailsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	details, err := h.userService.UpdateDetails(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, details)
}

// ListContacts returns the caller's contacts
func (h *UserHandler) ListContacts(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

// CreateContact adds a delivery contact
func (h *UserHandler) CreateContact(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req identityapp.CreateContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// UpdateContact edits one of the caller's contacts
func (h *UserHandler) UpdateContact(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// DeleteContacts removes contacts given as "1,2,3" in the body or the items query
func (h *UserHandler) DeleteContacts(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req identityapp.DeleteContactsRequest
	if !bindItems(&h.BaseHandler, c, &req) {
		return
	}

	result, err := h.contactService.Delete(c.Request.Context(), userID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
