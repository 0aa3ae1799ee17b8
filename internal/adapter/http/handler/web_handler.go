package handler

import (
	"fmt"
	"net/http"
	"strings"

	. "userprofiles/internal/adapter/http/helper"
	"userprofiles/internal/core/domain"
	"userprofiles/internal/core/model/request"
	"userprofiles/internal/core/model/response"
	"userprofiles/internal/core/port"
	"userprofiles/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// userForm is what the create and edit pages post and what they are
// re-rendered with after a failed submission.
type userForm struct {
	Email    string `form:"email"`
	FullName string `form:"full_name"`
	Phone    string `form:"phone"`
	Bio      string `form:"bio"`
	Location string `form:"location"`
}

func formFromUser(user domain.User) userForm {
	form := userForm{Email: user.Email, FullName: user.FullName}

	if user.Phone != nil {
		form.Phone = *user.Phone
	}
	if user.Bio != nil {
		form.Bio = *user.Bio
	}
	if user.Location != nil {
		form.Location = *user.Location
	}

	return form
}

type WebHandler struct {
	svc       port.UserService
	validator port.Validator
	Logger    *logger.Logger
}

func NewWebHandler(svc port.UserService, validator port.Validator, log *logger.Logger) *WebHandler {
	if log == nil {
		log = logger.NewNop()
	}

	return &WebHandler{
		svc:       svc,
		validator: validator,
		Logger:    log,
	}
}

func (h *WebHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Title": "Home"})
}

func (h *WebHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListActive(c.Request.Context())

	if err != nil {
		h.renderServerError(c, err)
		return
	}

	c.HTML(http.StatusOK, "users.html", gin.H{
		"Title":   "Users",
		"Users":   users,
		"Deleted": c.Query("deleted") == "true",
	})
}

func (h *WebHandler) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "create.html", gin.H{"Title": "New user", "Form": userForm{}})
}

func (h *WebHandler) CreateUser(c *gin.Context) {
	var form userForm

	if err := c.ShouldBind(&form); err != nil {
		h.renderCreate(c, http.StatusBadRequest, form, "Invalid form submission", nil)
		return
	}

	params := request.CreateUserRequest{
		Email:    strings.TrimSpace(form.Email),
		FullName: strings.TrimSpace(form.FullName),
		Phone:    request.FormText(form.Phone),
		Bio:      request.FormText(form.Bio),
		Location: request.FormText(form.Location),
	}

	if err := h.validator.ValidateStruct(params); err != nil {
		h.renderCreate(c, http.StatusBadRequest, form, "Please fix the errors below", h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.svc.Register(c.Request.Context(), params)

	if domain.IsEmailTaken(err) {
		h.renderCreate(c, http.StatusBadRequest, form, fmt.Sprintf("Email %s is already registered", params.Email), nil)
		return
	}

	if err != nil {
		h.logError(c, "Failed to create user", err)
		h.renderCreate(c, http.StatusInternalServerError, form, "Could not create the user, please try again", nil)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/web/users/%d/profile", user.ID))
}

func (h *WebHandler) Profile(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Title":   user.FullName,
		"User":    user,
		"Updated": c.Query("updated") == "true",
	})
}

func (h *WebHandler) EditForm(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	h.renderEdit(c, http.StatusOK, user.ID, formFromUser(user), "", nil)
}

// UpdateUser treats every input on the edit form as sent: a blank optional
// input clears the stored value.
func (h *WebHandler) UpdateUser(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}

	var form userForm

	if err := c.ShouldBind(&form); err != nil {
		h.renderEdit(c, http.StatusBadRequest, user.ID, formFromUser(user), "Invalid form submission", nil)
		return
	}

	form.Email = user.Email

	params := request.UpdateUserRequest{
		FullName: request.Some(strings.TrimSpace(form.FullName)),
		Phone:    request.FormOptional(form.Phone),
		Bio:      request.FormOptional(form.Bio),
		Location: request.FormOptional(form.Location),
	}

	if err := h.validator.ValidateStruct(params); err != nil {
		h.renderEdit(c, http.StatusBadRequest, user.ID, form, "Please fix the errors below", h.validator.FormatValidationErrors(err))
		return
	}

	_, err := h.svc.UpdateProfile(c.Request.Context(), user.ID, params)

	if domain.IsNotFound(err) {
		h.renderNotFound(c, "User not found")
		return
	}

	if err != nil {
		h.logError(c, "Failed to update user", err)
		h.renderEdit(c, http.StatusInternalServerError, user.ID, form, "Could not update the profile, please try again", nil)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/web/users/%d/profile?updated=true", user.ID))
}

func (h *WebHandler) DeleteUser(c *gin.Context) {
	id, err := ParseID(c, "id")

	if err != nil {
		h.renderNotFound(c, "User not found")
		return
	}

	_, err = h.svc.Delete(c.Request.Context(), id)

	if domain.IsNotFound(err) {
		h.renderNotFound(c, "User not found")
		return
	}

	if err != nil {
		h.renderServerError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/web/users?deleted=true")
}

// NotFound renders the 404 page for unknown routes under /web.
func (h *WebHandler) NotFound(c *gin.Context) {
	h.renderNotFound(c, "")
}

func (h *WebHandler) findUser(c *gin.Context) (domain.User, bool) {
	id, err := ParseID(c, "id")

	if err != nil {
		h.renderNotFound(c, "User not found")
		return domain.User{}, false
	}

	user, err := h.svc.GetByID(c.Request.Context(), id)

	if domain.IsNotFound(err) {
		h.renderNotFound(c, "User not found")
		return domain.User{}, false
	}

	if err != nil {
		h.renderServerError(c, err)
		return domain.User{}, false
	}

	return user, true
}

func (h *WebHandler) renderCreate(c *gin.Context, status int, form userForm, message string, errs []response.ValidationError) {
	c.HTML(status, "create.html", gin.H{
		"Title":  "New user",
		"Form":   form,
		"Error":  message,
		"Errors": errs,
	})
}

func (h *WebHandler) renderEdit(c *gin.Context, status int, id int64, form userForm, message string, errs []response.ValidationError) {
	c.HTML(status, "edit.html", gin.H{
		"Title":  "Edit profile",
		"ID":     id,
		"Form":   form,
		"Error":  message,
		"Errors": errs,
	})
}

func (h *WebHandler) renderNotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"Title":   "Not found",
		"Message": message,
	})
}

func (h *WebHandler) renderServerError(c *gin.Context, err error) {
	h.logError(c, "Web request failed", err)
	c.HTML(http.StatusInternalServerError, "500.html", gin.H{"Title": "Error"})
}

func (h *WebHandler) logError(c *gin.Context, msg string, err error) {
	h.Logger.ErrorWithTrace(c.Request.Context(), msg,
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
}
