package handler

import (
	"errors"
	"fmt"
	"net/http"

	. "userprofiles/internal/adapter/http/helper"
	"userprofiles/internal/core/domain"
	"userprofiles/internal/core/model/request"
	"userprofiles/internal/core/model/response"
	"userprofiles/internal/core/port"
	"userprofiles/pkg/logger"
	. "userprofiles/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc       port.UserService
	validator port.Validator
	Logger    *logger.Logger
}

func NewUserHandler(svc port.UserService, validator port.Validator, log *logger.Logger) *UserHandler {
	if log == nil {
		log = logger.NewNop()
	}

	return &UserHandler{
		svc:       svc,
		validator: validator,
		Logger:    log,
	}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.user.CreateUser", []attribute.KeyValue{
		attribute.String("handler.operation", "CreateUser"),
	})

	defer span.End()

	var params request.CreateUserRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "body", "Invalid JSON payload")
		return
	}

	if err := h.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := h.svc.Register(ctx, params)

	if err != nil {
		h.sendError(c, span, err, "")
		return
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	SendSuccess(c, http.StatusCreated, response.NewUserResponse(user))
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.user.GetProfile", []attribute.KeyValue{
		attribute.String("handler.operation", "GetProfile"),
	})

	defer span.End()

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	user, err := h.svc.GetByID(ctx, id)

	if err != nil {
		h.sendError(c, span, err, fmt.Sprintf("User with ID %d not found or account inactive", id))
		return
	}

	SendSuccess(c, http.StatusOK, response.NewProfileResponse(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.user.UpdateProfile", []attribute.KeyValue{
		attribute.String("handler.operation", "UpdateProfile"),
	})

	defer span.End()

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var params request.UpdateUserRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "body", "Invalid JSON payload")
		return
	}

	if err := h.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := h.svc.UpdateProfile(ctx, id, params)

	if err != nil {
		h.sendError(c, span, err, fmt.Sprintf("User with ID %d not found or account inactive", id))
		return
	}

	SendSuccess(c, http.StatusOK, response.NewUserResponse(user))
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.user.DeleteAccount", []attribute.KeyValue{
		attribute.String("handler.operation", "DeleteAccount"),
	})

	defer span.End()

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(ctx, id)

	if err != nil {
		h.sendError(c, span, err, fmt.Sprintf("User with ID %d not found or already deleted", id))
		return
	}

	SendSuccess(c, http.StatusOK, response.DeleteAccountResponse{
		Message:       "Account deleted successfully. All your data has been permanently removed.",
		DeletedUserID: deleted.ID,
		DeletedEmail:  deleted.Email,
	})
}

func (h *UserHandler) DeactivateAccount(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.user.DeactivateAccount", []attribute.KeyValue{
		attribute.String("handler.operation", "DeactivateAccount"),
	})

	defer span.End()

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	deactivated, err := h.svc.Deactivate(ctx, id)

	if err != nil {
		h.sendError(c, span, err, fmt.Sprintf("User with ID %d not found or already inactive", id))
		return
	}

	SendSuccess(c, http.StatusOK, response.DeactivateAccountResponse{
		Message:  "Account deactivated successfully",
		UserID:   deactivated.ID,
		Email:    deactivated.Email,
		IsActive: deactivated.IsActive,
	})
}

func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := ParseID(c, "id")

	if err != nil {
		SendBadRequestError(c, "id", err.Error())
		return 0, false
	}

	return id, true
}

func (h *UserHandler) sendError(c *gin.Context, span trace.Span, err error, notFoundMessage string) {
	var conflict *domain.ConflictError

	switch {
	case domain.IsNotFound(err) && notFoundMessage != "":
		SendNotFoundError(c, notFoundMessage)
	case errors.As(err, &conflict):
		SendConflictError(c, fmt.Sprintf("Email %s is already registered", conflict.Email))
	default:
		AddSpanError(span, err)

		h.Logger.ErrorWithTrace(c.Request.Context(), "User request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
		)

		SendInternalError(c, "Internal server error")
	}
}
