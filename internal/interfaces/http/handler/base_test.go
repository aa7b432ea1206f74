package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/interfaces/http/dto"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from context",
			setup:      func(c *gin.Context) { c.Set(RequestIDKey, "ctx-request-id") },
			expectedID: "ctx-request-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id") },
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "")
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandler_SuccessAndCreated(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "")
	h.Success(c, map[string]int{"placed": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"placed": float64(1)}, resp.Data)

	c, w = newTestContext(http.MethodPost, "")
	h.Created(c, map[string]int{"id": 7})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_ErrorAborts(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "")
	c.Set(RequestIDKey, "req-1")

	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "busy")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
	assert.Equal(t, "busy", resp.Error.Message)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestBaseHandler_UserID(t *testing.T) {
	h := &BaseHandler{}

	c, _ := newTestContext(http.MethodGet, "")
	c.Set(middleware.JWTUserIDKey, int64(42))
	id, ok := h.userID(c)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	c, w := newTestContext(http.MethodGet, "")
	_, ok = h.userID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeResponse(t, w).Error.Code)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found", shared.NewNotFoundError("Contact 3"), http.StatusNotFound, "NOT_FOUND", "Contact 3 not found"},
		{"validation", shared.NewValidationError("items are required"), http.StatusBadRequest, "VALIDATION_ERROR", "items are required"},
		{"shop role", shared.ErrShopRoleRequired, http.StatusForbidden, "FORBIDDEN", "Only for shops"},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, "INVALID_STATE", "Operation not allowed in current state"},
		{"conflict", shared.ErrLockNotAcquired, http.StatusConflict, "CONFLICT", "Resource is busy, retry later"},
		{"email exists", shared.NewDomainError("EMAIL_EXISTS", "Email already exists"), http.StatusConflict, "EMAIL_EXISTS", "Email already exists"},
		{"invalid prefix", shared.NewDomainError("INVALID_PASSWORD", "too short"), http.StatusBadRequest, "INVALID_PASSWORD", "too short"},
		{"wrapped", fmt.Errorf("place: %w", shared.NewNotFoundError("Order 9")), http.StatusNotFound, "NOT_FOUND", "Order 9 not found"},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodGet, "")
		h.HandleError(c, nil)
		assert.False(t, c.IsAborted())
		assert.Empty(t, w.Body.String())
	})
}

type bindTarget struct {
	City  string `json:"city" binding:"required,max=10"`
	Phone string `json:"phone" binding:"required"`
}

func TestBaseHandler_BindJSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ok     bool
		status int
		code   string
	}{
		{"valid", `{"city":"Moscow","phone":"+7999"}`, true, http.StatusOK, ""},
		{"empty body", ``, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"malformed", `{"city":`, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"unknown field", `{"city":"Moscow","phone":"1","zip":"101000"}`, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"wrong type", `{"city":5,"phone":"1"}`, false, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"missing required", `{"city":"Moscow"}`, false, http.StatusBadRequest, dto.ErrCodeValidation},
		{"too long", `{"city":"Vladivostok-on-Amur","phone":"1"}`, false, http.StatusBadRequest, dto.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodPost, tt.body)

			var target bindTarget
			ok := h.BindJSON(c, &target)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "Moscow", target.City)
				assert.Empty(t, w.Body.String())
				return
			}
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeResponse(t, w).Error.Code)
		})
	}

	t.Run("validation details name the json field", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodPost, `{"city":"Moscow"}`)

		var target bindTarget
		require.False(t, h.BindJSON(c, &target))

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Details, dto.ValidationDetail{Field: "phone", Message: "This field is required"})
	})

	t.Run("oversized body", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newTestContext(http.MethodPost, `{"city":"Moscow","phone":"+79990001122"}`)
		c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 8)

		var target bindTarget
		assert.False(t, h.BindJSON(c, &target))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, decodeResponse(t, w).Error.Code)
	})
}

type queryTarget struct {
	ShopID *int64 `form:"shop_id" binding:"omitempty,min=1"`
}

func TestBaseHandler_BindQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		ok    bool
	}{
		{"absent", "", true},
		{"valid", "?shop_id=3", true},
		{"below minimum", "?shop_id=0", false},
		{"not a number", "?shop_id=abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/products"+tt.query, nil)

			var target queryTarget
			assert.Equal(t, tt.ok, h.BindQuery(c, &target))
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
			}
		})
	}
}
