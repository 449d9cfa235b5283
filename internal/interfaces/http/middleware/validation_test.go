package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fundbilling/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	type payload struct {
		Currency string `json:"currency" validate:"omitempty,iso4217"`
		Type     string `json:"type" validate:"omitempty,bill_type"`
		Status   string `json:"status" validate:"omitempty,bill_status"`
	}

	tests := []struct {
		name    string
		input   payload
		wantErr string
	}{
		{"valid values", payload{Currency: "EUR", Type: "yearly_fees", Status: "overdue"}, ""},
		{"lowercase currency", payload{Currency: "gbp"}, ""},
		{"empty fields", payload{}, ""},
		{"bad currency", payload{Currency: "EURO"}, "iso4217"},
		{"bad bill type", payload{Type: "management"}, "bill_type"},
		{"bad bill status", payload{Status: "void"}, "bill_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantErr, verrs[0].Tag())
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	type statusRequest struct {
		Status   string `json:"status" binding:"required,bill_status"`
		Currency string `json:"currency" binding:"omitempty,iso4217"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.PUT("/bills/:id", func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns field details for invalid input", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/bills/1", strings.NewReader(`{"status":"void","currency":"12"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDKey, "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-42", resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 2)
		assert.Equal(t, "status", resp.Error.Details[0].Field)
		assert.Equal(t, "Must be one of: created pending paid overdue cancelled", resp.Error.Details[0].Message)
		assert.Equal(t, "currency", resp.Error.Details[1].Field)
	})

	t.Run("returns success for valid input", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/bills/1", strings.NewReader(`{"status":"paid"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
