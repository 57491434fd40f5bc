package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEthAddress(t *testing.T) {
	tests := []struct {
		addr  string
		valid bool
	}{
		{"0x1234567890123456789012345678901234567890", true},
		{"0xabcdefABCDEF1234567890123456789012345678", true},
		{"0x0000000000000000000000000000000000000000", true},

		{"1234567890123456789012345678901234567890", false},     // No 0x
		{"0x12345678901234567890123456789012345678", false},     // Too short
		{"0x123456789012345678901234567890123456789012", false}, // Too long
		{"0xGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGG", false},   // Invalid chars
		{"", false},
		{"0x", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.valid, IsValidEthAddress(tc.addr), tc.addr)
	}
}

func TestChecksumAddress(t *testing.T) {
	assert.Equal(t,
		"0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		ChecksumAddress("0x742d35cc6634c0532925a3b844bc454e4438f44e"))
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"hello", 10, "hello"},
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello"},
		{"he\x00llo", 10, "hello"},
		{"नमस्ते दुनिया", 3, "नमस"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, SanitizeString(tc.input, tc.maxLen))
	}
}

func TestValidate(t *testing.T) {
	errs := Validate(
		Required("message", "  "),
		MaxLength("message", strings.Repeat("a", 11), 10),
		OneOf("mode", "chat", "assistant", "threat", "education"),
		OneOf("language", "", "en"),
	)
	require.Len(t, errs, 3)
	assert.Equal(t, "message", errs[0].Field)
	assert.Equal(t, "message: is required", errs.Error())
	assert.Equal(t, "mode", errs[2].Field)

	assert.Empty(t, Validate(Required("message", "hi")))
}

func TestAddressParamMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/wallets/:address", AddressParamMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallets/0x1234567890123456789012345678901234567890", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallets/0x123", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestSizeMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestSizeMiddleware(8))
	r.POST("/chat", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"far too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
