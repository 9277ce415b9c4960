package assist_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyapar/inventory-engine/assist"
	"github.com/vyapar/inventory-engine/vyapar"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testCatalog() vyapar.Catalog {
	return vyapar.Catalog{
		{ID: "p1", Name: "Wireless Mouse", Price: vyapar.MustParseDecimal("2500"), Stock: 150},
		{ID: "p2", Name: "Mechanical Keyboard", Price: vyapar.MustParseDecimal("8000"), Stock: 80},
	}
}

// geminiStub serves a canned generateContent response.
func geminiStub(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("x-goog-api-key"))
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

// =============================================================================
// NAME MATCHING
// =============================================================================

func TestMatchItems_DropsNonExactNames(t *testing.T) {
	parsed := assist.ParsedInvoice{
		CustomerName: "John",
		Items: []assist.ParsedItem{
			{ProductName: "Wireless Mouse", Quantity: 2},
			{ProductName: "wireless mouse", Quantity: 1}, // wrong case: dropped
			{ProductName: "Gaming Chair", Quantity: 3},   // not in catalog: dropped
		},
	}

	items := assist.MatchItems(parsed, testCatalog())
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseInvoiceCommand_DecodesStructuredResponse(t *testing.T) {
	srv := geminiStub(t, `{"customerName":"John","items":[{"productName":"Wireless Mouse","quantity":2}]}`)
	defer srv.Close()

	client := assist.NewClient("test-key", assist.WithBaseURL(srv.URL))
	parsed, err := client.ParseInvoiceCommand(context.Background(), "2 mice for John", testCatalog())
	require.NoError(t, err)
	assert.Equal(t, "John", parsed.CustomerName)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, 2, parsed.Items[0].Quantity)
}

func TestParseInvoiceCommand_NoCredential_Unavailable(t *testing.T) {
	client := assist.NewClient("")
	assert.False(t, client.Available())

	_, err := client.ParseInvoiceCommand(context.Background(), "anything", testCatalog())
	assert.True(t, errors.Is(err, assist.ErrUnavailable))
}

func TestParseInvoiceCommand_UpstreamError_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := assist.NewClient("test-key", assist.WithBaseURL(srv.URL))
	_, err := client.ParseInvoiceCommand(context.Background(), "anything", testCatalog())
	assert.True(t, errors.Is(err, assist.ErrUnavailable))
}

func TestParseInvoiceCommand_MalformedBody_Unavailable(t *testing.T) {
	srv := geminiStub(t, `this is not json`)
	defer srv.Close()

	client := assist.NewClient("test-key", assist.WithBaseURL(srv.URL))
	_, err := client.ParseInvoiceCommand(context.Background(), "anything", testCatalog())
	assert.True(t, errors.Is(err, assist.ErrUnavailable))
}

// =============================================================================
// IMAGE MATCHING
// =============================================================================

func TestFindProductByImage_CaseInsensitiveMatch(t *testing.T) {
	srv := geminiStub(t, "  wireless mouse\n")
	defer srv.Close()

	client := assist.NewClient("test-key", assist.WithBaseURL(srv.URL))
	p, err := client.FindProductByImage(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg", testCatalog())
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestFindProductByImage_UnknownAnswer_NoMatch(t *testing.T) {
	srv := geminiStub(t, "Standing Desk")
	defer srv.Close()

	client := assist.NewClient("test-key", assist.WithBaseURL(srv.URL))
	_, err := client.FindProductByImage(context.Background(), []byte{0x00}, "image/png", testCatalog())
	assert.True(t, errors.Is(err, assist.ErrNoMatch))
}

// =============================================================================
// DICTATION
// =============================================================================

func TestNoDictation_ReportsUnsupported(t *testing.T) {
	var d assist.Dictation = assist.NoDictation{}
	assert.False(t, d.Supported())

	_, err := d.Listen(context.Background())
	assert.True(t, errors.Is(err, assist.ErrDictationUnsupported))
}
