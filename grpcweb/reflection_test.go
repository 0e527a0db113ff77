package grpcweb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	framed := Frame([]byte{0x3a, 0x01, 0x2a})

	require.Len(t, framed, 8)
	assert.Equal(t, byte(0), framed[0], "no compression")
	assert.Equal(t, []byte{0, 0, 0, 3}, framed[1:5], "big-endian message length")
	assert.Equal(t, []byte{0x3a, 0x01, 0x2a}, framed[5:])
}

func TestFrameEmptyMessage(t *testing.T) {
	framed := Frame(nil)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, framed)
}

func TestListServices(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo", r.URL.Path)
		gotHeader = r.Header.Clone()
		var err error
		gotBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/grpc-web+proto")
		// A reflection reply embeds the service names as length-prefixed
		// strings; plain text is enough for the scraper.
		_, _ = w.Write([]byte("\x00\x00\x00\x00\x40\x12\x3eadmin.v1.OrganizationService\x12admin.v1.AuthService"))
	}))
	defer srv.Close()

	result, err := ListServices(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "application/grpc-web+proto", gotHeader.Get("Content-Type"))
	assert.Equal(t, "1", gotHeader.Get("x-grpc-web"))
	assert.Equal(t, Frame(listServicesMessage), gotBody)

	assert.Equal(t, []string{"admin.v1.AuthService", "admin.v1.OrganizationService"}, result.Services)
	assert.NotEmpty(t, result.RawHex)
	assert.Contains(t, result.RawText, "OrganizationService")
}

func TestListServicesGRPCStatusHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("grpc-status", "12")
		w.Header().Set("grpc-message", "unimplemented")
	}))
	defer srv.Close()

	_, err := ListServices(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "12")
	assert.Contains(t, err.Error(), "unimplemented")
}

func TestListServicesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := ListServices(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestScrapeServiceNames(t *testing.T) {
	body := []byte("noise admin.v1.CarService more noise grpc.reflection.v1.ServerReflection admin.v1.CarService")

	names := scrapeServiceNames(body)
	assert.Contains(t, names, "admin.v1.CarService")
	assert.Contains(t, names, "grpc.reflection.v1.ServerReflection")

	counts := map[string]int{}
	for _, n := range names {
		counts[n]++
	}
	assert.Equal(t, 1, counts["admin.v1.CarService"], "names are deduplicated")
}

func TestScrapeServiceNamesEmpty(t *testing.T) {
	assert.Empty(t, scrapeServiceNames([]byte{0x00, 0x01, 0x02}))
}

func TestHexDumpTruncates(t *testing.T) {
	body := make([]byte, 500)
	dump := hexDump(body, 200)
	assert.Len(t, dump, 400, "two hex chars per byte, capped at the limit")
}
