// Package grpcweb is a diagnostics helper that speaks just enough of the
// gRPC-Web wire format to ask a server for its service list via the
// reflection API. It exists for debugging tunnels and proxies; the console
// proper never touches raw frames.
package grpcweb

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const reflectionPath = "/grpc.reflection.v1.ServerReflection/ServerReflectionInfo"

// listServicesMessage is the protobuf encoding of
// ServerReflectionRequest{list_services: "*"}: field 7, wire type 2,
// one-byte payload "*".
var listServicesMessage = []byte{0x3a, 0x01, 0x2a}

var (
	serviceNameRe = regexp.MustCompile(`[a-z][a-z0-9_]*\.[a-zA-Z][a-zA-Z0-9_]*Service`)
	protoNameRe   = regexp.MustCompile(`[a-z][a-z0-9_.]*\.[A-Z][a-zA-Z0-9]*`)
)

// Result carries the scraped service names plus the raw response for when
// the scrape finds nothing and a human has to look.
type Result struct {
	Services []string
	RawHex   string
	RawText  string
}

// Frame wraps a message in a gRPC-Web data frame: a compression flag byte
// followed by a big-endian length and the message itself.
func Frame(message []byte) []byte {
	frame := make([]byte, 5+len(message))
	frame[0] = 0 // no compression
	binary.BigEndian.PutUint32(frame[1:5], uint32(len(message)))
	copy(frame[5:], message)
	return frame
}

// ListServices posts a hand-built ListServices reflection request to the
// endpoint and scrapes service names out of the raw response bytes.
func ListServices(ctx context.Context, endpoint string) (*Result, error) {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(30 * time.Second)

	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/grpc-web+proto").
		SetHeader("Accept", "application/grpc-web+proto").
		SetHeader("x-grpc-web", "1").
		SetBody(Frame(listServicesMessage)).
		Post(reflectionPath)
	if err != nil {
		return nil, fmt.Errorf("reflection request failed: %w", err)
	}

	// gRPC-Web reports failure in the grpc-status header even on HTTP 200.
	if status := resp.Header().Get("grpc-status"); status != "" && status != "0" {
		msg := resp.Header().Get("grpc-message")
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("gRPC error %s: %s", status, msg)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	body := resp.Body()
	return &Result{
		Services: scrapeServiceNames(body),
		RawHex:   hexDump(body, 200),
		RawText:  string(body),
	}, nil
}

// scrapeServiceNames pulls anything service-shaped out of the response
// bytes. A proper frame decoder is deliberately out of scope; matching on
// the text is enough for a diagnostic listing.
func scrapeServiceNames(body []byte) []string {
	text := string(body)

	seen := map[string]struct{}{}
	for _, m := range serviceNameRe.FindAllString(text, -1) {
		seen[m] = struct{}{}
	}
	for _, m := range protoNameRe.FindAllString(text, -1) {
		seen[m] = struct{}{}
	}

	// The two patterns match the same name at different depths; keep only
	// the longest form of each.
	for name := range seen {
		for other := range seen {
			if other != name && strings.HasSuffix(other, "."+name) {
				delete(seen, name)
				break
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func hexDump(body []byte, max int) string {
	if len(body) > max {
		body = body[:max]
	}
	return hex.EncodeToString(body)
}
