package handler

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamEvents(t *testing.T) {
	f := newFixture(t)

	srv := httptest.NewServer(f.mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Wait for all three subscriptions to be live before publishing.
	require.Eventually(t, func() bool {
		return f.cues.Subscribers() == 1
	}, time.Second, 5*time.Millisecond)

	rec := f.do(t, http.MethodPost, "/api/highlight", "", highlightRequest{ProductID: "taco-pastor"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	// The stream delivers both the resolution and the category activation.
	var lines []string
	scanner := bufio.NewScanner(resp.Body)
	deadline := time.AfterFunc(5*time.Second, func() { resp.Body.Close() })
	defer deadline.Stop()

	seen := map[string]bool{}
	for scanner.Scan() {
		line := scanner.Text()
		lines = append(lines, line)
		if strings.HasPrefix(line, "event: ") {
			seen[strings.TrimPrefix(line, "event: ")] = true
		}
		if seen["highlight.resolved"] && seen["category.activated"] {
			break
		}
	}

	require.True(t, seen["highlight.resolved"], "stream output: %v", lines)
	require.True(t, seen["category.activated"], "stream output: %v", lines)

	body := strings.Join(lines, "\n")
	assert.Contains(t, body, `"itemId":"taco-pastor"`)
	assert.Contains(t, body, `"category":"tacos"`)
}
