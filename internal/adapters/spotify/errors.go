package spotify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxErrorBody = 64 << 10

// APIError is a non-200 response from the Web API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spotify adapter: status %d", e.Status)
	}
	return fmt.Sprintf("spotify adapter: status %d: %s", e.Status, e.Message)
}

// regularError is the Web API error object, e.g.
// {"error": {"status": 400, "message": "invalid id"}}.
type regularError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var re regularError
	if json.Unmarshal(body, &re) == nil && re.Error.Message != "" {
		apiErr.Message = re.Error.Message
		return apiErr
	}

	// Anything else (an HTML error page from a proxy, plain text) is kept
	// short and on one line.
	msg := strings.Join(strings.Fields(string(body)), " ")
	msg = truncate(msg, 200)
	apiErr.Message = msg
	return apiErr
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
