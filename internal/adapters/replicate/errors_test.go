package replicate

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "abc", n: 5, want: "abc"},
		{name: "ascii", in: "abcdef", n: 3, want: "abc"},
		{name: "backs off a split rune", in: "aé", n: 2, want: "a"},
		{name: "keeps a whole rune", in: "éé", n: 2, want: "é"},
		{name: "cjk", in: "日本語", n: 4, want: "日"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestDecodeAPIError_LongBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusBadGateway,
		Body:       io.NopCloser(strings.NewReader("a" + strings.Repeat("ü", 150))),
	}
	err := decodeAPIError(resp)
	msg := strings.TrimPrefix(err.Error(), "replicate: status 502: ")
	if !utf8.ValidString(msg) {
		t.Fatalf("message is not valid UTF-8: %q", msg)
	}
	if want := "a" + strings.Repeat("ü", 99); msg != want {
		t.Fatalf("got %q, want %q", msg, want)
	}
}
