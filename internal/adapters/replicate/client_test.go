package replicate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AnselZeng/vibe-filter/internal/core/ports"
)

const textModel = "meta/llama-2-70b-chat:02e509c789964a7ea8736978a43525956ef40397be9033abf9fd2badfe68c9e3"

func newTestClient(ts *httptest.Server) *Client {
	return NewClient("r8_test",
		WithBaseURL(ts.URL),
		WithHTTPClient(ts.Client()),
		WithPollInterval(time.Millisecond),
	)
}

func TestSplitModelRef(t *testing.T) {
	tests := []struct {
		ref         string
		wantModel   string
		wantVersion string
	}{
		{ref: textModel, wantModel: "meta/llama-2-70b-chat", wantVersion: "02e509c789964a7ea8736978a43525956ef40397be9033abf9fd2badfe68c9e3"},
		{ref: "black-forest-labs/flux-schnell", wantModel: "black-forest-labs/flux-schnell"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			model, version := splitModelRef(tt.ref)
			if model != tt.wantModel || version != tt.wantVersion {
				t.Fatalf("got (%q, %q), want (%q, %q)", model, version, tt.wantModel, tt.wantVersion)
			}
		})
	}
}

func TestOutputStrings(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "token list", raw: `["MOOD", ": calm"]`, want: []string{"MOOD", ": calm"}},
		{name: "single url", raw: `"https://replicate.delivery/out.png"`, want: []string{"https://replicate.delivery/out.png"}},
		{name: "null", raw: `null`, want: nil},
		{name: "object", raw: `{"a":1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := prediction{Output: json.RawMessage(tt.raw)}
			got, err := p.outputStrings()
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected err=%v, got %v", tt.wantErr, err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextGenerator_Generate(t *testing.T) {
	var polls int32
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer r8_test" {
			t.Errorf("Authorization: got %q", got)
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/predictions":
			if r.Header.Get("Prefer") != "wait" {
				t.Errorf("expected Prefer: wait header")
			}
			var body struct {
				Version string         `json:"version"`
				Input   map[string]any `json:"input"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			if !strings.HasPrefix(body.Version, "02e509c7") {
				t.Errorf("unexpected version %q", body.Version)
			}
			if body.Input["max_new_tokens"] != float64(200) || body.Input["temperature"] != 0.7 || body.Input["top_p"] != 0.9 {
				t.Errorf("unexpected input %v", body.Input)
			}
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"id":"p1","status":"processing","urls":{"get":"%s/predictions/p1"}}`, ts.URL)
		case r.Method == http.MethodGet && r.URL.Path == "/predictions/p1":
			if atomic.AddInt32(&polls, 1) < 2 {
				fmt.Fprint(w, `{"id":"p1","status":"processing"}`)
				return
			}
			fmt.Fprint(w, `{"id":"p1","status":"succeeded","output":["MOOD: ","calm","\nKEYWORDS: soft"]}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer ts.Close()

	gen := NewTextGenerator(newTestClient(ts), textModel)
	got, err := gen.Generate(context.Background(), ports.TextRequest{Prompt: "hi", Temperature: 0.7, TopP: 0.9, MaxTokens: 200})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "MOOD: calm\nKEYWORDS: soft" {
		t.Fatalf("unexpected output %q", got)
	}
	if n := atomic.LoadInt32(&polls); n != 2 {
		t.Fatalf("expected 2 polls, got %d", n)
	}
}

func TestTextGenerator_ModelEndpointWithoutVersion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/meta/meta-llama-3-8b-instruct/predictions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["version"]; ok {
			t.Errorf("version should be omitted, got %v", body)
		}
		fmt.Fprint(w, `{"id":"p2","status":"succeeded","output":"plain text"}`)
	}))
	defer ts.Close()

	gen := NewTextGenerator(newTestClient(ts), "meta/meta-llama-3-8b-instruct")
	got, err := gen.Generate(context.Background(), ports.TextRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "plain text" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantInErr string
	}{
		{
			name:      "prediction failed",
			status:    http.StatusCreated,
			body:      `{"id":"p3","status":"failed","error":"CUDA out of memory. Tried to allocate 20.00 MiB"}`,
			wantInErr: "CUDA out of memory",
		},
		{
			name:      "prediction canceled",
			status:    http.StatusCreated,
			body:      `{"id":"p4","status":"canceled"}`,
			wantInErr: "prediction p4 canceled",
		},
		{
			name:      "unknown version",
			status:    http.StatusNotFound,
			body:      `{"title":"Not found","detail":"The requested resource could not be found.","status":404}`,
			wantInErr: "replicate: status 404: The requested resource could not be found.",
		},
		{
			name:      "bad token",
			status:    http.StatusUnauthorized,
			body:      `{"title":"Unauthenticated","detail":"You did not pass a valid authentication token","status":401}`,
			wantInErr: "status 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			gen := NewTextGenerator(newTestClient(ts), textModel)
			_, err := gen.Generate(context.Background(), ports.TextRequest{Prompt: "x"})
			if err == nil || !strings.Contains(err.Error(), tt.wantInErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantInErr, err)
			}
		})
	}
}

func TestClient_PollRespectsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"p5","status":"starting"}`)
	}))
	defer ts.Close()

	client := NewClient("r8_test", WithBaseURL(ts.URL), WithPollInterval(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewTextGenerator(client, textModel).Generate(ctx, ports.TextRequest{Prompt: "x"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestImageEditor_EditImage(t *testing.T) {
	source := []byte("\xff\xd8\xff fake jpeg")
	edited := []byte("\x89PNG edited")

	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/predictions":
			var body struct {
				Input imageInput `json:"input"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			in := body.Input
			wantImage := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(source)
			if in.Image != wantImage {
				t.Errorf("image: got %q", in.Image)
			}
			if in.Strength != 0.1 || in.GuidanceScale != 5.0 || in.NumInferenceSteps != 8 {
				t.Errorf("unexpected params %+v", in)
			}
			if in.NegativePrompt != "grid, collage" || in.Prompt != "add fairy lights" {
				t.Errorf("unexpected prompts %+v", in)
			}
			fmt.Fprintf(w, `{"id":"img1","status":"succeeded","output":["%s/files/out-0.png","%s/files/out-1.png"]}`, ts.URL, ts.URL)
		case "/files/out-0.png":
			if r.Header.Get("Authorization") != "" {
				t.Errorf("download should not carry the api token")
			}
			w.Write(edited)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	editor := NewImageEditor(newTestClient(ts), "ai-forever/kandinsky-2.2:ea1addaab376f4dc227f5368bbd8eff901820fd1cc14ed8cad63b29249e9d463")
	got, err := editor.EditImage(context.Background(), ports.ImageEditRequest{
		Prompt:         "add fairy lights",
		NegativePrompt: "grid, collage",
		Image:          source,
		ContentType:    "image/jpeg",
		Strength:       0.1,
		GuidanceScale:  5.0,
		Steps:          8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(edited) {
		t.Fatalf("unexpected bytes %q", got)
	}
}

func TestImageEditor_EmptyOutput(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"img2","status":"succeeded","output":[]}`)
	}))
	defer ts.Close()

	editor := NewImageEditor(newTestClient(ts), "ai-forever/kandinsky-2.2:abc")
	if _, err := editor.EditImage(context.Background(), ports.ImageEditRequest{Image: []byte("x")}); err == nil {
		t.Fatal("expected error for empty output")
	}
}
