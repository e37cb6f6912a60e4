package replicate

import (
	"encoding/json"
	"fmt"
)

// Prediction statuses reported by the API.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

type predictionRequest struct {
	Version string `json:"version,omitempty"`
	Input   any    `json:"input"`
}

type prediction struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Version string          `json:"version"`
	Status  string          `json:"status"`
	Output  json.RawMessage `json:"output"`
	Error   any             `json:"error"`
	Logs    string          `json:"logs"`
	URLs    predictionURLs  `json:"urls"`
}

type predictionURLs struct {
	Get    string `json:"get"`
	Cancel string `json:"cancel"`
}

func (p *prediction) terminal() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

func (p *prediction) errorText() string {
	switch v := p.Error.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// outputStrings normalizes the model output. Language models stream a list of
// tokens; image models return a list of URLs or a single URL string.
func (p *prediction) outputStrings() ([]string, error) {
	if len(p.Output) == 0 || string(p.Output) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(p.Output, &list); err == nil {
		return list, nil
	}
	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil {
		return []string{single}, nil
	}
	return nil, fmt.Errorf("replicate: unexpected output shape: %.100s", string(p.Output))
}

// textInput is the llama-2 chat input. Field names follow the model schema.
type textInput struct {
	Prompt       string  `json:"prompt"`
	Temperature  float64 `json:"temperature"`
	MaxNewTokens int     `json:"max_new_tokens"`
	TopP         float64 `json:"top_p"`
}

// imageInput is the kandinsky-2.2 image-to-image input.
type imageInput struct {
	Prompt            string  `json:"prompt"`
	Image             string  `json:"image"`
	Strength          float64 `json:"strength"`
	GuidanceScale     float64 `json:"guidance_scale"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
}

// apiError is the problem-details body returned for non-2xx responses.
type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}
