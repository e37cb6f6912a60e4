package domain

// ElementSource records whether visual elements came from the model or from
// the built-in fallback sets.
type ElementSource string

const (
	ElementsGenerated ElementSource = "generated"
	ElementsFallback  ElementSource = "fallback"
)

// StylePrompt is the per-request edit instruction handed to the image model.
type StylePrompt struct {
	Elements    []string
	Instruction string
	Source      ElementSource
}
