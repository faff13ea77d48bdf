package models

// ActivityFlashcards is the only activity type the generator produces.
const ActivityFlashcards = "flashcards"

// GenerateRequest carries the AI widget form after parsing.
type GenerateRequest struct {
	ActivityType string
	Prompt       string
	Amount       int
	Difficulty   string
	SourceURL    string
}

// GeneratedSet is the JSON shape the generator is asked to return.
type GeneratedSet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Difficulty  string `json:"difficulty"`
	Flashcards  []Card `json:"flashcards"`
}

// GenerationUsage is token accounting reported by the generator.
type GenerationUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResult is returned to the widget.
type GenerateResult struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Error       string `json:"error,omitempty"`
}
