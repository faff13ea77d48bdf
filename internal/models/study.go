package models

// StudySession is what the take page needs to start a session.
type StudySession struct {
	Set        FlashcardSet
	Cards      []Card
	StartIndex int
	Mode       Mode
}

// NavResult is the answer to a server-side navigation step.
type NavResult struct {
	CurrentIndex int  `json:"current_index"`
	Card         Card `json:"card"`
	Total        int  `json:"total"`
}

// AnswerResult is the outcome of a form-driven answer.
type AnswerResult struct {
	Completed bool
	Summary   SessionSummary
}

// CreateSetInput is a user-authored set.
type CreateSetInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Difficulty  string `json:"difficulty"`
	Cards       []Card `json:"cards"`
}
