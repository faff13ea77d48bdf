package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vytor/flashstudy/internal/models"
)

const systemPrompt = "You are a helpful assistant that creates educational content in valid JSON format. " +
	"Return only JSON. Avoid extra text."

const flashcardSchema = `{
  "title": string,
  "description": string,
  "subject": string,
  "difficulty": "Easy" | "Medium" | "Hard",
  "flashcards": [
    {"front": string, "back": string}
  ]
}`

var exampleSet = models.GeneratedSet{
	Title:       "Cell Biology Basics",
	Description: "Core vocabulary for an introductory biology unit.",
	Subject:     "Biology",
	Difficulty:  "Medium",
	Flashcards: []models.Card{
		{Front: "What is the powerhouse of the cell?", Back: "The mitochondrion"},
		{Front: "What structure controls what enters and leaves the cell?", Back: "The cell membrane"},
	},
}

// BuildPrompt returns the user message for a flashcard request. context is
// extracted source text and may be empty.
func BuildPrompt(req models.GenerateRequest, context string) string {
	example, _ := json.MarshalIndent(exampleSet, "", "    ")

	var b strings.Builder
	fmt.Fprintf(&b, "You are a JSON-generating AI. Your task is to create exactly %d flashcards\n", req.Amount)
	b.WriteString("based on the following description:\n\n")
	b.WriteString(strings.TrimSpace(req.Prompt))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Difficulty: %s.\n", req.Difficulty)
	if context != "" {
		b.WriteString("Include this additional context from the source:\n")
		b.WriteString(context)
		b.WriteString("\n")
	}
	b.WriteString("\nIMPORTANT RULES:\n")
	b.WriteString("1. Only return raw JSON: no Markdown, no text, no code fences.\n")
	b.WriteString("2. JSON MUST strictly match the following schema:\n\n")
	b.WriteString(flashcardSchema)
	b.WriteString("\n\n3. Use the example JSON format exactly as a reference for structure, nesting, and key names:\n\n")
	b.Write(example)
	b.WriteString("\n\n4. Do not include IDs, timestamps, or any extra fields; only the keys in the schema.\n")
	b.WriteString("5. Make sure all required fields are present and correctly typed.\n\n")
	b.WriteString("Return the JSON as a single valid object.\n")
	return b.String()
}
