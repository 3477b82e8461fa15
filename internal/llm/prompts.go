package llm

import (
	"fmt"
	"strings"
)

// DefaultPromptVersion is used when the caller does not pin a version.
const DefaultPromptVersion = "cl-v1"

// Message is a provider-neutral chat message.
type Message struct {
	Role    string
	Content string
}

const coverLetterSystemPrompt = `You are a career writing assistant. Write a concise, specific cover letter
in plain text. Do not invent experience the candidate does not have. Keep it
under four paragraphs and avoid generic filler.`

// BuildCoverLetterPrompt assembles the chat messages for a generation
// request. Unknown prompt versions fall back to cl-v1.
func BuildCoverLetterPrompt(input GenerateInput) []Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a cover letter for the role %q", input.JobTitle)
	if input.Company != "" {
		fmt.Fprintf(&b, " at %s", input.Company)
	}
	b.WriteString(".\n")
	if input.JobNotes != "" {
		fmt.Fprintf(&b, "\nNotes about the role:\n%s\n", input.JobNotes)
	}
	if input.ResumeText != "" {
		fmt.Fprintf(&b, "\nCandidate background:\n%s\n", input.ResumeText)
	}
	if input.TemplateContent != "" {
		fmt.Fprintf(&b, "\nUse this letter as the starting structure and tone:\n%s\n", input.TemplateContent)
	}
	return []Message{
		{Role: "system", Content: coverLetterSystemPrompt},
		{Role: "user", Content: b.String()},
	}
}
