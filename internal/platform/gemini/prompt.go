package gemini

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/gradaid/gradaid-api/internal/domain"
	"github.com/gradaid/gradaid-api/internal/generation"
)

// systemInstruction frames every request sent to the model.
const systemInstruction = "You are an expert academic writing assistant specializing in graduate school applications."

//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

// promptData is the data passed to the prompt templates.
type promptData struct {
	UniversityID     string
	ProgramID        string
	RecommenderName  string
	RecommenderEmail string
	CurrentContent   string
	Instructions     string
}

func templateName(docType domain.DocumentType) string {
	return string(docType) + ".tmpl"
}

// renderPrompt builds the user prompt for req.
func renderPrompt(req generation.Request) (string, error) {
	data := promptData{
		UniversityID:   req.UniversityID,
		ProgramID:      req.ProgramID,
		CurrentContent: strings.TrimSpace(req.CurrentContent),
		Instructions:   strings.TrimSpace(req.Instructions),
	}
	if req.Recommender != nil {
		data.RecommenderName = req.Recommender.Name
		data.RecommenderEmail = req.Recommender.Email
	}

	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, templateName(req.DocumentType), data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	prompt := strings.TrimSpace(buf.String())
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	return prompt, nil
}
