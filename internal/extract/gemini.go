package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gitlab.com/dirk.krummacker/contact-list/internal/model"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

const promptTemplate = `Analyze the following text and extract a single name and phone number.
Text: %q

Rules:
1. Name can be Chinese or English.
2. Phone number should be digits.
3. If multiple exist, take the first one.
4. If info is missing, set isValid to false.`

// responseSchema forces the model to answer with a JSON object holding name, phone and isValid.
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":    {Type: genai.TypeString, Description: "The extracted name"},
		"phone":   {Type: genai.TypeString, Description: "The extracted phone number"},
		"isValid": {Type: genai.TypeBoolean, Description: "True if both name and phone were found"},
	},
	Required: []string{"name", "phone", "isValid"},
}

// Gemini extracts contacts with Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

var _ Extractor = (*Gemini)(nil)

// NewGemini creates a Gemini extractor. An empty modelName selects DefaultModel. A non-empty
// baseURL replaces the endpoint of the Gemini API.
func NewGemini(ctx context.Context, apiKey string, modelName string, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: modelName}, nil
}

// Extract asks the model for the first name and phone number in text.
func (g *Gemini) Extract(ctx context.Context, text string) Result {
	response, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(fmt.Sprintf(promptTemplate, text)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
		},
	)
	if err != nil {
		return Result{Outcome: Failed, Err: fmt.Errorf("Gemini request failed: %w", err)}
	}
	return interpret(responseText(response))
}

// responseText concatenates the text parts of the first candidate.
func responseText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// interpret turns the JSON answer of the model into a result. Names and phone numbers that exceed
// their bounds are truncated.
func interpret(raw string) Result {
	var answer struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		IsValid bool   `json:"isValid"`
	}
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return Result{Outcome: Failed, Err: fmt.Errorf("could not decode Gemini answer: %w", err)}
	}
	name := strings.TrimSpace(answer.Name)
	phone := strings.TrimSpace(answer.Phone)
	if !answer.IsValid || name == "" || phone == "" {
		return Result{Outcome: NotFound}
	}
	return Result{
		Outcome: Extracted,
		Name:    Truncate(name, model.MaxNameLength),
		Phone:   Truncate(phone, model.MaxPhoneLength),
	}
}
