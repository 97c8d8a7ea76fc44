package tagger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/talent-query/internal/types"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// Gemini tags queries with a Gemini model. Responses are strictly validated
// against the query text; anything the model invents is dropped, and any
// failure surfaces as an error so the caller can fall back to the keyword
// tagger.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed tagger. model may be empty to use
// DefaultGeminiModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Tag sends the query to Gemini and returns the validated entity spans.
func (g *Gemini) Tag(ctx context.Context, text string) ([]types.EntitySpan, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildTagPrompt(text)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	raw, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	var spans []types.EntitySpan
	if err := json.Unmarshal([]byte(cleanJSONBlock(raw)), &spans); err != nil {
		return nil, fmt.Errorf("malformed tagger response: %w", err)
	}
	return validateSpans(text, spans)
}

var knownLabels = map[types.EntityLabel]bool{
	types.LabelTechnology:        true,
	types.LabelTechCategory:      true,
	types.LabelTechExperience:    true,
	types.LabelOverallExperience: true,
	types.LabelSkillLevel:        true,
	types.LabelRole:              true,
	types.LabelCertification:     true,
	types.LabelLocation:          true,
	types.LabelCompany:           true,
	types.LabelDate:              true,
}

// validateSpans keeps only spans that point at real regions of text. Offsets
// are repaired from the span text when the model miscounts; spans whose text
// cannot be located at all are dropped.
func validateSpans(text string, spans []types.EntitySpan) ([]types.EntitySpan, error) {
	out := make([]types.EntitySpan, 0, len(spans))
	for _, s := range spans {
		if !knownLabels[s.Label] || s.Text == "" {
			continue
		}
		if s.Start >= 0 && s.End <= len(text) && s.Start < s.End && text[s.Start:s.End] == s.Text {
			out = append(out, s)
			continue
		}
		if i := strings.Index(strings.ToLower(text), strings.ToLower(s.Text)); i >= 0 {
			out = append(out, types.EntitySpan{Start: i, End: i + len(s.Text), Label: s.Label, Text: text[i : i+len(s.Text)]})
		}
	}
	if len(out) == 0 && len(spans) > 0 {
		return nil, fmt.Errorf("tagger response referenced text not present in query")
	}
	return out, nil
}

func buildTagPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("You are an entity tagger for candidate search queries in hiring.\n")
	sb.WriteString("Find every entity in the query and return a JSON array of spans.\n\n")
	sb.WriteString("Each span is {\"start\": int, \"end\": int, \"label\": string, \"text\": string} where\n")
	sb.WriteString("start/end are byte offsets into the query and text is the exact covered substring.\n\n")
	sb.WriteString("Labels:\n")
	sb.WriteString("  TECHNOLOGY          a concrete skill or tool (Python, AWS, SQL Server)\n")
	sb.WriteString("  TECH_CATEGORY       a generic technology group (cloud platforms, databases)\n")
	sb.WriteString("  TECH_EXPERIENCE     a years phrase tied to one technology (5 years of Python)\n")
	sb.WriteString("  OVERALL_EXPERIENCE  a years phrase about total experience (10+ years experience)\n")
	sb.WriteString("  SKILL_LEVEL         seniority words (senior, junior, expert)\n")
	sb.WriteString("  ROLE                job role words (developer, architect)\n")
	sb.WriteString("  CERTIFICATION       named certifications\n")
	sb.WriteString("  LOCATION            places\n")
	sb.WriteString("  COMPANY             employer names\n")
	sb.WriteString("  DATE                dates or date ranges\n\n")
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Copy text verbatim from the query; never paraphrase.\n")
	sb.WriteString("- Return ONLY the JSON array, no markdown, no explanation.\n\n")
	sb.WriteString("Query:\n\"\"\"\n")
	sb.WriteString(text)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers. Models wrap JSON in
// ```json fences even when instructed not to.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
