package extraction

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog"

	"rvu-tracker/internal/models"
)

const ExtractorSystemPrompt = "You are a radiology worklist reader. You are given a screenshot of a " +
	"radiology worklist and a reference list of billable procedures. Your task is to identify every " +
	"individual procedure line item visible in the screenshot. Accuracy matters more than coverage: " +
	"only report rows you can actually read."

const extractorUserPrompt = `Identify each procedure line item in the attached worklist screenshot.

For every row, produce one JSON object with these keys:
- "code": the procedure code from the reference list below if you can identify it, otherwise an empty string.
- "name": the procedure name from the reference list that best describes the row, or your best reading of it.
- "quantity": how many times this exact row appears (minimum 1).
- "original_text": the row's procedure text exactly as it appears on screen.
- "confidence": your confidence in this extraction, between 0 and 1.

Reference procedure list (one "CODE | NAME" per line):
%s
Respond with a JSON array of these objects and nothing else. If the image contains no readable worklist rows, respond with an empty array.`

// responseSchema constrains the model to the extraction wire shape.
var responseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"code":          {Type: genai.TypeString},
			"name":          {Type: genai.TypeString},
			"quantity":      {Type: genai.TypeInteger},
			"original_text": {Type: genai.TypeString},
			"confidence":    {Type: genai.TypeNumber},
		},
		Required: []string{"name", "quantity", "original_text", "confidence"},
	},
}

// VertexExtractor calls a Gemini model on Vertex AI configured for strict
// JSON output.
type VertexExtractor struct {
	model      *genai.GenerativeModel
	baseClient *genai.Client
	log        zerolog.Logger
}

func NewVertexExtractor(ctx context.Context, projectID, region, modelName string, logger zerolog.Logger) (*VertexExtractor, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexExtractor: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ExtractorSystemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
		Temperature:      genai.Ptr[float32](0.0),
	}
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &VertexExtractor{model: model, baseClient: baseClient, log: logger}, nil
}

func (v *VertexExtractor) Extract(ctx context.Context, mimeType string, image []byte, reference string) ([]models.ExtractedItem, error) {
	prompt := fmt.Sprintf(extractorUserPrompt, reference)

	resp, err := v.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: mimeType, Data: image},
	)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("extraction returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	items, err := ParseItems(sb.String())
	if err != nil {
		return nil, err
	}
	v.log.Info().Int("items", len(items)).Msg("worklist extraction complete")
	return items, nil
}

func (v *VertexExtractor) Close() error {
	if v.baseClient != nil {
		return v.baseClient.Close()
	}
	return nil
}
