package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/logging"
)

const maxOutputTokens = 600

// feedbackPayload is the structured output contract sent to the model.
// All fields become required through ensureSchemaCompliance.
type feedbackPayload struct {
	Feedback string `json:"feedback"`
}

// OpenAIGenerator produces coaching feedback through the OpenAI
// Responses API using a strict JSON schema. Retries are owned by the
// orchestrator's retry policy, so the underlying client runs with
// retries disabled to avoid compounding attempts.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	prompts *PromptTemplate
	logger  *logging.Logger
	schema  map[string]interface{}
}

// NewOpenAIGenerator creates a feedback generator backed by the OpenAI
// API. Extra request options are applied after the defaults, which
// lets tests point the client at a local server.
func NewOpenAIGenerator(apiKey, model string, timeout time.Duration, prompts *PromptTemplate, logger *logging.Logger, opts ...option.RequestOption) *OpenAIGenerator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := openai.NewClient(clientOpts...)

	return &OpenAIGenerator{
		client:  &client,
		model:   model,
		timeout: timeout,
		prompts: prompts,
		logger:  logger,
		schema:  generateSchema[feedbackPayload](),
	}
}

// Version returns the prompt version tag carried by analysis results.
func (g *OpenAIGenerator) Version() string {
	return g.prompts.Version()
}

// Generate renders the prompt for the subject and asks the model for
// feedback. Every failure is returned as a feedback service error so
// the caller can retry and then degrade.
func (g *OpenAIGenerator) Generate(ctx context.Context, subject analysis.FeedbackSubject) (string, error) {
	input, err := g.prompts.Render(subject)
	if err != nil {
		return "", analysis.NewFeedbackError(err)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	params := responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(maxOutputTokens),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "motion_feedback",
					Schema:      g.schema,
					Strict:      openai.Bool(true),
					Description: openai.String("Coaching feedback JSON"),
					Type:        "json_schema",
				},
			},
		},
	}
	if sys := strings.TrimSpace(g.prompts.System()); sys != "" {
		params.Instructions = openai.String(sys)
	}

	g.logger.Debug("Requesting feedback", map[string]interface{}{
		"motion_id": subject.MotionID,
		"model":     g.model,
	})

	resp, err := g.client.Responses.New(callCtx, params)
	if err != nil {
		return "", analysis.NewFeedbackError(err)
	}

	var payload feedbackPayload
	if err := decodeModelJSON(resp.OutputText(), &payload); err != nil {
		return "", analysis.NewFeedbackError(fmt.Errorf("failed to decode feedback output: %w", err))
	}

	text := strings.TrimSpace(payload.Feedback)
	if text == "" {
		return "", analysis.NewFeedbackError(fmt.Errorf("model returned empty feedback"))
	}

	g.logger.Debug("Feedback generated", map[string]interface{}{
		"motion_id": subject.MotionID,
		"chars":     len(text),
	})
	return text, nil
}

// decodeModelJSON unmarshals model output, tolerating prose or code
// fences around the JSON object.
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}

	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to unmarshal extracted JSON: %w", err)
	}
	return nil
}

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	data, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}

	ensureSchemaCompliance(out)
	return out
}

// ensureSchemaCompliance rewrites a reflected schema into the shape
// OpenAI strict mode expects: objects forbid additional properties and
// every declared property is required.
func ensureSchemaCompliance(schema map[string]interface{}) {
	if schemaType, ok := schema["type"].(string); ok && schemaType == "object" {
		schema["additionalProperties"] = false

		if properties, ok := schema["properties"].(map[string]interface{}); ok {
			var required []string
			for name := range properties {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}

	if properties, ok := schema["properties"].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureSchemaCompliance(propMap)
			}
		}
	}

	if items, ok := schema["items"].(map[string]interface{}); ok {
		ensureSchemaCompliance(items)
	}
}
