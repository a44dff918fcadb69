// Package gemini provides a Gemini-backed transcript classifier.
//
// Classification is a decision procedure, not creative generation: the model
// is forced to answer through a single function declaration whose parameter
// schema is exactly the Decision shape, at temperature 0.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"voice-note-router-service/internal/models"
	"voice-note-router-service/internal/service/classify"
)

const functionName = "route_transcript"

const systemPrompt = `You classify a single transcribed voice memo and route it.
Call ` + functionName + ` exactly once.

Rules, applied in order:
1. kind is "todo" when the text contains task or reminder cues directed at
   the assistant: "todo", "to-do", "to do", "task", "remind me to",
   "remember to", "don't let me forget", "I need to", "I have to",
   "we should", or a bare imperative. All other text is kind "note".
   kind takes precedence: a todo never gets a routing action.
2. routingAction is "create_folder" when the text explicitly requests a new
   folder ("create a folder called X", "new folder X").
3. routingAction is "categorize_note" when the text references an existing
   organizational target ("put this in X", "save under X").
4. routingAction is "none" otherwise.
5. folderName is the folder the text names; set it only for create_folder
   and categorize_note.
6. content is the cleaned text to persist: remove verbal fillers ("uh",
   "um"), strip the cue/routing phrasing, and trim whitespace.

Do not invent fields beyond the function schema.`

// decisionSchema constrains the function arguments to the Decision shape.
var decisionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"kind": {
			Type: genai.TypeString,
			Enum: []string{string(models.KindNote), string(models.KindTodo)},
		},
		"routingAction": {
			Type: genai.TypeString,
			Enum: []string{
				string(models.ActionCreateFolder),
				string(models.ActionCategorizeNote),
				string(models.ActionNone),
			},
		},
		"folderName": {
			Type:        genai.TypeString,
			Description: "Folder name, only for create_folder and categorize_note.",
		},
		"content": {
			Type:        genai.TypeString,
			Description: "Cleaned canonical text to persist.",
		},
	},
	Required: []string{"kind", "routingAction", "content"},
}

// Adapter implements classify.Classifier using Gemini function calling.
type Adapter struct {
	model  string
	config *genai.ClientConfig
}

// New creates a Gemini classifier. The API key is read from the config or,
// when absent, from GOOGLE_API_KEY. An empty key is allowed only with a
// custom HTTP client (e.g. recorded replays in tests).
func New(model string, config *genai.ClientConfig) (*Adapter, error) {
	if config == nil {
		config = &genai.ClientConfig{}
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if config.APIKey == "" && config.HTTPClient == nil {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable not set")
	}
	if model == "" {
		model = "gemini-flash-latest"
	}
	return &Adapter{model: model, config: config}, nil
}

// Classify sends the transcript through the function-calling contract and
// parses the single expected call into a Decision.
func (a *Adapter) Classify(ctx context.Context, text string) (models.Decision, error) {
	if strings.TrimSpace(text) == "" {
		return classify.EmptyDecision(), nil
	}

	client, err := genai.NewClient(ctx, a.config)
	if err != nil {
		return models.Decision{}, &classify.ClassificationError{Reason: "create genai client", Err: err}
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        functionName,
				Description: "Record the classification and routing decision for the transcript.",
				Parameters:  decisionSchema,
			}},
		}},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{functionName},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model, genai.Text(text), cfg)
	if err != nil {
		return models.Decision{}, &classify.ClassificationError{Reason: "generate content", Err: err}
	}

	calls := resp.FunctionCalls()
	if len(calls) == 0 {
		return models.Decision{}, &classify.ClassificationError{Reason: "response contains no function call"}
	}
	if len(calls) > 1 {
		return models.Decision{}, &classify.ClassificationError{
			Reason: fmt.Sprintf("response contains %d function calls, expected exactly one", len(calls)),
		}
	}
	if calls[0].Name != functionName {
		return models.Decision{}, &classify.ClassificationError{
			Reason: fmt.Sprintf("unexpected function call %q", calls[0].Name),
		}
	}

	return classify.ParseDecision(calls[0].Args)
}
