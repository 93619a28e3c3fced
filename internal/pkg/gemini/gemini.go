package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/verification"
	"github.com/gilponto/ponto-backend-go/internal/pkg/utils"
	"google.golang.org/genai"
)

const promptTemplate = `Analyze this image for an employee time clock system. The employee claims to be "%s".
1. Determine if there is a clear human face visible in the photo.
2. Write a short, friendly, professional greeting for this person (in Portuguese). If no face is detected, warn them politely.
Return JSON.`

var errEmptyResponse = errors.New("no response from verification model")

// generator is the subset of *genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Verifier asks a Gemini vision model whether a punch snapshot shows a face.
type Verifier struct {
	models  generator
	model   string
	timeout time.Duration
}

func NewVerifier(ctx context.Context, apiKey, model string, timeout time.Duration) (*Verifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newVerifier(client.Models, model, timeout), nil
}

func newVerifier(models generator, model string, timeout time.Duration) *Verifier {
	return &Verifier{models: models, model: model, timeout: timeout}
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"faceDetected": {Type: genai.TypeBoolean},
		"message":      {Type: genai.TypeString},
	},
	Required: []string{"faceDetected", "message"},
}

func (v *Verifier) Verify(ctx context.Context, image string, employeeName string) (verification.Result, error) {
	mime, data, err := utils.DecodeImage(image)
	if err != nil {
		return verification.Result{}, err
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mime),
			genai.NewPartFromText(fmt.Sprintf(promptTemplate, employeeName)),
		}, genai.RoleUser),
	}

	resp, err := v.models.GenerateContent(ctx, v.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
		Temperature:      genai.Ptr[float32](0.4),
	})
	if err != nil {
		return verification.Result{}, fmt.Errorf("generate content: %w", err)
	}

	return parseResult(resp.Text())
}

func parseResult(text string) (verification.Result, error) {
	text = stripFences(text)
	if text == "" {
		return verification.Result{}, errEmptyResponse
	}

	var res verification.Result
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return verification.Result{}, fmt.Errorf("decode verification result: %w", err)
	}
	return res, nil
}

// stripFences removes a surrounding ```json ... ``` markdown block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
