package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

// InferenceRequest is one multimodal prompt: the job description, the page
// images and the analysis template, sent in that order.
type InferenceRequest struct {
	Instruction string
	Images      []models.PageImage
	Template    string
}

// InferenceClient returns the model's text for a request.
type InferenceClient interface {
	Generate(ctx context.Context, req InferenceRequest) (string, error)
}

// ContentGenerator is the part of the genai client used here. *genai.Models
// satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiOptions struct {
	APIKey            string
	Model             string
	APIVersion        string
	MaxAttempts       int
	RetryDelay        time.Duration
	RequestsPerMinute int
}

type geminiService struct {
	generator   ContentGenerator
	modelName   string
	maxAttempts int
	retryDelay  time.Duration
	limiter     *rate.Limiter
}

func NewGeminiService(ctx context.Context, opts GeminiOptions) (InferenceClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini API key is empty")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.APIVersion != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{APIVersion: opts.APIVersion}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return NewGeminiServiceWithGenerator(client.Models, opts), nil
}

// NewGeminiServiceWithGenerator builds the service on any ContentGenerator.
func NewGeminiServiceWithGenerator(generator ContentGenerator, opts GeminiOptions) InferenceClient {
	if opts.Model == "" {
		opts.Model = "gemini-flash-latest"
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = 0
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &geminiService{
		generator:   generator,
		modelName:   opts.Model,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		limiter:     limiter,
	}
}

// Generate implements InferenceClient. Every error counts as a failed
// attempt; after maxAttempts failures a *TransientInferenceError carrying the
// last error is returned.
func (g *geminiService) Generate(ctx context.Context, req InferenceRequest) (string, error) {
	contents, err := buildContents(req)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		text, err := g.generate(ctx, contents)
		if err == nil {
			if attempt > 1 {
				log.Printf("✅ Gemini call succeeded on attempt %d\n", attempt)
			}
			return text, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		if attempt < g.maxAttempts {
			log.Printf("⚠️ Attempt %d failed: %v. Retrying in %s...\n", attempt, err, g.retryDelay)
			if err := sleepContext(ctx, g.retryDelay); err != nil {
				return "", fmt.Errorf("context cancelled: %w", err)
			}
		}
	}

	log.Printf("❌ Gemini call failed after %d attempts: %v\n", g.maxAttempts, lastErr)
	return "", &TransientInferenceError{Attempts: g.maxAttempts, Err: lastErr}
}

func (g *geminiService) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	resp, err := g.generator.GenerateContent(ctx, g.modelName, contents, nil)
	if err != nil {
		return "", err
	}

	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("no text content in response")
	}

	return text, nil
}

// buildContents lays out a single user turn as instruction, images, template.
func buildContents(req InferenceRequest) ([]*genai.Content, error) {
	parts := make([]*genai.Part, 0, len(req.Images)+2)
	parts = append(parts, genai.NewPartFromText(req.Instruction))

	for i, img := range req.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, fmt.Errorf("page image %d is not valid base64: %w", i+1, err)
		}
		mimeType := img.MIMEType
		if mimeType == "" {
			mimeType = models.MIMETypeJPEG
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}

	parts = append(parts, genai.NewPartFromText(req.Template))

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
