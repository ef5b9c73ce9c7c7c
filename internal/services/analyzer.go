package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/ats-resume-expert/internal/models"
)

type AnalysisInput struct {
	Document       *models.SourceDocument
	JobDescription string
	Mode           string
}

type AnalyzerService interface {
	Analyze(ctx context.Context, input AnalysisInput) (*models.AnalysisResult, error)
}

type analyzerService struct {
	preprocessor PreprocessorService
	inference    InferenceClient
	catalog      *PromptCatalog
	now          func() time.Time
}

func NewAnalyzerService(
	preprocessor PreprocessorService,
	inference InferenceClient,
	catalog *PromptCatalog,
) AnalyzerService {
	return &analyzerService{
		preprocessor: preprocessor,
		inference:    inference,
		catalog:      catalog,
		now:          time.Now,
	}
}

func (a *analyzerService) Analyze(ctx context.Context, input AnalysisInput) (*models.AnalysisResult, error) {
	mode, err := a.catalog.Get(input.Mode)
	if err != nil {
		return nil, err
	}

	log.Printf("🔄 Starting %s\n", mode.Title)

	// Step 1: Render pages
	log.Println("📄 Rendering résumé pages...")
	images, err := a.preprocessor.Preprocess(ctx, input.Document)
	if err != nil {
		log.Printf("❌ Failed to preprocess document: %v\n", err)
		return nil, fmt.Errorf("failed to preprocess document: %w", err)
	}
	if len(images) == 0 {
		return nil, &EmptyDocumentError{}
	}

	// Step 2: Ask the model
	log.Printf("🤖 Analyzing %d page(s) with Gemini...\n", len(images))
	response, err := a.inference.Generate(ctx, InferenceRequest{
		Instruction: input.JobDescription,
		Images:      images,
		Template:    mode.Prompt,
	})
	if err != nil {
		log.Printf("❌ %s failed: %v\n", mode.Title, err)
		return nil, fmt.Errorf("failed to generate %s: %w", mode.Title, err)
	}
	log.Printf("✅ %s response received: %d characters\n", mode.Title, len(response))

	now := a.now()
	result := &models.AnalysisResult{
		ID:           uuid.New(),
		ModeKey:      mode.Key,
		ModeTitle:    mode.Title,
		Response:     response,
		PageCount:    len(images),
		DownloadName: ReportFileName(mode.Title, now),
		CreatedAt:    now,
	}

	// Step 3: Structured output
	if mode.Structured {
		if finding, ok := InterpretResponse(response); ok {
			result.Finding = finding
			if dashboard, ok := BuildDashboard(finding); ok {
				result.Dashboard = dashboard
			}
		} else {
			log.Println("⚠️ No JSON object in response, returning raw text")
		}
	}

	return result, nil
}
