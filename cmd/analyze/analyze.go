package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/ats-resume-expert/internal/config"
	"alfredoptarigan/ats-resume-expert/internal/models"
	"alfredoptarigan/ats-resume-expert/internal/services"
)

const debugPreviewChars = 500

type analyzeOptions struct {
	ResumePath string
	JobPath    string
	JobText    string
	Mode       string
	OutDir     string
	Debug      bool
}

var analyzeOpts analyzeOptions

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&analyzeOpts.ResumePath, "resume", "r", "", "Path to the résumé PDF (required)")
	flags.StringVarP(&analyzeOpts.JobPath, "job", "j", "", "Path to a text file with the job description")
	flags.StringVar(&analyzeOpts.JobText, "job-text", "", "Job description passed inline")
	flags.StringVarP(&analyzeOpts.Mode, "mode", "m", services.ModeDetailedAnalysis, "Analysis mode: quick_scan, detailed_analysis or improvement_pro")
	flags.StringVarP(&analyzeOpts.OutDir, "out", "o", "", "Directory to write the report file to")
	flags.BoolVar(&analyzeOpts.Debug, "debug", false, "Print page count and extracted text before the analysis")

	if err := rootCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	rootCmd.MarkFlagsMutuallyExclusive("job", "job-text")
}

func (o analyzeOptions) jobDescription() (string, error) {
	if o.JobPath == "" && strings.TrimSpace(o.JobText) == "" {
		return "", errors.New("a job description is required (use --job or --job-text)")
	}
	if o.JobText != "" {
		return o.JobText, nil
	}

	content, err := os.ReadFile(o.JobPath)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return "", fmt.Errorf("job description file %s is empty", o.JobPath)
	}
	return string(content), nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	jobDescription, err := analyzeOpts.jobDescription()
	if err != nil {
		return err
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	catalog, err := services.LoadPromptCatalog()
	if err != nil {
		return fmt.Errorf("failed to load prompt catalog: %w", err)
	}

	// Fail fast on a bad mode before any rendering or API calls.
	if _, err := catalog.Get(analyzeOpts.Mode); err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(catalog.Keys(), ", "))
	}

	storage := services.NewStorageService(cfg.Storage.MaxFileSize)
	doc, err := storage.ReadFile(analyzeOpts.ResumePath)
	if err != nil {
		return err
	}

	parser := services.NewPDFParserService()
	out := cmd.OutOrStdout()

	if analyzeOpts.Debug {
		printDebug(out, parser, doc, cfg.Document.MaxPages)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		APIVersion:        cfg.Gemini.APIVersion,
		MaxAttempts:       cfg.Inference.RetryMaxAttempts,
		RetryDelay:        cfg.Inference.RetryDelay,
		RequestsPerMinute: cfg.Inference.RequestsPerMinute,
	})
	if err != nil {
		return err
	}

	analyzer := services.NewAnalyzerService(
		services.NewPreprocessorService(parser, services.NewPdftoppmRasterizer(cfg.Document.RenderDPI), cfg.Document.MaxPages),
		gemini,
		catalog,
	)

	result, err := analyzer.Analyze(ctx, services.AnalysisInput{
		Document:       doc,
		JobDescription: jobDescription,
		Mode:           analyzeOpts.Mode,
	})
	if err != nil {
		return err
	}

	printResult(out, result)

	if analyzeOpts.OutDir != "" {
		path, err := writeReport(analyzeOpts.OutDir, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n💾 Report saved to %s\n", path)
	}

	return nil
}

func printDebug(w io.Writer, parser services.PDFParserService, doc *models.SourceDocument, maxPages int) {
	content, err := parser.ExtractText(doc.Data, maxPages)
	if err != nil {
		fmt.Fprintf(w, "🐛 Could not read PDF: %v\n", err)
		return
	}

	fmt.Fprintf(w, "🐛 %s: %d bytes, %d page(s), sending up to %d\n", doc.Filename, len(doc.Data), content.PageCount, maxPages)
	if content.Text == "" {
		fmt.Fprintln(w, "🐛 No text layer found (scanned document?)")
		return
	}
	fmt.Fprintf(w, "🐛 Text preview:\n%s\n\n", truncate(content.Text, debugPreviewChars))
}

func printResult(w io.Writer, result *models.AnalysisResult) {
	fmt.Fprintf(w, "📋 %s Results (%d page(s) analyzed)\n\n", result.ModeTitle, result.PageCount)
	if result.Dashboard != nil {
		fmt.Fprintln(w, services.RenderDashboard(result.Dashboard))
	}
	fmt.Fprintln(w, "📝 Complete Analysis")
	fmt.Fprintln(w, result.Response)
}

func writeReport(dir string, result *models.AnalysisResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, result.DownloadName)
	if err := os.WriteFile(path, []byte(result.Response), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
