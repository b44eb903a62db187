// Command scan runs the worklist pipeline once from the command line: it
// reads a screenshot, extracts studies, matches them against the catalog and
// prints the result. Useful for trying prompts and images without the web UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"rvu-tracker/internal/catalog"
	"rvu-tracker/internal/extraction"
	"rvu-tracker/internal/imaging"
	"rvu-tracker/internal/match"
	"rvu-tracker/internal/models"
	"rvu-tracker/internal/state"
)

func main() {
	imagePath := flag.String("file", "", "Path to a worklist screenshot")
	rate := flag.Float64("rate", 40.0, "Dollars per RVU")
	grouped := flag.Bool("grouped", false, "Fold duplicate procedures into one row")
	fixture := flag.String("fixture", "", "Replay a recorded extraction response instead of calling the model")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}
	if *imagePath == "" && *fixture == "" {
		logger.Fatal().Msg("either -file or -fixture is required")
	}

	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load procedure catalog")
	}
	matcher := match.New(cat.All(), logger)

	items, err := extractItems(context.Background(), cat, *imagePath, *fixture, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("extraction failed")
	}

	studies := matcher.MatchBatch(items)
	if *grouped {
		studies = state.Group(studies)
	}

	if len(studies) == 0 {
		fmt.Println("No studies matched.")
		return
	}

	fmt.Printf("%-8s %-45s %8s %5s %10s\n", "CODE", "PROCEDURE", "RVU", "QTY", "TOTAL RVU")
	var totalRVU float64
	var count int
	for _, s := range studies {
		fmt.Printf("%-8s %-45s %8.2f %5d %10.2f\n", s.Code, s.Name, s.RVU, s.Quantity, s.TotalRVU())
		totalRVU += s.TotalRVU()
		count += s.Quantity
	}
	fmt.Printf("\n%d studies, %.2f RVU, $%.2f at $%.2f/RVU\n", count, totalRVU, totalRVU*(*rate), *rate)
}

func extractItems(ctx context.Context, cat *catalog.Catalog, imagePath, fixturePath string, logger zerolog.Logger) ([]models.ExtractedItem, error) {
	if fixturePath != "" {
		fx, err := extraction.LoadFixture(fixturePath)
		if err != nil {
			return nil, err
		}
		return fx.Extract(ctx, "", nil, cat.ReferenceList())
	}

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", imagePath, err)
	}
	payload, err := imaging.Prepare(raw)
	if err != nil {
		return nil, err
	}

	projectID := os.Getenv("GEMINI_PROJECT_ID")
	if projectID == "" {
		return nil, fmt.Errorf("GEMINI_PROJECT_ID not set")
	}
	region := os.Getenv("VERTEX_AI_REGION")
	if region == "" {
		region = "us-central1"
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-pro"
	}

	vx, err := extraction.NewVertexExtractor(ctx, projectID, region, model, logger)
	if err != nil {
		return nil, err
	}
	defer vx.Close()

	return vx.Extract(ctx, payload.MIME, payload.Data, cat.ReferenceList())
}
