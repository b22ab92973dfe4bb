package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/barscan/internal/testutil"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		generateImages   = flag.Bool("images", true, "Generate synthetic frame images")
		generateFixtures = flag.Bool("fixtures", true, "Generate fixture descriptions")
		outDir           = flag.String("out", "testdata", "Output directory relative to the project root")
		verbose          = flag.Bool("v", false, "Verbose output")
		help             = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Render the synthetic barcode frames used by the scanner tests.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                 # Generate images and fixtures\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -fixtures=false # Generate only images\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	root, err := testutil.GetProjectRoot()
	if err != nil {
		slog.Error("Failed to find project root", "error", err)
		os.Exit(1)
	}
	dir := filepath.Join(root, *outDir)
	if *verbose {
		slog.Info("Options", "images", *generateImages, "fixtures", *generateFixtures, "dir", dir)
	}

	fixtures := testutil.SeedFixtures()

	if *generateImages {
		if err := generateImagesTo(dir, fixtures); err != nil {
			slog.Error("Failed to generate frame images", "error", err)
			os.Exit(1)
		}
		slog.Info("Generated frame images", "count", len(fixtures))
	}

	if *generateFixtures {
		if err := generateFixturesTo(filepath.Join(dir, "fixtures"), fixtures); err != nil {
			slog.Error("Failed to generate fixtures", "error", err)
			os.Exit(1)
		}
		slog.Info("Generated fixtures", "count", len(fixtures))
	}
}

func generateImagesTo(dir string, fixtures []testutil.FrameFixture) error {
	for _, fx := range fixtures {
		f, err := fx.Render()
		if err != nil {
			return fmt.Errorf("render %s: %w", fx.Name, err)
		}
		if err := testutil.SaveFramePNG(f, filepath.Join(dir, fx.InputFile)); err != nil {
			return err
		}
	}
	return nil
}

func generateFixturesTo(dir string, fixtures []testutil.FrameFixture) error {
	if err := testutil.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create fixtures directory: %w", err)
	}
	for _, fx := range fixtures {
		data, err := json.MarshalIndent(fx, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, fx.Name+".json"), data, 0o600); err != nil {
			return fmt.Errorf("failed to save fixture %q: %w", fx.Name, err)
		}
	}
	return nil
}
