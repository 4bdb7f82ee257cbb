package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	viamsudoku "viamsudoku"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/rimage"
)

// occupancy marks every cell that holds a glyph with 1; no digit model is needed.
var occupancy = viamsudoku.ClassifierFunc(func(ctx context.Context, patch *viamsudoku.Patch) (viamsudoku.Prediction, error) {
	return viamsudoku.Prediction{Digit: 1, Score: 1}, nil
})

func main() {
	app := &cli.App{
		Name:        "boardreader",
		Usage:       "find a puzzle board in an image and print which cells hold a glyph",
		ArgsUsage:   "<input.jpg> [output.jpg]",
		Description: "If output is not specified, it will be <input>_board<ext>.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "resize", Value: 600, Usage: "resize the input to NxN before detection, 0 to keep it"},
			&cli.IntFlag{Name: "rows", Value: 9, Usage: "board rows"},
			&cli.IntFlag{Name: "cols", Value: 9, Usage: "board columns"},
			&cli.BoolFlag{Name: "debug", Usage: "log every pipeline stage"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.ShowAppHelp(c)
	}

	inputFile := c.Args().Get(0)

	outputFile := c.Args().Get(1)
	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		base := strings.TrimSuffix(inputFile, ext)
		outputFile = base + "_board" + ext
	}

	logger := logging.NewLogger("boardreader")
	if c.Bool("debug") {
		logger.SetLevel(logging.DEBUG)
	}

	input, err := rimage.ReadImageFromFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Image size: %dx%d\n", input.Bounds().Dx(), input.Bounds().Dy())

	conf := viamsudoku.Config{Rows: c.Int("rows"), Cols: c.Int("cols"), ResizeTo: c.Int("resize")}
	pipeline, err := viamsudoku.NewPipeline(conf, viamsudoku.NewMaskQuadDetector(), occupancy, logger)
	if err != nil {
		return fmt.Errorf("configuring pipeline: %w", err)
	}

	res, err := pipeline.Run(c.Context, input)
	if err != nil {
		return fmt.Errorf("reading board: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Found corners:\n")
	for _, p := range res.Corners {
		fmt.Fprintf(os.Stderr, "  (%.0f, %.0f)\n", p.X, p.Y)
	}

	if _, err := res.Board.WriteTo(os.Stdout); err != nil {
		return fmt.Errorf("writing board: %w", err)
	}

	err = rimage.WriteImageToFile(outputFile, viamsudoku.BoardDebugImage(res.Color, res.Board, 0, 0))
	if err != nil {
		return fmt.Errorf("writing output image: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Saved output image to %s\n", outputFile)
	return nil
}
