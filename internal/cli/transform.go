package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"image-transform-api/internal/adapters/storage"
	"image-transform-api/internal/models"
	"image-transform-api/internal/services"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitModel      = 2
	ExitRateLimit  = 3
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitWithCode(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitValidation
}

// transformOutput is the --json document printed after a transform
type transformOutput struct {
	Files   []string `json:"files"`
	Text    *string  `json:"text"`
	Count   int      `json:"count"`
	Warning string   `json:"warning,omitempty"`
}

func (a *App) newTransformCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform an image with a text prompt",
		Long: `Send an image and a prompt to the generative model and save the results.

Examples:
  imagectl transform --image cat.png --prompt "make it a watercolor"
  imagectl transform --image cat.png --prompt "add a hat" --out ./results --json`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		RunE: a.runTransform,
	}

	cmd.Flags().StringVar(&a.imagePath, "image", "", "input image file (required)")
	cmd.Flags().StringVar(&a.prompt, "prompt", "", "transformation prompt (required)")
	cmd.Flags().StringVar(&a.outDir, "out", ".", "directory generated images are written to")
	cmd.Flags().StringVar(&a.prefix, "prefix", "", "output file name prefix (default: input file name)")
	cmd.Flags().BoolVar(&a.overwrite, "overwrite", false, "replace existing output files")

	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func (a *App) runTransform(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(a.imagePath)
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to read image: %w", err))
	}

	service, err := a.buildService(a.cfg)
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to initialize transform service: %w", err))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := service.Transform(ctx, &models.TransformRequest{
		Image:  base64.StdEncoding.EncodeToString(raw),
		Prompt: a.prompt,
	})
	if err != nil {
		return transformFailure(err)
	}

	store, err := storage.NewLocalFileStorage(a.outDir)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	defer store.Close()

	keys, err := storage.SaveArtifacts(ctx, store, a.outputPrefix(), result.Images, a.overwrite)
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to write images: %w", err))
	}

	files := make([]string, len(keys))
	for i, key := range keys {
		files[i] = filepath.Join(a.outDir, filepath.FromSlash(key))
	}

	return a.printResult(files, result)
}

func (a *App) outputPrefix() string {
	if a.prefix != "" {
		return a.prefix
	}
	base := filepath.Base(a.imagePath)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name + "-transformed"
	}
	return "transformed"
}

func (a *App) printResult(files []string, result *models.TransformResult) error {
	if a.jsonOutput {
		out := transformOutput{
			Files:   files,
			Text:    result.Text,
			Count:   result.Count,
			Warning: result.Warning,
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, file := range files {
		fmt.Fprintf(a.stdout, "wrote %s\n", file)
	}
	if result.Text != nil {
		fmt.Fprintf(a.stdout, "text: %s\n", *result.Text)
	}
	if result.Warning != "" {
		fmt.Fprintf(a.stderr, "warning: %s\n", result.Warning)
	}
	return nil
}

// transformFailure reports the caller-safe message with its status code
func transformFailure(err error) error {
	kind := services.KindOf(err)

	message := "Internal server error"
	var classified *services.ClassifiedError
	if errors.As(err, &classified) {
		message = classified.Message
	}

	code := ExitModel
	switch kind {
	case services.KindInvalidArgument, services.KindFailedPrecondition:
		code = ExitValidation
	case services.KindResourceExhausted:
		code = ExitRateLimit
	}

	return exitWithCode(code, fmt.Errorf("%s: %s", kind.Status(), message))
}
