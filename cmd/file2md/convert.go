package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/file2md/backend/internal/convert"
	"github.com/file2md/backend/internal/export"
	"github.com/file2md/backend/internal/models"
)

func newConvertCmd() *cobra.Command {
	var (
		outDir  string
		ocrLang string
		timeout time.Duration
		noMeta  bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert files to markdown, writing one .md per input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := convert.NewEngine(convert.Options{OCRLanguage: ocrLang})
			converted, failed := convertPaths(cmd.OutOrStdout(), engine, args, outDir, timeout, !noMeta)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d converted, %d failed (total: %d)\n",
				converted, failed, converted+failed)
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory for .md output files")
	cmd.Flags().StringVar(&ocrLang, "ocr-lang", "eng", "tesseract language for image inputs")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "per-file conversion timeout")
	cmd.Flags().BoolVar(&noMeta, "no-metadata", false, "omit the metadata header from output files")

	return cmd
}

// convertPaths runs each input through the engine, printing one status line
// per file. A failure never stops the batch.
func convertPaths(w io.Writer, engine *convert.Engine, paths []string, outDir string, timeout time.Duration, withHeader bool) (converted, failed int) {
	for _, path := range paths {
		if err := convertOne(engine, path, outDir, timeout, withHeader); err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "converted: %s\n", path)
		converted++
	}
	return converted, failed
}

func convertOne(engine *convert.Engine, path, outDir string, timeout time.Duration, withHeader bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := engine.Convert(ctx, path)
	if err != nil {
		return err
	}

	result := &models.ConversionResult{
		SourceFilename: filepath.Base(path),
		Extension:      models.ExtensionOf(path),
		SizeBytes:      info.Size(),
		Markdown:       out.Markdown,
		Metadata:       out.Metadata,
		ConvertedAt:    time.Now(),
	}

	content := []byte(result.Markdown)
	if withHeader {
		content = export.Artifact(result)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return os.WriteFile(filepath.Join(outDir, base+".md"), content, 0o644)
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported input extensions",
		Run: func(cmd *cobra.Command, args []string) {
			engine := convert.NewEngine(convert.Options{})
			for _, ext := range engine.Extensions() {
				fmt.Fprintln(cmd.OutOrStdout(), ext)
			}
		},
	}
}
