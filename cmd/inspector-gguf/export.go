package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/FerrisMind/inspector-gguf/internal/export"
	"github.com/FerrisMind/inspector-gguf/internal/loader"
)

func exportCmd() *cli.Command {
	var (
		format  string
		output  string
		outDir  string
		scanDir string
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Export model metadata to json, csv, yaml, markdown or html",
		Flags: append(modelFlags(), append(loggingFlags(),
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (json, csv, yaml, markdown, html)",
				Value:       "json",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file path (defaults to the model name)",
				Destination: &output,
			},
			&cli.StringFlag{
				Name:        "out-dir",
				Usage:       "directory for exported files",
				Destination: &outDir,
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "export every .gguf model in this directory",
				Destination: &scanDir,
			},
		)...),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyExportConfig(c, LoadConfig(), &format, &outDir)
			log := newLogger()

			if scanDir != "" {
				models, err := discoverGGUFModels(scanDir)
				if err != nil {
					return err
				}
				if len(models) == 0 {
					return fmt.Errorf("no .gguf models found in %s", scanDir)
				}
				for _, m := range models {
					written, err := exportOne(m, format, "", outDir)
					if err != nil {
						return fmt.Errorf("export %s: %w", m, err)
					}
					log.Info("exported", "model", m, "output", written)
				}
				return nil
			}

			path, err := resolveModelPath(modelPath, modelsPath, os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			written, err := exportOne(path, format, output, outDir)
			if err != nil {
				return err
			}
			log.Info("exported", "model", path, "output", written)
			return nil
		},
	}
}

func exportOne(model, format, output, outDir string) (string, error) {
	entries, err := loader.LoadFile(model)
	if err != nil {
		return "", err
	}
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(model), filepath.Ext(model))
		output = filepath.Join(outDir, base)
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	return export.WriteFile(output, format, entries)
}
