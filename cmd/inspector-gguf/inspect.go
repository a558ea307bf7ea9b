package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/FerrisMind/inspector-gguf/internal/loader"
	"github.com/FerrisMind/inspector-gguf/internal/logger"
)

func inspectCmd() *cli.Command {
	var (
		showFull bool
		filter   string
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the metadata of a .gguf model",
		Flags: append(modelFlags(), append(loggingFlags(),
			&cli.BoolFlag{
				Name:        "full",
				Usage:       "print full tokenizer content instead of truncated previews",
				Destination: &showFull,
			},
			&cli.StringFlag{
				Name:        "filter",
				Usage:       "only print keys containing this substring",
				Destination: &filter,
			},
		)...),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyCommonConfig(c, LoadConfig())
			log := newLogger()
			ctx = logger.WithContext(ctx, log)

			path, err := resolveModelPath(modelPath, modelsPath, os.Stdin, os.Stderr)
			if err != nil {
				return err
			}
			log.Debug("starting load", "path", path)

			res, err := watchLoad(ctx, path)
			if err != nil {
				return err
			}
			if res.Err != nil {
				return res.Err
			}

			for _, e := range res.Entries {
				if filter != "" && !strings.Contains(e.Key, filter) {
					continue
				}
				value := e.Display
				if showFull && e.HasFull {
					value = e.Full
				}
				fmt.Printf("%s = %s\n", e.Key, value)
			}
			return nil
		},
	}
}

// watchLoad runs a background load and polls it, drawing a progress bar on
// interactive terminals.
func watchLoad(ctx context.Context, path string) (*loader.Result, error) {
	load := loader.Start(ctx, path)

	interactive := stderrIsTTY()
	width := terminalWidth()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	done := ctx.Done()
	last := float32(0)
	for {
		select {
		case <-done:
			// Keep ticking until the cancelled load settles.
			load.Cancel()
			done = nil
		case <-ticker.C:
		}

		if res, ok := load.Poll(); ok {
			if interactive {
				clearProgress(os.Stderr, width)
			}
			return res, nil
		}
		// A contended Progress call reuses the previous value.
		if p, _, ok := load.Progress(); ok && p >= 0 {
			last = p
		}
		if interactive {
			renderProgress(os.Stderr, last, width)
		}
	}
}

func renderProgress(w *os.File, frac float32, width int) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	// Leave room for "[" "] 100%".
	barWidth := width - 8
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(frac * float32(barWidth))
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
	_, _ = fmt.Fprintf(w, "\r[%s] %3.0f%%", bar, frac*100)
}

func clearProgress(w *os.File, width int) {
	_, _ = fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", width))
}

func stderrIsTTY() bool {
	st, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (st.Mode() & os.ModeCharDevice) != 0
}
