package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/FerrisMind/inspector-gguf/internal/updater"
	"github.com/FerrisMind/inspector-gguf/internal/version"
)

func updateCmd() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Check GitHub for a newer release",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			chk, err := updater.New().CheckLatest(ctx, version.Resolve().Version)
			if err != nil {
				return err
			}
			switch chk.Status {
			case updater.StatusUpdateAvailable:
				fmt.Printf("new version available: %s (current %s)\n", chk.LatestTag, chk.Current)
			case updater.StatusNoReleases:
				fmt.Println("no releases published yet")
			default:
				fmt.Printf("up to date (%s)\n", chk.Current)
			}
			return nil
		},
	}
}
