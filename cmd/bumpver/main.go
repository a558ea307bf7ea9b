// Command bumpver manages the VERSION file that release builds stamp into
// the binary via ldflags.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	var file string

	app := &cli.Command{
		Name:  "bumpver",
		Usage: "Show, set or bump the project version",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Usage:       "path to the VERSION file",
				Value:       "VERSION",
				Destination: &file,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					v, err := readVersion(file)
					if err != nil {
						return err
					}
					fmt.Println(v)
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "Set the version to an explicit value",
				ArgsUsage: "<version>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("set requires exactly one version argument")
					}
					v, err := setVersion(file, cmd.Args().First())
					if err != nil {
						return err
					}
					fmt.Println(v)
					return nil
				},
			},
			{
				Name:      "bump",
				Usage:     "Increment the major, minor or patch component",
				ArgsUsage: "<major|minor|patch>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("bump requires one of: major, minor, patch")
					}
					v, err := bumpVersion(file, cmd.Args().First())
					if err != nil {
						return err
					}
					fmt.Println(v)
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
