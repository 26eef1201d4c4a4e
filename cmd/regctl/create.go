package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <address>...",
		Short: "Create keys and any missing parents",
		Long: `The create command creates each key together with any missing parent
keys. Creating a key that already exists succeeds.

Example:
  regctl create HKCU\\Software\\Acme\\Tool
  regctl create HKCU\\Software\\A HKCU\\Software\\B --best-effort`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), args)
		},
	}
}

func runCreate(ctx context.Context, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	done, err := c.CreateAll(ctx, args, cfg.Policy)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(map[string]interface{}{"created": done, "requested": len(args)})
	}
	for _, a := range done {
		printInfo("✓ %s\n", a)
	}
	if n := len(args) - len(done); n > 0 {
		printInfo("%d of %d keys could not be created\n", n, len(args))
	}
	return nil
}
