package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeleteCmd())
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <address>...",
		Short: "Delete keys and everything below them",
		Long: `The delete command removes each key with all of its subkeys and values.
Deleting a key that does not exist is an error; with --best-effort it is
skipped. Hive roots cannot be deleted.

Example:
  regctl delete HKCU\\Software\\Acme
  regctl delete HKCU\\Software\\A HKCU\\Software\\B --best-effort`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), args)
		},
	}
}

func runDelete(ctx context.Context, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	done, err := c.DeleteAll(ctx, args, cfg.Policy)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(map[string]interface{}{"deleted": done, "requested": len(args)})
	}
	for _, a := range done {
		printInfo("✓ deleted %s\n", a)
	}
	if n := len(args) - len(done); n > 0 {
		printInfo("%d of %d keys could not be deleted\n", n, len(args))
	}
	return nil
}
