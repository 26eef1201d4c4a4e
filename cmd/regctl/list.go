package main

import (
	"context"
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <address>...",
		Short: "List subkeys and values of keys",
		Long: `The list command prints the subkeys and values of each key. Values are
shown with their kind and raw bytes in hex. A missing key is reported as
not found, not as an error.

Example:
  regctl list HKCU\\Software\\Acme
  regctl list HKLM\\Software HKCU\\Software --best-effort
  regctl list HKCU\\Software\\Acme --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), args)
		},
	}
}

func runList(ctx context.Context, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	snaps, err := c.ListAll(ctx, args, cfg.Policy)
	if err != nil {
		return err
	}

	// Keep the order given on the command line; best effort leaves
	// failed addresses out of snaps.
	ordered := make([]types.KeySnapshot, 0, len(snaps))
	for _, a := range args {
		if s, ok := snaps[a]; ok {
			ordered = append(ordered, s)
		}
	}

	if jsonOut {
		return printJSON(ordered)
	}
	for i, s := range ordered {
		if i > 0 {
			printInfo("\n")
		}
		printSnapshot(s)
	}
	if skipped := len(args) - len(ordered); skipped > 0 {
		printInfo("\n%d of %d keys could not be listed\n", skipped, len(args))
	}
	return nil
}

func printSnapshot(s types.KeySnapshot) {
	if !s.Exists {
		printInfo("%s (not found)\n", s.Path)
		return
	}
	printInfo("%s\n", s.Path)
	if s.Truncated() {
		printInfo("  (%d entries could not be read)\n", s.Skipped)
	}
	if len(s.Subkeys) > 0 {
		printInfo("  Subkeys:\n")
		for _, k := range s.Subkeys {
			printInfo("    %s\n", k)
		}
	}
	if len(s.Values) > 0 {
		printInfo("  Values:\n")
		for _, v := range s.Values {
			name := v.Name
			if name == "" {
				name = "(Default)"
			}
			printInfo("    %-24s %-28s %s\n", name, v.Kind, hex.EncodeToString(v.Data))
		}
	}
}
