package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/types"
)

var (
	exportOut   string
	exportUTF16 bool
)

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&exportUTF16, "utf16", false, "Write UTF-16LE with a byte order mark, as regedit does")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <address>",
		Short: "Export a key tree to .reg format",
		Long: `The export command writes the key and everything below it as a .reg
file. Every value is written as hex(N): raw bytes so that all kinds
survive an import.

Example:
  regctl export HKCU\\Software\\Acme
  regctl export HKCU\\Software\\Acme --out acme.reg --utf16`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args)
		},
	}
}

func runExport(ctx context.Context, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	var keys []types.KeySnapshot
	skipped := 0
	err = c.Walk(ctx, args[0], func(s types.KeySnapshot) error {
		keys = append(keys, s)
		skipped += s.Skipped
		return nil
	})
	if err != nil {
		return err
	}
	printVerbose("Collected %d keys\n", len(keys))

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := regtext.Export(w, keys, regtext.ExportOptions{UTF16: exportUTF16}); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if exportOut != "" {
		printInfo("✓ Exported %d keys to %s\n", len(keys), exportOut)
	}
	if skipped > 0 {
		log.Warn("export incomplete", "skipped", skipped)
	}
	return nil
}
