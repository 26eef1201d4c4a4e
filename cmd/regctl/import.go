package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/internal/regtext"
	"github.com/joshuapare/regkit/pkg/registry"
	"github.com/joshuapare/regkit/pkg/types"
)

var importDryRun bool

func init() {
	cmd := newImportCmd()
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and print the operations without applying them")
	rootCmd.AddCommand(cmd)
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.reg>",
		Short: "Apply a .reg file",
		Long: `The import command applies a .reg file in order: [key] sections create
keys, [-key] sections delete key trees and value lines write values.
UTF-8, UTF-16 (with a byte order mark) and Windows-1252 files are accepted.
Deleting a key that does not exist is not an error here, as in regedit.

Example:
  regctl import acme.reg
  regctl import acme.reg --dry-run
  regctl import acme.reg --best-effort`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args)
		},
	}
}

func runImport(ctx context.Context, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	ops, err := regtext.Parse(data)
	if err != nil {
		return err
	}
	printVerbose("Parsed %d operations from %s\n", len(ops), args[0])

	if importDryRun {
		if jsonOut {
			return printJSON(ops)
		}
		for _, op := range ops {
			if op.Kind == regtext.OpSetValue {
				printInfo("%-6s %s : %q %s (%d bytes)\n", op.Kind, op.Address, op.Value.Name, op.Value.Kind, len(op.Value.Data))
				continue
			}
			printInfo("%-6s %s\n", op.Kind, op.Address)
		}
		return nil
	}

	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	outcomes := registry.RunPolicy(ctx, cfg.Policy, ops, opAddress, func(ctx context.Context, op regtext.Op) (struct{}, error) {
		return struct{}{}, applyOp(ctx, c, op)
	})
	failed := registry.Failed(outcomes)
	for _, o := range failed {
		log.Warn("import step failed", "address", o.Address, "err", o.Err)
	}
	if _, err := registry.Collect(outcomes, cfg.Policy); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":    args[0],
			"applied": len(outcomes) - len(failed),
			"failed":  len(failed),
		})
	}
	printInfo("✓ Applied %d of %d operations from %s\n", len(outcomes)-len(failed), len(ops), args[0])
	return nil
}

func opAddress(op regtext.Op) string { return op.Address }

func applyOp(ctx context.Context, c *registry.Client, op regtext.Op) error {
	switch op.Kind {
	case regtext.OpCreateKey:
		return c.Create(ctx, op.Address)
	case regtext.OpDeleteKey:
		err := c.Delete(ctx, op.Address)
		if errors.Is(err, types.ErrNotFound) {
			return nil
		}
		return err
	case regtext.OpSetValue:
		return c.PutValues(ctx, op.Address, op.Value)
	default:
		return fmt.Errorf("line %d: unknown operation %s", op.Line, op.Kind)
	}
}
