package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newPutCmd())
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <address> <name> <kind> <hex-bytes>",
		Short: "Write a value, creating the key if needed",
		Long: `The put command writes one value. The kind is a tag such as RegDword or
a native name such as REG_DWORD. Data is given as raw bytes in hex; commas,
colons and spaces between bytes are ignored. Use "" for empty data and
"@" as the name of the default value.

Example:
  regctl put HKCU\\Software\\Acme Enabled RegDword 01000000
  regctl put HKCU\\Software\\Acme Name REG_SZ 41,00,00,00
  regctl put HKCU\\Software\\Acme @ RegNone ""`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(cmd.Context(), args)
		},
	}
}

func runPut(ctx context.Context, args []string) error {
	address, name := args[0], args[1]
	if name == "@" {
		name = ""
	}
	kind, err := types.ParseValueKind(args[2])
	if err != nil {
		return err
	}
	data, err := parseHexArg(args[3])
	if err != nil {
		return err
	}

	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	value := types.ValueRecord{Name: name, Kind: kind, Data: data}
	if err := c.PutValues(ctx, address, value); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"address": address,
			"name":    name,
			"kind":    kind,
			"size":    len(data),
			"success": true,
		})
	}
	printInfo("✓ %s\\%s = %s (%d bytes)\n", address, args[1], kind, len(data))
	return nil
}

// parseHexArg decodes hex bytes, ignoring common separators.
func parseHexArg(s string) ([]byte, error) {
	clean := strings.NewReplacer(",", "", ":", "", " ", "", "0x", "").Replace(s)
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data %q: %w", s, err)
	}
	return data, nil
}
