package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sadopc/timetracker/internal/commands"
	"github.com/spf13/cobra"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <command> [json-args]",
	Short: "Run one storage command and print its JSON result",
	Long: `Run one storage command and print its JSON result.

Arguments are a JSON object, for example:
  timetracker invoke create_task '{"name": "Writing", "date": "2024-03-01"}'

Pass "-" to read the arguments from standard input.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := invokeArgs(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		resp := commands.New(s).Invoke(args[0], raw)
		if !resp.OK() {
			return errors.New(resp.Error)
		}

		out, err := json.Marshal(resp.Result)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func invokeArgs(stdin io.Reader, args []string) (json.RawMessage, error) {
	if len(args) < 2 {
		return nil, nil
	}
	if args[1] != "-" {
		return json.RawMessage(args[1]), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading arguments: %w", err)
	}
	return json.RawMessage(strings.TrimSpace(string(data))), nil
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the command names accepted by invoke",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Names do not depend on the database.
		for _, name := range commands.New(nil).Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(commandsCmd)
}
