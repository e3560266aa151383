package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"schematic-editor/internal/circuit/graph"
	"schematic-editor/internal/circuit/models"
	"schematic-editor/internal/circuit/store"

	"github.com/spf13/cobra"
)

var errFindings = errors.New("circuit has findings")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "schematic",
		Short:        "Check and normalize circuit design files",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newValidateCmd(), newSimulateCmd(), newNormalizeCmd())
	return rootCmd
}

// --- validate ---

func newValidateCmd() *cobra.Command {
	var (
		asJSON bool
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Report unconnected components and empty circuits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDesign(args[0])
			if err != nil {
				return err
			}

			findings := graph.Validate(d)
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), map[string]any{"findings": findings}); err != nil {
					return err
				}
			} else {
				printFindings(cmd.OutOrStdout(), findings)
			}

			if strict && len(findings) > 0 {
				return errFindings
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print findings as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any finding is reported")
	return cmd
}

// --- simulate ---

func newSimulateCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "simulate [file]",
		Short: "List components on a path between a voltage source and ground",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDesign(args[0])
			if err != nil {
				return err
			}

			result := graph.Simulate(d)
			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if result.Computed {
					fmt.Fprintf(out, "active components: %d\n", len(result.Active))
					for _, id := range result.Active {
						fmt.Fprintf(out, "  %s\n", id)
					}
				}
				printFindings(out, result.Findings)
			}

			for _, f := range result.Findings {
				if f.Type == models.SeverityError {
					return errFindings
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// --- normalize ---

func newNormalizeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Snap to grid, drop dangling wire references and reissue IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			s := store.New(store.Options{})
			if err := s.LoadDesign(data); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			content, err := s.CircuitJSON()
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
				return err
			}
			if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func readDesign(path string) (models.Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Design{}, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := store.ParseFile(data)
	if err != nil {
		return models.Design{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func printFindings(w io.Writer, findings []models.ValidationError) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "no findings")
		return
	}
	for _, f := range findings {
		if f.ComponentID != "" {
			fmt.Fprintf(w, "%s: %s (%s)\n", f.Type, f.Message, f.ComponentID)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", f.Type, f.Message)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
