package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fyp-portal/internal/dto"
)

func (a *app) panelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panels",
		Short: "Generate, list and export evaluation panels",
	}
	cmd.AddCommand(a.panelsGenerateCommand(), a.panelsListCommand(), a.panelsExportCommand())
	return cmd
}

func (a *app) panelsGenerateCommand() *cobra.Command {
	var req dto.GeneratePanelsRequest

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Partition approved projects into new draft panels",
		Long: `Partition every approved project into draft panels and assign
evaluators. Unset flags fall back to the panel section of the config.
Each run creates a new generation; earlier panels are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, e *env, out io.Writer) error {
				result, err := e.svc.Panel.Generate(ctx, &req, operator)
				if err != nil {
					return err
				}
				return a.emit(out, result, func(w io.Writer) error {
					if err := panelsTable(w, result.Panels); err != nil {
						return err
					}
					return summaryTable(w, result.Summary)
				})
			})
		},
	}

	cmd.Flags().IntVar(&req.Constraints.ProjectsPerPanel, "per-panel", 0, "projects per panel")
	cmd.Flags().IntVar(&req.Constraints.EvaluatorsPerPanel, "evaluators", 0, "evaluators per panel")
	cmd.Flags().StringVar(&req.Constraints.Strategy, "strategy", "", "evaluator selection: random or expertise")
	return cmd
}

func (a *app) panelsListCommand() *cobra.Command {
	var req dto.PanelListRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List panels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(ctx context.Context, e *env, out io.Writer) error {
				panels, err := e.svc.Panel.List(ctx, &req)
				if err != nil {
					return err
				}
				return a.emit(out, panels, func(w io.Writer) error {
					return panelsTable(w, panels)
				})
			})
		},
	}

	cmd.Flags().StringVar(&req.Status, "status", "", "filter by status (draft, scheduled, completed)")
	cmd.Flags().StringVar(&req.GenerationID, "generation", "", "filter by generation id")
	return cmd
}

func (a *app) panelsExportCommand() *cobra.Command {
	var (
		outPath string
		req     dto.PanelListRequest
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the panel roster (.xlsx) or the scheduled-panel calendar (.ics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ext := strings.ToLower(filepath.Ext(outPath))
			if ext != ".xlsx" && ext != ".ics" {
				return fmt.Errorf("--out must end in .xlsx or .ics, got %q", outPath)
			}

			return a.run(cmd, func(ctx context.Context, e *env, out io.Writer) error {
				var (
					buf *bytes.Buffer
					err error
				)
				if ext == ".ics" {
					buf, _, err = e.svc.Export.ExportCalendar(ctx)
				} else {
					buf, _, err = e.svc.Export.ExportPanels(ctx, &req)
				}
				if err != nil {
					return err
				}

				data := buf.Bytes()
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				_, err = fmt.Fprintf(out, "wrote %s (%d bytes)\n", outPath, len(data))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output file, .xlsx or .ics (required)")
	cmd.Flags().StringVar(&req.Status, "status", "", "roster only: filter by status")
	cmd.Flags().StringVar(&req.GenerationID, "generation", "", "roster only: filter by generation id")
	if err := cmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}
	return cmd
}
