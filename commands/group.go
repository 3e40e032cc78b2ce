// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielhkuo/flowhub/export"
	"github.com/danielhkuo/flowhub/locale"
	"github.com/danielhkuo/flowhub/middleware"
	"github.com/danielhkuo/flowhub/models"
)

func (a *App) groupCmd() *cobra.Command {
	var (
		size     int
		theme    string
		outDir   string
		bucket   string
		noExport bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Split the roster into random teams and export them",
		Long: `Shuffle the roster and split it into groups of at most --size people.
Only the last group may be smaller.

With GEMINI_API_KEY set, groups get generated names that follow --theme;
otherwise, or when generation fails or times out, they are numbered. The
result is exported as groups_YYYY-MM-DD.csv into --out or, with --bucket, to
S3.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().IntVarP(&size, "size", "k", 0, "Maximum group size (default from GROUP_SIZE)")
	cmd.Flags().StringVar(&theme, "theme", "", "Theme for generated group names")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Export directory (default from EXPORT_DIR)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Export to this S3 bucket instead of a directory")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Skip the CSV export")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run as JSON")

	cmd.RunE = middleware.WithLogging(a.Logger, func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if !cmd.Flags().Changed("size") {
			size = a.cfg.GroupSize
		}
		if theme == "" {
			theme = a.cfg.Theme
		}
		if theme == "" {
			theme = a.printer.DefaultTheme()
		}

		run, err := a.session.Group(ctx, size, theme)
		if err != nil {
			return err
		}

		if asJSON {
			if err := middleware.JSONResponse(out, run); err != nil {
				return err
			}
		} else {
			a.printRun(cmd, run)
		}

		if noExport {
			return nil
		}
		sink, err := a.exportSink(ctx, outDir, bucket)
		if err != nil {
			return err
		}
		location, err := sink.Put(ctx, export.FileName(run.CreatedAt), export.Format(run.Groups))
		if err != nil {
			return err
		}
		a.logger.Info("grouping exported", zap.String("run_id", run.ID), zap.String("location", location))
		if !asJSON {
			fmt.Fprintln(out, a.printer.Sprintf(locale.KeyGroupingExported, location))
		}
		return nil
	})
	return cmd
}

func (a *App) printRun(cmd *cobra.Command, run models.Run) {
	out := cmd.OutOrStdout()
	for _, g := range run.Groups {
		fmt.Fprintf(out, "%s (%d)\n", g.Name, len(g.Members))
		for _, m := range g.Members {
			fmt.Fprintf(out, "  - %s\n", m.Name)
		}
	}
	fmt.Fprintln(out, a.printer.Sprintf(locale.KeyGroupingSummary, run.Size(), len(run.Groups)))
}

// exportSink picks the destination: an injected sink, then a bucket from the
// flag or config, then a directory.
func (a *App) exportSink(ctx context.Context, outDir, bucket string) (export.Sink, error) {
	if a.opts.sink != nil {
		return a.opts.sink, nil
	}
	if bucket == "" {
		bucket = a.cfg.ExportBucket
	}
	if bucket != "" {
		return export.NewS3Sink(ctx, export.S3Config{
			Bucket:          bucket,
			Prefix:          a.cfg.ExportPrefix,
			Region:          a.cfg.ExportRegion,
			Endpoint:        a.cfg.ExportEndpoint,
			PathStyle:       a.cfg.ExportPathStyle,
			AccessKeyID:     a.cfg.ExportAccessKeyID,
			SecretAccessKey: a.cfg.ExportSecretAccessKey,
		})
	}
	if outDir == "" {
		outDir = a.cfg.ExportDir
	}
	return export.NewFileSink(outDir), nil
}
