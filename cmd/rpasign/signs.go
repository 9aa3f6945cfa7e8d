package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muhamm-ad/rpasign/internal/cli"
	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/model"
	"github.com/muhamm-ad/rpasign/internal/service"
)

func signsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signs",
		Short: "Browse stored sign descriptions",
	}

	cmd.AddCommand(signsListCmd())
	cmd.AddCommand(signsShowCmd())
	cmd.AddCommand(signsBatchCmd())

	return cmd
}

func signsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter service.SignFilter
			filter.CodePrefix, _ = cmd.Flags().GetString("prefix")
			filter.MetadataOnly, _ = cmd.Flags().GetBool("metadata-only")
			filter.FailedOnly, _ = cmd.Flags().GetBool("failed-only")
			filter.Limit, _ = cmd.Flags().GetInt("limit")
			filter.Offset, _ = cmd.Flags().GetInt("offset")
			asJSON, _ := cmd.Flags().GetBool("json")

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			descs, err := store.ListSignDescs(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				exported := make([]map[string]any, len(descs))
				for i := range descs {
					exported[i] = descs[i].Export()
				}
				return writeJSON(out, exported)
			}

			if len(descs) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No sign descriptions found"))
				return nil
			}
			for i := range descs {
				fmt.Fprintln(out, cli.RenderSignRow(&descs[i]))
			}

			total, err := store.CountSignDescs(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d shown, %d stored", len(descs), total)))
			return nil
		},
	}

	cmd.Flags().String("prefix", "", "Only codes starting with this prefix")
	cmd.Flags().Bool("metadata-only", false, "Only descriptions with leftover metadata")
	cmd.Flags().Bool("failed-only", false, "Only descriptions with skipped fragments")
	cmd.Flags().IntP("limit", "n", 50, "Maximum number of descriptions (0 for all)")
	cmd.Flags().Int("offset", 0, "Number of descriptions to skip")
	cmd.Flags().Bool("json", false, "Print as JSON")

	return cmd
}

func signsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <code>",
		Short: "Show one stored description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			desc, err := store.GetSignDesc(cmd.Context(), args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no sign stored under code %q", args[0]), err)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), desc.Export())
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSignDesc(desc))
			return err
		},
	}

	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

func signsBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <id>",
		Short: "Show an import batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			batch, err := store.GetImportBatch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderBatch(batch))
			return err
		},
	}
}

func renderBatch(batch *model.ImportBatch) string {
	status := cli.WarningStyle.Render("unfinished")
	if batch.Finished() {
		status = cli.SuccessStyle.Render("finished " + batch.FinishedAt.Local().Format("2006-01-02 15:04:05"))
	}

	content := fmt.Sprintf("source    %s\nstarted   %s\nstatus    %s\nrecords   %d\nfailed    %d",
		batch.Source,
		batch.StartedAt.Local().Format("2006-01-02 15:04:05"),
		status,
		batch.Total,
		batch.Failed)
	return cli.RenderBox("Batch "+batch.ID, content)
}
