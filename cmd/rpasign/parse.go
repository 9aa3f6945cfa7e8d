package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/muhamm-ad/rpasign/internal/cli"
	"github.com/muhamm-ad/rpasign/internal/common"
	"github.com/muhamm-ad/rpasign/internal/config"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <description...>",
		Short: "Compile one sign description",
		Long: `Compile a single RPA description and print the rules it produces.

The arguments are joined with spaces, so quoting is optional:

  rpasign parse 17H MAR A 17H MER
  rpasign parse --json '\P 09H-17H LUN-VEN 1 AVRIL AU 30 NOV'`,
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().Bool("json", false, "Print the compiled description as JSON")
	cmd.Flags().String("policy", "", "Fragment failure policy (skip, abort)")

	_ = viper.BindPFlag(config.KeyFragmentPolicy, cmd.Flags().Lookup("policy"))

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	parser, err := newParser()
	if err != nil {
		return err
	}

	raw := strings.Join(args, " ")
	desc, err := parser.Parse(raw)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("could not compile %q", raw), err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, desc.Export())
	}

	_, err = fmt.Fprintln(out, cli.RenderSignDesc(desc))
	return err
}
