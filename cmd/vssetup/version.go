package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wippyai/vssetup/setup"
)

func newParseVersionCmd(a *app) *cobra.Command {
	var isRange bool
	cmd := &cobra.Command{
		Use:   "parse-version VERSION",
		Short: "Parse a version or version range with the setup helper",
		Example: `  vssetup parse-version 17.9.34622.214
  vssetup parse-version --range "[16.0,17.0)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return a.with(cmd.Context(), func(cfg *setup.Configuration) error {
				helper, err := cfg.Helper()
				if err != nil {
					return err
				}
				defer helper.Close()

				if !isRange {
					v, err := helper.ParseVersion(args[0])
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\t%#016x\n", v, uint64(v))
					return nil
				}
				lo, hi, err := helper.ParseVersionRange(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "min: %s\t%#016x\n", lo, uint64(lo))
				fmt.Fprintf(out, "max: %s\t%#016x\n", hi, uint64(hi))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&isRange, "range", "r", false, "parse a version range such as [16.0,17.0)")
	return cmd
}

func newPolicyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "policy [NAME...]",
		Short: "Show the installer policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return a.with(cmd.Context(), func(cfg *setup.Configuration) error {
				policy, err := cfg.Policy()
				if err != nil {
					return err
				}
				defer policy.Close()

				shared, err := policy.SharedInstallationPath()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "sharedInstallationPath: %s\n", shared)
				for _, name := range args {
					v, err := policy.Value(name)
					if err != nil {
						return fmt.Errorf("policy %s: %w", name, err)
					}
					fmt.Fprintf(out, "%s: %s\n", name, v)
				}
				return nil
			})
		},
	}
}
