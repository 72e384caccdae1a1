package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/wippyai/vssetup/internal/prereq"
	"github.com/wippyai/vssetup/setup"
)

func newPrereqCmd(a *app) *cobra.Command {
	var (
		yes  bool
		arch string
	)
	cmd := &cobra.Command{
		Use:   "prereq",
		Short: "Check for the MSVC toolset and Windows SDK and offer to install them",
		Long: `prereq picks the Visual Studio installation best suited for native builds,
reports whether the MSVC toolset for the target architecture and a Windows SDK
are present, and runs the Visual Studio installer to add what is missing.

Exit code 1 (S_FALSE) means Visual Studio is not installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("arch") {
				arch = a.cfg.Arch
			}
			if !slices.Contains([]string{"amd64", "arm64"}, arch) {
				return fmt.Errorf("unsupported arch %q: want amd64 or arm64", arch)
			}
			lcid, err := a.cfg.LCID()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "Scanning for build prerequisites...")
			scanner := &prereq.Scanner{
				Arch: arch,
				LCID: lcid,
				Getenv: func(key string) string {
					v, _ := a.lookupEnv(key)
					return v
				},
				Logger: a.log,
			}
			var cands []prereq.Candidate
			err = a.with(cmd.Context(), func(cfg *setup.Configuration) error {
				cands, err = scanner.Scan(cfg)
				return err
			})
			if err != nil {
				return err
			}

			in := &prereq.Installer{Runner: a.runner, Arch: arch, FindSDK: a.findSDK, Logger: a.log}
			plan, err := in.Check(cands)
			if err != nil {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Visual Studio is not installed")
				fmt.Fprintln(out, "Download it from "+prereq.DownloadURL)
				return err
			}

			for _, id := range plan.Found {
				fmt.Fprintf(out, "\tFound %s\n", id)
			}
			if plan.SDKVersion != "" {
				fmt.Fprintf(out, "\tFound Windows SDK version %s\n", plan.SDKVersion)
			}
			if plan.Complete() {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "All build prerequisites are installed.")
				return nil
			}
			if plan.MissingSDK {
				fmt.Fprintln(out, "\tMissing component: Windows SDK")
			}
			if plan.MissingMSVC {
				fmt.Fprintln(out, "\tMissing component: MSVC build tools")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Finding components to install...")
			if err := in.Resolve(cmd.Context(), plan); err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Found components for %s:\n", plan.Candidate.DisplayName)
			for _, id := range plan.Add {
				fmt.Fprintf(out, "\t%s\n", id)
			}

			if !yes {
				ok, err := a.confirm(cmd, "Would you like to install the missing components?", plan.Add)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			return in.Install(cmd.Context(), plan)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "install without asking")
	cmd.Flags().StringVar(&arch, "arch", "", "target architecture: amd64 or arm64 (default from config)")
	return cmd
}
