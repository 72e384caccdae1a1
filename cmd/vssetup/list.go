package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/vssetup/internal/report"
	"github.com/wippyai/vssetup/setup"
)

// listFlags are shared by list and instance.
type listFlags struct {
	all      bool
	packages bool
	errors   bool
	format   string
	lcid     string
}

func (f *listFlags) register(cmd *cobra.Command, withAll bool) {
	fs := cmd.Flags()
	if withAll {
		fs.BoolVarP(&f.all, "all", "a", false, "include incomplete and not launchable instances")
	}
	fs.BoolVarP(&f.packages, "packages", "p", false, "list the packages of every instance")
	fs.BoolVar(&f.errors, "errors", false, "show the error state of incomplete instances")
	fs.StringVarP(&f.format, "format", "f", "", "output format: text, json, yaml")
	fs.StringVar(&f.lcid, "lcid", "", "locale for display names: user, system, invariant or a number")
}

// listOptions merges the flags that were set over the configuration.
func (a *app) listOptions(cmd *cobra.Command, f *listFlags) (report.Options, string, bool, error) {
	lcid, err := a.lcid(cmd)
	if err != nil {
		return report.Options{}, "", false, err
	}
	opts := report.Options{
		LCID:     lcid,
		Packages: a.cfg.Packages,
		Errors:   f.errors,
	}
	if cmd.Flags().Changed("packages") {
		opts.Packages = f.packages
	}
	format := a.cfg.Format
	if cmd.Flags().Changed("format") {
		format = f.format
	}
	all := a.cfg.All
	if cmd.Flags().Changed("all") {
		all = f.all
	}
	return opts, format, all, nil
}

func newListCmd(a *app) *cobra.Command {
	f := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, format, all, err := a.listOptions(cmd, f)
			if err != nil {
				return err
			}
			snaps, err := a.loadAll(cmd.Context(), all, opts)
			if err != nil {
				return err
			}
			a.log.Debug("instances collected", zap.Int("count", len(snaps)), zap.Bool("all", all))
			return report.Write(cmd.OutOrStdout(), format, snaps)
		},
	}
	f.register(cmd, true)
	return cmd
}

// collectAll snapshots every instance, closing each as it goes.
func collectAll(cfg *setup.Configuration, all bool, opts report.Options) ([]*report.Instance, error) {
	var snaps []*report.Instance
	for inst, err := range cfg.Instances(all) {
		if err != nil {
			return nil, err
		}
		snap, err := report.Collect(inst, opts)
		_ = inst.Close()
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func newInstanceCmd(a *app) *cobra.Command {
	f := &listFlags{}
	cmd := &cobra.Command{
		Use:   "instance [PATH]",
		Short: "Show the instance that owns PATH, or the one running this process",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, format, _, err := a.listOptions(cmd, f)
			if err != nil {
				return err
			}
			var snap *report.Instance
			err = a.with(cmd.Context(), func(cfg *setup.Configuration) error {
				var inst *setup.Instance
				if len(args) == 1 {
					inst, err = cfg.InstanceForPath(args[0])
				} else {
					inst, err = cfg.InstanceForCurrentProcess()
				}
				if err != nil {
					return err
				}
				defer inst.Close()
				snap, err = report.Collect(inst, opts)
				return err
			})
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), format, []*report.Instance{snap})
		},
	}
	f.register(cmd, false)
	return cmd
}
