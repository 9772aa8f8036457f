package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"startup-risk-lab/internal/riskdomain"
	"startup-risk-lab/internal/shock"
)

var domainsCmd = &cobra.Command{
	Use:   "domains [key]",
	Short: "List risk domains, or show one domain's features and metrics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := riskdomain.Default()
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			if outputFormat == "json" {
				type row struct {
					Key         string                 `json:"key"`
					Name        string                 `json:"name"`
					Category    string                 `json:"category"`
					RiskProfile riskdomain.RiskProfile `json:"risk_profile"`
					Description string                 `json:"description"`
				}
				rows := make([]row, 0, len(reg.Keys()))
				for _, d := range reg.All() {
					rows = append(rows, row{d.Key(), d.Name(), d.Category(), d.RiskProfile(), d.Description()})
				}
				return writeJSON(out, rows)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tCATEGORY\tRISK\tMETRICS")
			for _, d := range reg.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", d.Key(), d.Name(), d.Category(), d.RiskProfile(), len(d.ReportingMetrics()))
			}
			return w.Flush()
		}

		d, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return writeJSON(out, map[string]any{
				"key":          d.Key(),
				"name":         d.Name(),
				"description":  d.Description(),
				"risk_profile": d.RiskProfile(),
				"features":     d.FeatureSpec(),
				"risk_factors": d.RiskFactors(),
				"metrics":      d.ReportingMetrics(),
			})
		}

		fmt.Fprintf(out, "%s (%s) - %s risk\n%s\n\n", d.Name(), d.Key(), d.RiskProfile(), d.Description())
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FEATURE\tKIND\tDEFAULT\tRANGE\tDESCRIPTION")
		for _, f := range d.FeatureSpec() {
			fmt.Fprintf(w, "%s\t%s\t%g\t[%g, %g]\t%s\n", f.Name, f.Kind, f.Default, f.Min, f.Max, f.Description)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nMetrics: %s\n", strings.Join(d.ReportingMetrics(), ", "))
		return nil
	},
}

var shocksCmd = &cobra.Command{
	Use:   "shocks",
	Short: "List generic shock types and predefined scenario templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		type template struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Shocks      int    `json:"shocks"`
		}
		templates := make([]template, 0, len(shock.ScenarioNames()))
		for _, name := range shock.ScenarioNames() {
			desc, err := shock.ScenarioDescription(name)
			if err != nil {
				return err
			}
			shocks, err := shock.GenerateScenarioShocks(name)
			if err != nil {
				return err
			}
			templates = append(templates, template{Name: name, Description: desc, Shocks: len(shocks)})
		}

		if outputFormat == "json" {
			types := make([]shock.TypeSpec, 0, len(shock.Types()))
			for _, t := range shock.Types() {
				spec, _ := shock.Lookup(t)
				types = append(types, spec)
			}
			return writeJSON(out, map[string]any{"types": types, "templates": templates})
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tINTENSITY\tDURATION (DAYS)\tJURISDICTIONS\tCORRELATED")
		for _, t := range shock.Types() {
			spec, _ := shock.Lookup(t)
			corr := make([]string, 0)
			for _, c := range shock.CorrelatedTypes(t) {
				corr = append(corr, string(c))
			}
			fmt.Fprintf(w, "%s\t%.2f-%.2f\t%d-%d\t%s\t%s\n",
				t, spec.MinIntensity, spec.MaxIntensity, spec.MinDuration, spec.MaxDuration,
				strings.Join(spec.Jurisdictions, ","), strings.Join(corr, ","))
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "TEMPLATE\tSHOCKS\tDESCRIPTION")
		for _, tpl := range templates {
			fmt.Fprintf(w, "%s\t%d\t%s\n", tpl.Name, tpl.Shocks, tpl.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(domainsCmd, shocksCmd)
}
