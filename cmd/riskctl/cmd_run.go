package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"startup-risk-lab/internal/config"
	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/orchestrator"
)

// scenarioFlags are the run parameters shared by run, named and what-if.
type scenarioFlags struct {
	file          string
	name          string
	domainKey     string
	iterations    int
	horizon       int
	seed          int64
	shockTypes    []string
	jurisdictions []string
	correlation   float64
	jitter        float64
	features      map[string]string
	full          bool
}

func (f *scenarioFlags) register(cmd *cobra.Command, withFilters bool) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Scenario YAML file; flags override its values")
	cmd.Flags().StringVar(&f.name, "name", "", "Scenario name")
	cmd.Flags().StringVarP(&f.domainKey, "domain", "d", "", "Domain key (see 'riskctl domains')")
	cmd.Flags().IntVarP(&f.iterations, "iterations", "n", 0, "Number of iterations (default from config)")
	cmd.Flags().IntVar(&f.horizon, "horizon", 0, "Time horizon in days (default from config)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed; identical seeded runs are reproducible and cached")
	cmd.Flags().Float64Var(&f.jitter, "jitter", 0, "Per-iteration relative feature jitter in [0, 1]")
	cmd.Flags().StringToStringVar(&f.features, "feature", nil, "Base feature value, e.g. --feature gross_churn=0.1")
	cmd.Flags().BoolVar(&f.full, "full", false, "Include iteration records in JSON output")
	if withFilters {
		cmd.Flags().StringSliceVar(&f.shockTypes, "shock-types", nil, "Restrict generated shocks to these types")
		cmd.Flags().StringSliceVar(&f.jurisdictions, "jurisdictions", nil, "Restrict generated shocks to these jurisdictions")
		cmd.Flags().Float64Var(&f.correlation, "correlation", 0, "Correlated shock probability in [0, 1] (default from config)")
	}
}

// params builds scenario parameters from the file (if any), the flags and config defaults.
func (f *scenarioFlags) params(cmd *cobra.Command) (domain.ScenarioParameters, error) {
	var p domain.ScenarioParameters
	if f.file != "" {
		var err error
		if p, err = config.LoadScenario(f.file); err != nil {
			return p, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = f.name
	}
	if changed("domain") {
		p.DomainKey = f.domainKey
	}
	if changed("iterations") {
		p.NumIterations = f.iterations
	}
	if changed("horizon") {
		p.TimeHorizonDays = f.horizon
	}
	if changed("seed") {
		seed := f.seed
		p.Seed = &seed
	}
	if changed("shock-types") {
		p.ShockTypes = make([]domain.ShockType, len(f.shockTypes))
		for i, t := range f.shockTypes {
			p.ShockTypes[i] = domain.ShockType(t)
		}
	}
	if changed("jurisdictions") {
		p.Jurisdictions = f.jurisdictions
	}
	if changed("correlation") {
		p.CorrelationProbability = f.correlation
	}
	if changed("jitter") {
		p.FeatureJitter = f.jitter
	}
	if len(f.features) > 0 {
		features, err := parseFeatures(f.features)
		if err != nil {
			return p, err
		}
		if p.BaseFeatures == nil {
			p.BaseFeatures = make(map[string]float64, len(features))
		}
		for k, v := range features {
			p.BaseFeatures[k] = v
		}
	}

	if p.DomainKey == "" {
		return p, fmt.Errorf("a domain is required (--domain or scenario file)")
	}
	if p.Name == "" {
		p.Name = p.DomainKey
	}
	cfg.Engine.ApplyDefaults(&p)
	return p, nil
}

func parseFeatures(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %q is not a number", k, v)
		}
		out[k] = f
	}
	return out, nil
}

var runFlags scenarioFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a Monte-Carlo scenario against one domain",
	Long: `Run samples shocks for every iteration, applies them to the domain model and
prints summary statistics and percentiles per outcome metric.

Examples:
  riskctl run --domain saas --iterations 5000 --seed 42
  riskctl run -f scenarios/fintech.yaml --shock-types regulatory_change,policy_rate_change
  riskctl run --domain greentech --feature sustainability_score=0.8 --jitter 0.1 -o json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		params, err := runFlags.params(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app) error {
			run, err := a.orch.RunScenario(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printRun(cmd.OutOrStdout(), run, runFlags.full)
		})
	},
}

var namedFlags scenarioFlags

var namedCmd = &cobra.Command{
	Use:   "named <scenario>",
	Short: "Run a predefined shock template against one domain",
	Long: `Named applies the curated shocks of a template (see 'riskctl shocks') to every
iteration. Templates are fixed, so outcomes vary only with --jitter.

Examples:
  riskctl named black_swan --domain fintech --jitter 0.15 --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := namedFlags.params(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app) error {
			run, err := a.orch.RunNamed(cmd.Context(), orchestrator.NamedRequest{
				Scenario:        args[0],
				DomainKey:       params.DomainKey,
				NumIterations:   params.NumIterations,
				TimeHorizonDays: params.TimeHorizonDays,
				Seed:            params.Seed,
				BaseFeatures:    params.BaseFeatures,
				FeatureJitter:   params.FeatureJitter,
			})
			if err != nil {
				return err
			}
			return printRun(cmd.OutOrStdout(), run, namedFlags.full)
		})
	},
}

// What-if flags
var (
	whatIfFlags     scenarioFlags
	whatIfBaseID    string
	whatIfIntensity float64
	whatIfDuration  float64
	whatIfCorr      float64
	whatIfExtra     int
	whatIfDomain    string
	whatIfSeed      int64
)

var whatIfCmd = &cobra.Command{
	Use:   "what-if",
	Short: "Re-run a scenario with transformed shocks",
	Long: `What-if transforms a base run: shock intensities and durations are scaled,
correlation probability is scaled, and extra shocks can be appended. The base
is either a persisted result (--base-id) or a scenario run first in this process.

Examples:
  riskctl what-if --base-id 6f1c... --intensity 1.5
  riskctl what-if --domain saas --seed 42 --intensity 2 --extra-shocks 1 --target-domain fintech`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := domain.DefaultWhatIfParams()
		w.IntensityMultiplier = whatIfIntensity
		w.DurationMultiplier = whatIfDuration
		w.CorrelationMultiplier = whatIfCorr
		w.AdditionalShocks = whatIfExtra
		w.DomainKey = whatIfDomain
		if cmd.Flags().Changed("what-if-seed") {
			seed := whatIfSeed
			w.Seed = &seed
		}

		return withApp(cmd.Context(), func(a *app) error {
			baseID := whatIfBaseID
			if baseID == "" {
				params, err := whatIfFlags.params(cmd)
				if err != nil {
					return err
				}
				base, err := a.orch.RunScenario(cmd.Context(), params)
				if err != nil {
					return err
				}
				baseID = base.Result.ID
				logger.Info().Str("result_id", baseID).Msg("base scenario completed")
			}

			run, err := a.orch.RunWhatIf(cmd.Context(), baseID, w)
			if err != nil {
				return err
			}
			return printRun(cmd.OutOrStdout(), run, whatIfFlags.full)
		})
	},
}

var compareIDs bool

var compareCmd = &cobra.Command{
	Use:   "compare <scenario.yaml|result-id>...",
	Short: "Compare metric means across two or more scenarios",
	Long: `Compare runs each scenario file (or loads each persisted result with --ids) and
ranks the scenarios by mean for every outcome metric.

Examples:
  riskctl compare scenarios/base.yaml scenarios/stressed.yaml
  riskctl compare --ids 6f1c... 9a02...`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			ids := args
			if !compareIDs {
				ids = make([]string, 0, len(args))
				for _, path := range args {
					params, err := config.LoadScenario(path)
					if err != nil {
						return err
					}
					cfg.Engine.ApplyDefaults(&params)
					run, err := a.orch.RunScenario(ctx, params)
					if err != nil {
						return fmt.Errorf("scenario %s: %w", path, err)
					}
					ids = append(ids, run.Result.ID)
				}
			}

			cmp, err := a.orch.Compare(ctx, ids...)
			if err != nil {
				return err
			}
			return printComparison(cmd.OutOrStdout(), cmp)
		})
	},
}

func init() {
	runFlags.register(runCmd, true)
	namedFlags.register(namedCmd, false)
	whatIfFlags.register(whatIfCmd, true)

	whatIfCmd.Flags().StringVar(&whatIfBaseID, "base-id", "", "Persisted base result ID; otherwise the base is run from flags")
	whatIfCmd.Flags().Float64Var(&whatIfIntensity, "intensity", 1, "Shock intensity multiplier")
	whatIfCmd.Flags().Float64Var(&whatIfDuration, "duration", 1, "Shock duration multiplier")
	whatIfCmd.Flags().Float64Var(&whatIfCorr, "correlation-multiplier", 1, "Correlation probability multiplier")
	whatIfCmd.Flags().IntVar(&whatIfExtra, "extra-shocks", 0, "Additional random shocks per iteration")
	whatIfCmd.Flags().StringVar(&whatIfDomain, "target-domain", "", "Evaluate the transformed shocks against another domain")
	whatIfCmd.Flags().Int64Var(&whatIfSeed, "what-if-seed", 0, "Seed override for the what-if run")

	compareCmd.Flags().BoolVar(&compareIDs, "ids", false, "Arguments are persisted result IDs")

	rootCmd.AddCommand(runCmd, namedCmd, whatIfCmd, compareCmd)
}
