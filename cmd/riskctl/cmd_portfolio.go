package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"startup-risk-lab/internal/config"
	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/orchestrator"
	"startup-risk-lab/internal/riskdomain"
)

// Portfolio flags
var (
	portfolioScenario      string
	portfolioIterations    int
	portfolioHorizon       int
	portfolioSeed          int64
	portfolioShockTypes    []string
	portfolioJurisdictions []string
	portfolioCorrelation   float64
	portfolioJitter        float64
	portfolioTolerance     string
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio <portfolio.yaml>",
	Short: "Estimate the loss distribution of a portfolio of startup holdings",
	Long: `Portfolio runs one Monte-Carlo scenario per held domain with a shared seed, so
every domain sees the same sampled shocks, and combines the per-domain loss
distributions by holding weight into VaR and expected shortfall.

With --scenario the portfolio is evaluated once against a predefined template.

Examples:
  riskctl portfolio fund.yaml --iterations 2000 --seed 11 --tolerance low
  riskctl portfolio fund.yaml --scenario severe_recession`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.LoadPortfolio(args[0])
		if err != nil {
			return err
		}
		tolerance, err := parseTolerance(portfolioTolerance)
		if err != nil {
			return err
		}

		return withApp(cmd.Context(), func(a *app) error {
			if portfolioScenario != "" {
				res, err := a.orch.SimulatePortfolio(p, portfolioScenario)
				if err != nil {
					return err
				}
				return printPortfolioResult(cmd.OutOrStdout(), res)
			}

			req := orchestrator.PortfolioRequest{
				NumIterations:          portfolioIterations,
				TimeHorizonDays:        portfolioHorizon,
				Jurisdictions:          portfolioJurisdictions,
				CorrelationProbability: portfolioCorrelation,
				FeatureJitter:          portfolioJitter,
				RiskTolerance:          tolerance,
			}
			if req.NumIterations == 0 {
				req.NumIterations = cfg.Engine.DefaultIterations
			}
			if req.TimeHorizonDays == 0 {
				req.TimeHorizonDays = cfg.Engine.DefaultHorizonDays
			}
			if !cmd.Flags().Changed("correlation") {
				req.CorrelationProbability = cfg.Engine.CorrelationProbability
			}
			if cmd.Flags().Changed("seed") {
				seed := portfolioSeed
				req.Seed = &seed
			}
			for _, t := range portfolioShockTypes {
				req.ShockTypes = append(req.ShockTypes, domain.ShockType(t))
			}

			analysis, err := a.orch.AnalyzePortfolio(cmd.Context(), p, req)
			if err != nil {
				return err
			}
			return printPortfolioAnalysis(cmd.OutOrStdout(), analysis)
		})
	},
}

var stressCmd = &cobra.Command{
	Use:   "stress <portfolio.yaml> [scenario...]",
	Short: "Stress test a portfolio against predefined shock templates",
	Long: `Stress evaluates the portfolio against each named template, or against all
stress templates when none are given. A failing template is reported and does
not stop the others.

Examples:
  riskctl stress fund.yaml
  riskctl stress fund.yaml black_swan liquidity_crisis`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.LoadPortfolio(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app) error {
			results, err := a.orch.StressTest(p, args[1:]...)
			if err != nil {
				return err
			}
			return printStress(cmd.OutOrStdout(), results)
		})
	},
}

func parseTolerance(s string) (riskdomain.RiskProfile, error) {
	switch t := riskdomain.RiskProfile(s); t {
	case riskdomain.RiskLow, riskdomain.RiskMedium, riskdomain.RiskHigh:
		return t, nil
	default:
		return "", fmt.Errorf("unknown risk tolerance %q (low|medium|high)", s)
	}
}

func init() {
	portfolioCmd.Flags().StringVar(&portfolioScenario, "scenario", "", "Evaluate once against this predefined template")
	portfolioCmd.Flags().IntVarP(&portfolioIterations, "iterations", "n", 0, "Iterations per domain (default from config)")
	portfolioCmd.Flags().IntVar(&portfolioHorizon, "horizon", 0, "Time horizon in days (default from config)")
	portfolioCmd.Flags().Int64Var(&portfolioSeed, "seed", 0, "Seed shared by all domain runs")
	portfolioCmd.Flags().StringSliceVar(&portfolioShockTypes, "shock-types", nil, "Restrict generated shocks to these types")
	portfolioCmd.Flags().StringSliceVar(&portfolioJurisdictions, "jurisdictions", nil, "Restrict generated shocks to these jurisdictions")
	portfolioCmd.Flags().Float64Var(&portfolioCorrelation, "correlation", 0, "Correlated shock probability in [0, 1] (default from config)")
	portfolioCmd.Flags().Float64Var(&portfolioJitter, "jitter", 0, "Per-iteration relative feature jitter in [0, 1]")
	portfolioCmd.Flags().StringVar(&portfolioTolerance, "tolerance", string(riskdomain.RiskMedium), "Risk tolerance for recommendations (low|medium|high)")

	rootCmd.AddCommand(portfolioCmd, stressCmd)
}
