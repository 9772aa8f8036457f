package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/orchestrator"
	"startup-risk-lab/internal/response"
	"startup-risk-lab/internal/simulation"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRun writes a run summary. Iteration records are only written as JSON with full.
func printRun(w io.Writer, run *orchestrator.RunResult, full bool) error {
	r := run.Result
	if outputFormat == "json" {
		if !full {
			r = r.Clone()
			r.Results = nil
		}
		return writeJSON(w, struct {
			Cached bool                   `json:"cached"`
			Result *domain.ScenarioResult `json:"result"`
		}{run.Cached, r})
	}

	fmt.Fprintf(w, "Result:     %s\n", r.ID)
	fmt.Fprintf(w, "Scenario:   %s\n", r.ScenarioName)
	if r.BaseResultID != "" {
		fmt.Fprintf(w, "Base:       %s\n", r.BaseResultID)
	}
	fmt.Fprintf(w, "Domain:     %s\n", r.DomainKey)
	fmt.Fprintf(w, "Iterations: %d over %d days (seed %d)\n", r.NumIterations, r.TimeHorizonDays, r.Seed)
	if run.Cached {
		fmt.Fprintln(w, "Cached:     yes")
	}
	fmt.Fprintf(w, "Elapsed:    %s\n\n", r.CompletedAt.Sub(r.CreatedAt).Round(time.Millisecond))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "METRIC\tMEAN\tSTD\tMIN\tP5\tMEDIAN\tP95\tMAX\t")
	for _, m := range r.MetricKeys() {
		s := r.SummaryStats[m]
		p := r.Percentiles[m]
		p5, _ := p.P(0.05)
		p95, _ := p.P(0.95)
		fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t\n", m, s.Mean, s.Std, s.Min, p5, s.Median, p95, s.Max)
	}
	return tw.Flush()
}

func printComparison(w io.Writer, cmp *simulation.Comparison) error {
	if outputFormat == "json" {
		return writeJSON(w, cmp)
	}

	metrics := make([]string, 0, len(cmp.Rankings))
	for m := range cmp.Rankings {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tRANK\tSCENARIO\tMEAN\tRESULT")
	for _, m := range metrics {
		for i, sm := range cmp.Rankings[m] {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%.4g\t%s\n", m, i+1, sm.ScenarioName, sm.Mean, sm.ResultID)
		}
	}
	return tw.Flush()
}

func printRisk(w io.Writer, risk response.PortfolioRisk) error {
	keys := make([]string, 0, len(risk.Domains))
	for k := range risk.Domains {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tVAR95\tVAR99\tES95\tEXPECTED\tMAX")
	for _, k := range keys {
		d := risk.Domains[k]
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", k, d.VaR95, d.VaR99, d.ES95, d.ExpectedLoss, d.MaxLoss)
	}
	fmt.Fprintf(tw, "portfolio\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", risk.VaR95, risk.VaR99, risk.ES95, risk.ExpectedLoss, risk.MaxLoss)
	return tw.Flush()
}

func printPortfolioAnalysis(w io.Writer, a *orchestrator.PortfolioAnalysis) error {
	if outputFormat == "json" {
		return writeJSON(w, a)
	}

	fmt.Fprintf(w, "Portfolio:       %s (seed %d)\n", a.PortfolioName, a.Seed)
	fmt.Fprintf(w, "Total value:     %s\n", a.TotalValue.StringFixed(2))
	fmt.Fprintf(w, "Value at risk:   %s (95%%)\n", a.ValueAtRisk.StringFixed(2))
	fmt.Fprintf(w, "Diversification: %.2f\n", a.DiversificationScore)
	fmt.Fprintf(w, "Concentration:   %.2f\n\n", a.ConcentrationRisk)
	if err := printRisk(w, a.Risk); err != nil {
		return err
	}
	printRecommendations(w, a.Recommendations)
	return nil
}

func printPortfolioResult(w io.Writer, r *response.PortfolioResult) error {
	if outputFormat == "json" {
		return writeJSON(w, r)
	}

	fmt.Fprintf(w, "Portfolio:     %s (%d shocks applied)\n", r.PortfolioName, r.ShocksApplied)
	fmt.Fprintf(w, "Total value:   %s\n", r.TotalValue.StringFixed(2))
	fmt.Fprintf(w, "Value at risk: %s\n\n", r.ValueAtRisk.StringFixed(2))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DOMAIN\tWEIGHT\tVALUE\tLOSS")
	for _, d := range r.Domains {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%.4f\n", d.DomainKey, d.Weight, d.Value.StringFixed(2), d.Response.Loss)
	}
	return tw.Flush()
}

func printStress(w io.Writer, results []response.StressResult) error {
	if outputFormat == "json" {
		return writeJSON(w, results)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tSHOCKS\tVAR95\tVALUE AT RISK\tERROR")
	for _, sr := range results {
		if sr.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t%s\n", sr.Scenario, sr.Error)
			continue
		}
		r := sr.Result
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%s\t\n", sr.Scenario, r.ShocksApplied, r.Risk.VaR95, r.ValueAtRisk.StringFixed(2))
	}
	return tw.Flush()
}

func printRecommendations(w io.Writer, rec response.Recommendations) {
	if len(rec.Warnings)+len(rec.Suggestions)+len(rec.Recommendations) == 0 {
		return
	}
	fmt.Fprintf(w, "\nRecommendations (%s risk tolerance):\n", rec.RiskTolerance)
	for _, s := range rec.Warnings {
		fmt.Fprintf(w, "  ! %s\n", s)
	}
	for _, s := range rec.Recommendations {
		fmt.Fprintf(w, "  * %s\n", s)
	}
	for _, s := range rec.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
}
