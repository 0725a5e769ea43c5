package ui

import (
	"net/http"

	"symtrace/adapters/battery"
	"symtrace/adapters/export"
	"symtrace/domain/indicator"
	"symtrace/domain/stattest"
	"symtrace/internal/errors"
	"symtrace/internal/report"
)

func (a *App) handleExportIndicatorsCSV(w http.ResponseWriter, r *http.Request) {
	c, dict, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	opts, err := a.buildOptions(r, dict)
	if err != nil {
		a.writeError(w, err)
		return
	}

	statsRows, _, err := svc.ModalityStatistics(c, opts)
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="indicators.csv"`)
	if err := export.WriteCSV(w, export.ModalityStatsTable(statsRows)); err != nil {
		a.logger.Error("failed to stream indicators CSV: %v", err)
	}
}

func (a *App) handleExportKSCSV(w http.ResponseWriter, r *http.Request) {
	c, _, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	pairs, err := a.computeKSPairs(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ks_pairs.csv"`)
	if err := export.WriteCSV(w, export.PairResultsTable("ks_pairs", pairs)); err != nil {
		a.logger.Error("failed to stream KS CSV: %v", err)
	}
}

func (a *App) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	c, dict, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	opts, err := a.buildOptions(r, dict)
	if err != nil {
		a.writeError(w, err)
		return
	}

	statsRows, _, err := svc.ModalityStatistics(c, opts)
	if err != nil {
		a.writeError(w, err)
		return
	}

	pairs, err := a.computeKSPairs(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	payload, err := export.XLSXBytes(
		export.ModalityStatsTable(statsRows),
		export.PairResultsTable("ks_pairs", pairs),
	)
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="results.xlsx"`)
	w.Write(payload)
}

func (a *App) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	rep, err := a.buildReport(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if rep == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(rep.Markdown()))
}

func (a *App) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, err := a.buildReport(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if rep == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(rep.HTML())
}

// computeKSPairs reruns the pairwise KS battery from the request parameters.
func (a *App) computeKSPairs(r *http.Request) ([]stattest.PairResult, error) {
	c, dict, _ := a.sessionState()
	if c == nil {
		return nil, nil
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		return nil, err
	}

	opts, err := a.buildOptions(r, dict)
	if err != nil {
		return nil, err
	}

	correction, err := stattest.ParseCorrection(r.URL.Query().Get("correction"))
	if err != nil {
		return nil, err
	}

	byModality, _, err := svc.LengthsByModality(c, opts)
	if err != nil {
		return nil, err
	}

	return battery.AllPairsKS(r.Context(), byModality, correction)
}

// buildReport assembles the full report for the current session inputs.
func (a *App) buildReport(r *http.Request) (*report.Report, error) {
	c, dict, _ := a.sessionState()
	if c == nil {
		return nil, nil
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		return nil, err
	}

	opts, err := a.buildOptions(r, dict)
	if err != nil {
		return nil, err
	}

	correction, err := stattest.ParseCorrection(r.URL.Query().Get("correction"))
	if err != nil {
		return nil, err
	}

	ind, err := indicator.ParseIndicator(queryOr(r, "indicator", "lms"))
	if err != nil {
		return nil, errors.InvalidInput(err.Error())
	}

	statsRows, ignored, err := svc.ModalityStatistics(c, opts)
	if err != nil {
		return nil, err
	}

	byModality, _, err := svc.LengthsByModality(c, opts)
	if err != nil {
		return nil, err
	}

	pairs, err := battery.AllPairsKS(r.Context(), byModality, correction)
	if err != nil {
		return nil, err
	}

	// The omnibus tests run on per-response indicator values, not on the
	// raw length lists the KS battery consumes.
	byIndicator, _, err := svc.IndicatorByModality(c, opts, ind)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		CorpusName:    c.Name,
		Variable:      opts.Variable,
		Correction:    correction,
		Ignored:       ignored,
		ModalityStats: statsRows,
		KSPairs:       pairs,
		Anova:         battery.OneWayANOVA(byIndicator),
		Kruskal:       battery.KruskalWallis(byIndicator),
	}
	return rep, nil
}
