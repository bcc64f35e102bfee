package notifier

import (
	"fmt"
	"strings"

	"MVPScreener/internal/model"
)

const (
	// NoMatchMessage is sent when no symbol passes.
	NoMatchMessage = "No symbols satisfied the MVP criteria"
	// MatchPrefix precedes the comma-separated list of passing symbols.
	MatchPrefix = "Symbols satisfying the MVP criteria: "
)

// PassingSymbols returns the symbols of passing verdicts in verdict order.
func PassingSymbols(verdicts []model.Verdict) []string {
	var symbols []string
	for _, v := range verdicts {
		if v.Pass {
			symbols = append(symbols, v.Symbol)
		}
	}
	return symbols
}

// FormatReport builds the run message from the verdicts.
func FormatReport(verdicts []model.Verdict) string {
	return formatSymbols(PassingSymbols(verdicts))
}

// formatSymbols builds the run message from the passing symbols.
func formatSymbols(symbols []string) string {
	if len(symbols) == 0 {
		return NoMatchMessage
	}
	return MatchPrefix + strings.Join(symbols, ", ")
}

// FormatVerdict renders one verdict for diagnostics and chat replies.
func FormatVerdict(v model.Verdict) string {
	return fmt.Sprintf("%s: pass=%v momentum=%v(%d/14) volume=%v(%s) price=%v(%s) reason=%s",
		v.Symbol, v.Pass,
		v.Momentum, v.UpDays,
		v.VolumeGrowth, v.VolumeRatio.StringFixed(4),
		v.PriceGrowth, v.PriceRatio.StringFixed(4),
		v.Reason)
}

// FormatRunSummary renders a run report for the /last chat command.
func FormatRunSummary(r *model.RunReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Run %s | %s\n", r.RunID, r.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Screened: %d | Matched: %d\n\n", len(r.Verdicts), r.Matched()))
	b.WriteString(r.Message)
	return b.String()
}
