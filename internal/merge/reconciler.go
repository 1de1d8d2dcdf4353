package merge

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/entity"
)

// broughtForwardRe matches opening-balance carryover descriptions such as
// "Balance Brought Forward" or "brought-forward", in any case. Plain
// "forward" without "brought" must not match.
var broughtForwardRe = regexp.MustCompile(`(?i)\bbrought[\s\-]+forward\b`)

// Reconciler combines per-chunk transaction lists and the personal-info
// block into one final StatementResult: flatten in chunk order, drop
// brought-forward carryover rows, correct anomalous years against the
// statement period, dedupe, and sort by date.
type Reconciler struct {
	logger *slog.Logger
}

func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger}
}

// Merge produces the final result from per-chunk record lists. perChunk
// must carry one slice per processed chunk, in chunk order; a failed chunk
// contributes an empty slice, never a missing one. The summary slot is
// left nil for the caller to fill in.
func (r *Reconciler) Merge(perChunk [][]entity.TransactionRecord, info entity.PersonalInfo) (entity.StatementResult, error) {
	if perChunk == nil {
		return entity.StatementResult{}, common.MergeErrorf("no per-chunk record lists supplied")
	}

	flat := make([]entity.TransactionRecord, 0, totalLen(perChunk))
	for _, records := range perChunk {
		flat = append(flat, records...)
	}
	in := len(flat)

	periodStart, haveStart := r.periodStart(info.StatementPeriod)
	assumedYear := 0
	if haveStart {
		assumedYear = periodStart.Year()
	}

	kept := flat[:0]
	for _, rec := range flat {
		if broughtForwardRe.MatchString(rec.Description) {
			r.logger.Debug("merge.drop_carryover", "date", rec.Date, "description", rec.Description)
			continue
		}
		if haveStart {
			if t, ok := parseDate(rec.Date, assumedYear); ok && t.Year() < periodStart.Year() {
				r.logger.Debug("merge.fix_anomalous_year",
					"date", rec.Date, "period_start", periodStart.Format("02 Jan 2006"),
				)
				rec.Date = periodStart.Format("02 Jan 2006")
			}
		}
		kept = append(kept, rec)
	}

	deduped := dedupe(kept)

	sort.SliceStable(deduped, func(i, j int) bool {
		return sortDate(deduped[i].Date, assumedYear).Before(sortDate(deduped[j].Date, assumedYear))
	})

	r.logger.Info("merge.done",
		"chunks", len(perChunk), "records_in", in, "records_out", len(deduped),
	)
	return entity.StatementResult{PersonalInfo: info, Transactions: deduped}, nil
}

// dedupe collapses records that collide on (date, description, amount,
// direction). The later occurrence wins so a re-merge of overlapping chunk
// output is idempotent, except that a record carrying a larger balance
// magnitude is kept over a later, less complete one.
func dedupe(records []entity.TransactionRecord) []entity.TransactionRecord {
	index := make(map[string]int, len(records))
	out := make([]entity.TransactionRecord, 0, len(records))

	for _, rec := range records {
		key := compositeKey(rec)
		at, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, rec)
			continue
		}
		if balanceMagnitude(out[at]).GreaterThan(balanceMagnitude(rec)) {
			continue
		}
		out[at] = rec
	}
	return out
}

func compositeKey(rec entity.TransactionRecord) string {
	amount := ""
	if rec.Amount != nil {
		amount = rec.Amount.String()
	}
	return strings.Join([]string{rec.Date, rec.Description, amount, string(rec.Direction)}, "|")
}

func balanceMagnitude(rec entity.TransactionRecord) decimal.Decimal {
	if rec.Balance == nil {
		return decimal.Zero
	}
	return rec.Balance.Abs()
}

// periodStart parses the start date out of a declared statement period like
// "25 MAY 2024 to 27 JUN 2024". Best effort; absence just disables year
// correction.
func (r *Reconciler) periodStart(period string) (time.Time, bool) {
	if period == "" {
		return time.Time{}, false
	}
	start, _, _ := strings.Cut(period, "to")
	t, ok := parseDate(strings.TrimSpace(start), 0)
	if !ok {
		r.logger.Warn("merge.period_unparseable", "period", period)
		return time.Time{}, false
	}
	return t, true
}

func totalLen(perChunk [][]entity.TransactionRecord) int {
	n := 0
	for _, records := range perChunk {
		n += len(records)
	}
	return n
}
