package engine

import "github.com/kwatlas/kwatlas/internal/dataforseo"

// Placeholder notes. These are the only explanations a record can carry;
// rendering layers pass them through verbatim.
const (
	NoteNoData   = "no data found"
	NoteTimedOut = "timed out waiting for results"

	noteSubmitFailedPrefix = "submission failed: "
	notePollFailedPrefix   = "task failed: "
)

// Reconcile produces exactly one ResultRecord per input keyword, in input
// order. A keyword with a matching provider record gets that record's
// metrics; anything the provider dropped gets a zero-metric placeholder
// noting the absence. Provider records for keywords not in the batch are
// ignored.
//
// Matching is exact text equality against the normalized keyword: the
// input-cleaning step's output is the contract both the submission stage and
// this reconciler rely on. Duplicate input keywords each get their own row,
// matched against the same provider record.
func Reconcile(keywords []string, records []dataforseo.KeywordRecord) []ResultRecord {
	matched := make(map[string]dataforseo.KeywordRecord, len(records))
	for _, rec := range records {
		if _, ok := matched[rec.Keyword]; !ok {
			matched[rec.Keyword] = rec
		}
	}

	out := make([]ResultRecord, 0, len(keywords))
	for _, kw := range keywords {
		rec, ok := matched[kw]
		if !ok {
			out = append(out, ResultRecord{Keyword: kw, Note: NoteNoData})
			continue
		}
		out = append(out, ResultRecord{
			Keyword:      kw,
			SearchVolume: rec.SearchVolume,
			Competition:  rec.Competition,
			CPC:          rec.CPC,
		})
	}
	return out
}

// Placeholders builds an all-placeholder record set for a batch that never
// produced provider data (submission failure, terminal poll failure, or
// timeout), one record per keyword with the given note.
func Placeholders(keywords []string, note string) []ResultRecord {
	out := make([]ResultRecord, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, ResultRecord{Keyword: kw, Note: note})
	}
	return out
}
