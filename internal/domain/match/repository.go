package match

import "context"

// Skip reports a match source that could not be read or decoded.
type Skip struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Corpus is the ordered set of records available to one aggregation run.
type Corpus struct {
	Records []Record
	Skipped []Skip
}

// Source lists every match record in lexicographic source-name order.
type Source interface {
	List(ctx context.Context) (Corpus, error)
}

// Writer persists a single match record for later aggregation runs.
type Writer interface {
	Save(ctx context.Context, record Record, title string) (string, error)
}
