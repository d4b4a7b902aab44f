// Package tablekit provides a typed column store for heterogeneous
// tabular data, together with delimited-text and JSON-lines codecs.
//
// A table is an ordered collection of named, type-homogeneous columns
// of equal length. Rows are never stored: they are read-time
// projections across the columns. Tables are immutable once built and
// safe to share across concurrent readers without synchronization.
//
// # Column types
//
// Columns carry one semantic type each: string, int, float, bool, time,
// or factor. Factor columns store categorical data as small integer
// codes into an ordered list of display labels, so a column holding
// "spades" thirteen times stores the string once and thirteen codes.
//
// # Quick start
//
// Build a table by hand:
//
//	tbl, err := table.NewBuilder().
//	    Add("face", table.Strings("king", "queen")).
//	    Add("suit", table.Factor("spades", "spades")).
//	    Add("value", table.Ints(13, 12)).
//	    Build()
//
// Or import one from delimited text, with per-column types declared in
// the configuration or inferred from the data:
//
//	cfg := config.NewConfig("deck")
//	tbl, sch, err := csv.NewReader(cfg, logger.Get()).ReadFile("deck.csv")
//
// Construction is all-or-nothing: mismatched column lengths, duplicate
// column names, malformed rows and unparsable values all fail the whole
// operation with a typed error (pkg/errors).
package tablekit
