// Package output renders a result table to the console, a pretty table or a
// CSV file.
//
// A [Table] is a slice of rows whose first row holds the column headers.
// Every scraping mode produces one; [Sink.Emit] is the single place where the
// selected format is applied:
//
//	sink := output.NewSink(os.Stdout, "results", logger)
//	err := sink.Emit("pep", table, output.FormatFile)
//	// results/pep_2026-10-18_14-03-11.csv
package output
