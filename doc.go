// Package tabular loads and stores typed tabular datasets.
//
// A dataset file carries up to three header rows (names, types, flags)
// above its data rows. Reading resolves the text encoding and optional
// compression, parses the headers, infers a type for every untyped
// column, and partitions the columns by role into a table.Table with
// attribute, class, meta, and weight blocks.
//
// Format adapters are selected by filename extension through a
// registry: delimited text (.csv, .tab, .tsv, optionally .gz/.bz2/.xz
// compressed), Excel workbooks (.xlsx with an optional ":sheet"
// selector), serialized table snapshots (.pkl), and sparse basket
// files (.basket).
//
// # Quick start
//
//	t, err := tabular.Read("iris.tab")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(t.NRows(), len(t.Domain.Attributes))
//
//	if err := tabular.Write("iris.csv.gz", t); err != nil {
//	    log.Fatal(err)
//	}
//
// Custom formats implement format.Format plus format.Reader and/or
// format.Writer and are added with format.Register.
package tabular
