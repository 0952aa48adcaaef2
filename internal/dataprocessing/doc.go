// Package dataprocessing holds the in-memory table model and the numeric
// work done on it.
//
// # Components
//
//  1. Table: raw CSV cells in file order, loaded by LoadCSV/ReadCSV
//  2. Series: a nullable numeric column parsed from a Table, with Diff for
//     the first difference between consecutive rows
//  3. Statistics: Summarize, Percentile, Mean, SampleStdDev and Order for
//     display ranking
//
// # Usage
//
//	table, err := dataprocessing.LoadCSV("data.csv")
//	if err != nil {
//	    return err
//	}
//	ts, err := dataprocessing.ParseSeries(table, "timestamp")
//	if err != nil {
//	    return err
//	}
//	dt := ts.Diff("dt")
//	_ = table.SetColumn("dt", dt.Strings())
//	summary := dataprocessing.Summarize(dt, []float64{0.99, 0.999})
//
// # Nulls
//
// Empty cells and the common NA spellings are null. Nulls are skipped by
// every statistic and sort after all values in Order.
package dataprocessing
