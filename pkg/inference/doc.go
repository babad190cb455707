// Package inference classifies the columns of a frame into native type
// labels and converts frames to those labels.
//
// Classification samples up to 100 non-null values per column and walks an
// ordered rule chain (boolean, integer, float, date, categorical). The first
// rule that matches wins, so the order is part of the contract. Content
// rules pass when at least 80% of the non-empty string values in the sample
// satisfy them.
//
// # Basic Usage
//
//	engine := inference.NewEngine(log, inference.DefaultOptions(), loader.New(cfg.Loader, log))
//
//	f, report, err := engine.Process(ctx, "employees.csv", true)
//	if err != nil {
//	    return err
//	}
//	for _, c := range report.Columns {
//	    fmt.Println(c.Name, c.InferredDisplayType)
//	}
//
// Conversion is isolated per column: a column that cannot be cast keeps its
// original values and the failure is reported in the returned ColumnResult.
package inference
