// Package dataframe loads table resources into in-memory frames.
//
// A Loader opens one table through an Opener, keeps the fields chosen by
// WithColumns and copies either every record in table order or the records
// named by WithRecords in the caller's order. WithRecord scopes the open to
// one record. The returned Frame holds no reference to the source.
//
//	loader := dataframe.NewLoader(dataframe.StoreOpener{Store: store}, logger, metrics)
//	df, err := loader.Load(ctx, "rockcode", dataframe.WithColumns("DESCRIPTION", "PATTERN"))
//	desc, _ := df.Loc("bif", "DESCRIPTION") // "BANDED IRON FM"
//
// Construction failures are *errors.AppError values; see Load for the types.
package dataframe
