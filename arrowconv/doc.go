// Package arrowconv converts tables to and from Apache Arrow records.
//
// The conversion is a copy in both directions: the produced arrow.Record
// owns its buffers and the produced Table owns its storage, so either side
// can be mutated or released independently.
//
// Float NaN cells are exported as regular NaN values, not as Arrow nulls.
// In the other direction, null data cells become the table's fill sentinel;
// a null cell in the time column is rejected, since the time axis admits no
// missing values.
package arrowconv
