// Package arrowio converts batches of domain.Observation to and from an
// Arrow record batch, for bulk interchange with columnar consumers.
// Grounded in the teacher's use of github.com/apache/arrow/go/v15
// (pkg/ipc/flight_client.go), minus the Flight/gRPC transport the teacher
// wraps it in — this package only builds and reads arrow.Record values.
package arrowio

import (
	"fmt"

	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
	"github.com/apache/arrow/go/v15/arrow/memory"

	"github.com/tellimer/econify/domain"
)

// Schema is the fixed column layout WriteObservations/ReadObservations
// use.
var Schema = arrow.NewSchema([]arrow.Field{
	{Name: "unit", Type: arrow.BinaryTypes.String},
	{Name: "value", Type: arrow.PrimitiveTypes.Float64},
	{Name: "normalized_value", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "normalized_unit", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "periodicity", Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

// WriteObservations builds a single arrow.Record from obs using a
// shared memory.Allocator.
func WriteObservations(mem memory.Allocator, obs []domain.Observation) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	b := array.NewRecordBuilder(mem, Schema)
	defer b.Release()

	unitB := b.Field(0).(*array.StringBuilder)
	valueB := b.Field(1).(*array.Float64Builder)
	normValB := b.Field(2).(*array.Float64Builder)
	normUnitB := b.Field(3).(*array.StringBuilder)
	nameB := b.Field(4).(*array.StringBuilder)
	periodB := b.Field(5).(*array.StringBuilder)

	for _, o := range obs {
		unitB.Append(o.Unit)
		valueB.Append(o.Value)
		if o.NormalizedValue != nil {
			normValB.Append(*o.NormalizedValue)
		} else {
			normValB.AppendNull()
		}
		if o.NormalizedUnit != "" {
			normUnitB.Append(o.NormalizedUnit)
		} else {
			normUnitB.AppendNull()
		}
		if o.Name != "" {
			nameB.Append(o.Name)
		} else {
			nameB.AppendNull()
		}
		if o.Periodicity != "" {
			periodB.Append(o.Periodicity)
		} else {
			periodB.AppendNull()
		}
	}

	return b.NewRecord()
}

// ReadObservations reconstructs domain.Observation values from an
// arrow.Record built by WriteObservations (or matching its Schema).
func ReadObservations(rec arrow.Record) ([]domain.Observation, error) {
	if !rec.Schema().Equal(Schema) {
		return nil, fmt.Errorf("arrowio: record schema does not match the expected observation schema")
	}

	unitCol := rec.Column(0).(*array.String)
	valueCol := rec.Column(1).(*array.Float64)
	normValCol := rec.Column(2).(*array.Float64)
	normUnitCol := rec.Column(3).(*array.String)
	nameCol := rec.Column(4).(*array.String)
	periodCol := rec.Column(5).(*array.String)

	n := int(rec.NumRows())
	out := make([]domain.Observation, n)
	for i := 0; i < n; i++ {
		o := domain.Observation{
			Unit:  unitCol.Value(i),
			Value: valueCol.Value(i),
		}
		if !normValCol.IsNull(i) {
			v := normValCol.Value(i)
			o.NormalizedValue = &v
		}
		if !normUnitCol.IsNull(i) {
			o.NormalizedUnit = normUnitCol.Value(i)
		}
		if !nameCol.IsNull(i) {
			o.Name = nameCol.Value(i)
		}
		if !periodCol.IsNull(i) {
			o.Periodicity = periodCol.Value(i)
		}
		out[i] = o
	}
	return out, nil
}
