// Package parquetio exports normalized observations to Parquet, inferring
// the schema from struct tags the way parquet-go's high-level writer is
// meant to be used.
package parquetio

import (
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/tellimer/econify/domain"
)

// Row is the flattened, Parquet-friendly projection of a domain.Observation
// — parquet-go infers the file schema from these struct tags.
type Row struct {
	Unit            string   `parquet:"unit"`
	Value           float64  `parquet:"value"`
	NormalizedValue *float64 `parquet:"normalized_value,optional"`
	NormalizedUnit  string   `parquet:"normalized_unit,optional"`
	Name            string   `parquet:"name,optional"`
	Periodicity     string   `parquet:"periodicity,optional"`
	ExplainDomain   string   `parquet:"explain_domain,optional"`
}

func toRow(o domain.Observation) Row {
	row := Row{
		Unit:            o.Unit,
		Value:           o.Value,
		NormalizedValue: o.NormalizedValue,
		NormalizedUnit:  o.NormalizedUnit,
		Name:            o.Name,
		Periodicity:     o.Periodicity,
	}
	if o.Explain != nil {
		row.ExplainDomain = o.Explain.Domain
	}
	return row
}

// WriteObservations writes obs to w as a Parquet file.
func WriteObservations(w io.Writer, obs []domain.Observation) error {
	rows := make([]Row, len(obs))
	for i, o := range obs {
		rows[i] = toRow(o)
	}

	pw := parquet.NewGenericWriter[Row](w)
	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return err
	}
	return pw.Close()
}
