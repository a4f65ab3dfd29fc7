package output

import (
	"strconv"

	"github.com/agentstation/parcelmerge/pkg/merge"
	"github.com/agentstation/parcelmerge/pkg/report"
	"github.com/agentstation/parcelmerge/pkg/schema"
)

// FieldsTable lists field definitions in declaration order.
func FieldsTable(defs []report.FieldDefinition) Data {
	rows := make([][]string, len(defs))
	for i, d := range defs {
		rows[i] = []string{d.Name, d.Type, strconv.Itoa(d.Width), strconv.Itoa(d.Precision)}
	}
	return Data{
		Headers:         []string{"Name", "Type", "Width", "Precision"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// SampleTable lists sampled values with their storage position.
func SampleTable(spec report.SampleSpec, values []schema.Value) Data {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{strconv.Itoa(i), v.String()}
	}
	return Data{
		Headers:         []string{"#", spec.Source.String() + "." + spec.Field},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft},
	}
}

// HistogramTable lists one row per distinct value.
func HistogramTable(field string, buckets []report.Bucket) Data {
	rows := make([][]string, len(buckets))
	for i, b := range buckets {
		rows[i] = []string{b.Value.String(), strconv.Itoa(b.Count)}
	}
	return Data{
		Headers:         []string{field, "Count"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// DistributionTable lists the class breaks of a distribution.
func DistributionTable(d *report.Distribution) Data {
	rows := make([][]string, len(d.Quantiles))
	for i, q := range d.Quantiles {
		rows[i] = []string{
			strconv.FormatFloat(q.Percent, 'f', 2, 64),
			formatFloat(q.Value),
			formatFloat(q.Threshold),
			"@level" + strconv.Itoa(q.Level),
		}
	}
	return Data{
		Headers:         []string{"Percentile", "Value", "Threshold", "Level"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignRight, AlignLeft},
	}
}

// SummaryTable lists the headline statistics of a distribution.
func SummaryTable(d *report.Distribution) Data {
	return Data{
		Headers: []string{"Statistic", "Value"},
		Rows: [][]string{
			{"Field", d.Field},
			{"Count", strconv.Itoa(d.Count)},
			{"Min", formatFloat(d.Min)},
			{"Max", formatFloat(d.Max)},
			{"Median", formatFloat(d.Median)},
			{"Mean", formatFloat(d.Mean)},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// ResultTable lists per-source counts of a merge run with a total row.
func ResultTable(r *merge.Result) Data {
	rows := make([][]string, 0, len(r.Counts)+1)
	for _, c := range r.Counts {
		rows = append(rows, []string{c.Source.String(), c.Path, strconv.Itoa(c.Count)})
	}
	rows = append(rows, []string{"total", r.Output, strconv.Itoa(r.Total)})
	return Data{
		Headers:         []string{"Source", "Path", "Features"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
