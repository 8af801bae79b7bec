// Package tables turns VCF records into the normalized tables of a
// genotype store: variants, annotations, callsets and gts, plus an
// optional annotation_extras side table. Ids are dense, 0-origin and
// assigned in first-seen order, so the same input always produces the
// same tables.
package tables

import (
	"strings"

	"github.com/brentp/vcftables/sink"
)

// Table names as they appear in every output target.
const (
	VariantsTable    = "variants"
	AnnotationsTable = "annotations"
	CallsetsTable    = "callsets"
	GenotypesTable   = "gts"
	ExtrasTable      = "annotation_extras"
)

// Schema versions. The annotations layout is the one expected to evolve
// as populations and extras come and go, but every table carries a
// version so consumers can check what they are reading.
const (
	variantsVersion    = 1
	annotationsVersion = 1
	callsetsVersion    = 1
	gtsVersion         = 1
	extrasVersion      = 1
)

// DefaultPopulations are the gnomAD population codes used when the
// config names none.
var DefaultPopulations = []string{"afr", "amr", "eas", "nfe", "sas"}

func VariantsSchema() sink.Schema {
	return sink.Schema{
		Table:   VariantsTable,
		Version: variantsVersion,
		Columns: []sink.Column{
			{Name: "vid", Type: sink.Int64},
			{Name: "chrom", Type: sink.String},
			{Name: "pos", Type: sink.Int32},
			{Name: "ref", Type: sink.String},
			{Name: "alt", Type: sink.String},
		},
	}
}

// AnnotationsSchema has one af_<population> column per configured
// population, following genesymbol and consequence.
func AnnotationsSchema(populations []string) sink.Schema {
	cols := []sink.Column{
		{Name: "vid", Type: sink.Int64},
		{Name: "genesymbol", Type: sink.String, Nullable: true},
		{Name: "consequence", Type: sink.String, Nullable: true},
	}
	for _, p := range populations {
		cols = append(cols, sink.Column{Name: "af_" + strings.ToLower(p), Type: sink.Float32, Nullable: true})
	}
	return sink.Schema{Table: AnnotationsTable, Version: annotationsVersion, Columns: cols}
}

func CallsetsSchema() sink.Schema {
	return sink.Schema{
		Table:   CallsetsTable,
		Version: callsetsVersion,
		Columns: []sink.Column{
			{Name: "callsetid", Type: sink.Int32},
			{Name: "sampleid", Type: sink.String},
			{Name: "dataset", Type: sink.String},
		},
	}
}

// GenotypesSchema stores the genotype column with whatever type the
// configured encoding uses; everything else is fixed.
func GenotypesSchema(enc Encoding) sink.Schema {
	return sink.Schema{
		Table:   GenotypesTable,
		Version: gtsVersion,
		Columns: []sink.Column{
			{Name: "vid", Type: sink.Int64},
			{Name: "callsetid", Type: sink.Int32},
			{Name: "genotype", Type: enc.GTType()},
			{Name: "phased", Type: sink.Bool},
		},
	}
}

func ExtrasSchema() sink.Schema {
	return sink.Schema{
		Table:   ExtrasTable,
		Version: extrasVersion,
		Columns: []sink.Column{
			{Name: "vid", Type: sink.Int64},
			{Name: "key", Type: sink.String},
			{Name: "value", Type: sink.String},
		},
	}
}

// Options configures a Converter. Zero values fall back to the dosage
// encoding, omitted missing rows, the geneSymbol/consequence/AF_ INFO
// keys and DefaultPopulations; only Dataset has no default.
type Options struct {
	Dataset        string
	Encoding       Encoding
	Missing        MissingPolicy
	KeepHomRef     bool
	GeneKey        string
	ConsequenceKey string
	AFPrefix       string
	Populations    []string
	Extras         []*Extra
	Verbose        bool
}
