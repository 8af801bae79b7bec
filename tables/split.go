package tables

import (
	"log"
	"strconv"

	"github.com/brentp/vcfgo"
	"github.com/brentp/vcftables/vcf"
)

// VariantKey is the identity of one normalized variant.
type VariantKey struct {
	Chrom string
	Pos   int32
	Ref   string
	Alt   string
}

// Site is one alt allele of a record: the variant identity plus the
// annotation values aligned to that allele. Gene and Consequence are
// string or nil; AFs holds float32 or nil per configured population.
type Site struct {
	Key         VariantKey
	Gene        interface{}
	Consequence interface{}
	AFs         []interface{}
}

// Splitter separates variant identity from descriptive annotation. A
// record with k alt alleles yields k sites. INFO lists with one value
// per alt distribute by position; scalars repeat for every alt; a
// multi-valued field that does not line up with the alts keeps its
// first value.
type Splitter struct {
	GeneKey        string
	ConsequenceKey string
	Populations    []string

	afKeys []string
	warned map[string]bool
}

func NewSplitter(geneKey, consequenceKey, afPrefix string, populations []string) *Splitter {
	sp := &Splitter{
		GeneKey:        geneKey,
		ConsequenceKey: consequenceKey,
		Populations:    populations,
		afKeys:         make([]string, len(populations)),
		warned:         make(map[string]bool),
	}
	for i, p := range populations {
		sp.afKeys[i] = afPrefix + p
	}
	return sp
}

// Split returns one site per alt allele of rec.
func (sp *Splitter) Split(rec *vcf.Record) []Site {
	alts := rec.Alt()
	sites := make([]Site, len(alts))
	for i, alt := range alts {
		s := Site{Key: VariantKey{Chrom: rec.Chrom(), Pos: int32(rec.Pos), Ref: rec.Ref(), Alt: alt}}
		if v, ok := asString(sp.value(rec, sp.GeneKey, i)); ok {
			s.Gene = v
		}
		if v, ok := asString(sp.value(rec, sp.ConsequenceKey, i)); ok {
			s.Consequence = v
		}
		s.AFs = make([]interface{}, len(sp.afKeys))
		for j, key := range sp.afKeys {
			if f, ok := asFloat32(sp.value(rec, key, i)); ok {
				s.AFs[j] = f
			}
		}
		sites[i] = s
	}
	return sites
}

// value fetches an INFO field aligned to the given alt index, or nil
// when the field is absent.
func (sp *Splitter) value(rec *vcf.Record, key string, alt int) interface{} {
	val, err := rec.Info().Get(key)
	if err != nil || val == nil {
		sp.warnOnce(key, "INFO field %s absent (first at %s:%d); writing null", key, rec.Chrom(), rec.Pos)
		return nil
	}
	return sp.pickAllele(val, key, alt, len(rec.Alt()))
}

// Collect gathers the values of the named INFO fields for one alt
// allele, flattening lists, for use by extra ops. The field name ID
// pulls the rsid.
func (sp *Splitter) Collect(rec *vcf.Record, fields []string, alt int) []interface{} {
	coll := make([]interface{}, 0, len(fields))
	for _, field := range fields {
		var val interface{}
		if field == "ID" {
			id := rec.Id()
			if id == "." || id == "" {
				continue
			}
			val = id
		} else {
			var err error
			val, err = rec.Info().Get(field)
			if err != nil || val == nil {
				continue
			}
			val = sp.pickAllele(val, field, alt, len(rec.Alt()))
		}
		if arr, ok := val.([]interface{}); ok {
			coll = append(coll, arr...)
		} else if val != nil {
			coll = append(coll, val)
		}
	}
	return coll
}

func (sp *Splitter) pickAllele(val interface{}, key string, alt, nalts int) interface{} {
	switch val.(type) {
	case []interface{}, []string, []float32, []float64, []int:
		vals := toInterfaceSlice(val)
		if len(vals) == 0 {
			return nil
		}
		if len(vals) == nalts {
			return vals[alt]
		}
		if len(vals) > 1 {
			sp.warnOnce("align:"+key, "INFO field %s has %d values for %d alts; using the first", key, len(vals), nalts)
		}
		return vals[0]
	}
	return val
}

func (sp *Splitter) warnOnce(key, format string, args ...interface{}) {
	if sp.warned[key] {
		return
	}
	sp.warned[key] = true
	log.Printf("warning: "+format, args...)
}

// asFloat32 coerces the numeric shapes INFO values come in.
func asFloat32(v interface{}) (float32, bool) {
	switch v := v.(type) {
	case nil:
		return 0, false
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	case int64:
		return float32(v), true
	case uint32:
		return float32(v), true
	case uint64:
		return float32(v), true
	case string:
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return 0, false
		}
		return float32(f), true
	}
	return 0, false
}

// asString treats the VCF null "." as absent.
func asString(v interface{}) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		if v == "" || v == "." {
			return "", false
		}
		return v, true
	}
	return vcfgo.ItoS("", v), true
}
