package tables

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brentp/vcfgo"
	"github.com/brentp/vcftables/sink"
)

// Call is one sample's genotype at one site: VCF allele indexes with -1
// for an uncalled allele, plus whether the call was phased.
type Call struct {
	Alleles []int
	Phased  bool
}

// Missing reports whether the call is unusable: absent, empty, or with
// any allele uncalled. A partial call like ./1 counts as missing.
func (c Call) Missing() bool {
	if len(c.Alleles) == 0 {
		return true
	}
	for _, a := range c.Alleles {
		if a == -1 {
			return true
		}
	}
	return false
}

// AltCopies counts the call's copies of the alt allele at 0-based index
// alt. VCF stores genotypes for an alt like A,C as 0/1, 0/2: the allele
// value of the Nth alt is 1+N, and any other alt counts as ref for this
// row.
func (c Call) AltCopies(alt int) int {
	want := 1 + alt
	n := 0
	for _, a := range c.Alleles {
		if a == want {
			n++
		}
	}
	return n
}

func callOf(sg *vcfgo.SampleGenotype) Call {
	if sg == nil {
		return Call{}
	}
	// the raw GT field keeps the separator even when parsing dropped it.
	phased := sg.Phased || strings.Contains(sg.Fields["GT"], "|")
	return Call{Alleles: sg.GT, Phased: phased}
}

// An Encoding converts calls to and from the stored gts.genotype value.
type Encoding interface {
	Name() string
	// GTType is the column type the encoding stores.
	GTType() sink.Type
	// Encode returns the stored value of the call against the 0-based
	// alt allele index.
	Encode(c Call, alt int) interface{}
	// Decode recovers the allele content of a stored value, up to the
	// equivalence the encoding documents.
	Decode(v interface{}) (Call, error)
}

// Encodings maps the config names to their encodings.
var Encodings = map[string]Encoding{
	"dosage":  Dosage{},
	"alleles": Alleles{},
}

// MissingDosage marks a missing call in the dosage encoding.
const MissingDosage = uint8(255)

// Dosage stores the alt allele count as a uint8. Allele order and phase
// are not recoverable from it, only the unordered content.
type Dosage struct{}

func (Dosage) Name() string      { return "dosage" }
func (Dosage) GTType() sink.Type { return sink.Uint8 }

func (Dosage) Encode(c Call, alt int) interface{} {
	if c.Missing() {
		return MissingDosage
	}
	return uint8(c.AltCopies(alt))
}

// Decode reconstructs a diploid call, which is what a bare count can
// represent.
func (Dosage) Decode(v interface{}) (Call, error) {
	d, ok := v.(uint8)
	if !ok {
		return Call{}, fmt.Errorf("dosage: want uint8, got %T", v)
	}
	if d == MissingDosage {
		return Call{Alleles: []int{-1, -1}}, nil
	}
	if d > 2 {
		return Call{}, fmt.Errorf("dosage: %d alt copies does not fit a diploid call", d)
	}
	gt := []int{0, 0}
	for i := 0; i < int(d); i++ {
		gt[i] = 1
	}
	return Call{Alleles: gt}, nil
}

// Alleles stores the re-indexed allele string, e.g. 0/1 or 1|0: the
// row's alt allele is written as 1 and any other alt as 0. Phase order
// is preserved exactly. A missing call, including a partial one like
// ./1, is stored as the all-dot sentinel, matching the dosage
// encoding's single missing value.
type Alleles struct{}

func (Alleles) Name() string      { return "alleles" }
func (Alleles) GTType() sink.Type { return sink.String }

func (Alleles) Encode(c Call, alt int) interface{} {
	if c.Missing() {
		n := len(c.Alleles)
		if n == 0 {
			n = 2
		}
		parts := make([]string, n)
		for i := range parts {
			parts[i] = "."
		}
		return strings.Join(parts, "/")
	}
	want := 1 + alt
	parts := make([]string, len(c.Alleles))
	for i, a := range c.Alleles {
		if a == want {
			parts[i] = "1"
		} else {
			parts[i] = "0"
		}
	}
	sep := "/"
	if c.Phased {
		sep = "|"
	}
	return strings.Join(parts, sep)
}

func (Alleles) Decode(v interface{}) (Call, error) {
	s, ok := v.(string)
	if !ok {
		return Call{}, fmt.Errorf("alleles: want string, got %T", v)
	}
	phased := strings.Contains(s, "|")
	sep := "/"
	if phased {
		sep = "|"
	}
	parts := strings.Split(s, sep)
	gt := make([]int, len(parts))
	for i, p := range parts {
		if p == "." {
			gt[i] = -1
			continue
		}
		a, err := strconv.Atoi(p)
		if err != nil {
			return Call{}, fmt.Errorf("alleles: bad allele %q in %q", p, s)
		}
		gt[i] = a
	}
	return Call{Alleles: gt, Phased: phased}, nil
}

// MissingPolicy says what happens to a gts row when the call is missing.
type MissingPolicy int

const (
	// OmitMissing writes no row; the absence of a row means "no call".
	OmitMissing MissingPolicy = iota
	// ExplicitMissing writes a row carrying the encoding's missing value.
	ExplicitMissing
)

// MissingPolicies maps the config names to their policies.
var MissingPolicies = map[string]MissingPolicy{
	"omit":     OmitMissing,
	"explicit": ExplicitMissing,
}
