// Package vcf streams records from a possibly-gzipped VCF file.
package vcf

import (
	"fmt"
	"io"
	"log"

	"github.com/brentp/vcfgo"
	"github.com/brentp/xopen"
)

// Record is one parsed VCF line with per-sample genotypes filled in.
type Record struct {
	*vcfgo.Variant
}

// Reader streams Records from a VCF. "-" reads stdin.
type Reader struct {
	vr *vcfgo.Reader
}

// Open fails when the input cannot be read or its header does not
// parse; without a usable header no sample or INFO field can be trusted.
func Open(path string) (*Reader, error) {
	rdr, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := NewReader(rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// NewReader wraps an already-open VCF stream.
func NewReader(rdr io.Reader) (*Reader, error) {
	vr, err := vcfgo.NewReader(rdr, true)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return &Reader{vr: vr}, nil
}

// Samples returns the sample names from the #CHROM line in column order.
func (r *Reader) Samples() []string {
	return r.vr.Header.SampleNames
}

// Next returns the next record, or nil at the end of the input. Lines
// that fail to parse are logged with their position and skipped.
func (r *Reader) Next() *Record {
	for {
		v := r.vr.Read()
		if v == nil {
			if err := r.vr.Error(); err != nil && err != io.EOF {
				log.Printf("skipping unparseable record: %s", err)
				r.vr.Clear()
				continue
			}
			return nil
		}
		if err := r.vr.Error(); err != nil {
			log.Printf("skipping record at %s:%d: %s", v.Chromosome, v.Pos, err)
			r.vr.Clear()
			continue
		}
		// samples are parsed lazily; fill them in before handing out.
		if err := r.vr.Header.ParseSamples(v); err != nil {
			log.Printf("sample parsing error at %s:%d: %s", v.Chromosome, v.Pos, err)
		}
		return &Record{v}
	}
}
