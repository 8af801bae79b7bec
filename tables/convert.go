package tables

import (
	"fmt"
	"log"

	"github.com/brentp/vcftables/sink"
	"github.com/brentp/vcftables/vcf"
)

// Converter drives the single pass from a VCF reader to the sinks:
// records are split into per-alt variants, ids assigned in first-seen
// order, and the variants, annotations, callsets and gts rows written
// as they are produced. Each record is fully processed before the next
// is read.
type Converter struct {
	opts     Options
	splitter *Splitter
	variants *Allocator[VariantKey]
	registry *CallsetRegistry
}

// Stats reports what one Run wrote.
type Stats struct {
	Records   int
	Variants  int
	Callsets  int
	Genotypes int
}

func NewConverter(opts Options) (*Converter, error) {
	if opts.Dataset == "" {
		return nil, fmt.Errorf("a dataset name is required")
	}
	if opts.Encoding == nil {
		opts.Encoding = Dosage{}
	}
	if opts.GeneKey == "" {
		opts.GeneKey = "geneSymbol"
	}
	if opts.ConsequenceKey == "" {
		opts.ConsequenceKey = "consequence"
	}
	if opts.AFPrefix == "" {
		opts.AFPrefix = "AF_"
	}
	if opts.Populations == nil {
		opts.Populations = DefaultPopulations
	}
	return &Converter{
		opts:     opts,
		splitter: NewSplitter(opts.GeneKey, opts.ConsequenceKey, opts.AFPrefix, opts.Populations),
		variants: NewAllocator[VariantKey](),
		registry: NewCallsetRegistry(),
	}, nil
}

// Run consumes rdr and writes every table to out. The sink itself is
// left open so the caller can fan several runs into one database.
func (c *Converter) Run(rdr *vcf.Reader, out sink.Sink) (Stats, error) {
	var stats Stats

	wVariants, err := out.Create(VariantsSchema())
	if err != nil {
		return stats, err
	}
	wAnnotations, err := out.Create(AnnotationsSchema(c.opts.Populations))
	if err != nil {
		return stats, err
	}
	wCallsets, err := out.Create(CallsetsSchema())
	if err != nil {
		return stats, err
	}
	wGts, err := out.Create(GenotypesSchema(c.opts.Encoding))
	if err != nil {
		return stats, err
	}
	var wExtras sink.TableWriter
	if len(c.opts.Extras) > 0 {
		if wExtras, err = out.Create(ExtrasSchema()); err != nil {
			return stats, err
		}
	}

	// callsets come straight from the header, so a sample with no
	// usable call in the whole file still gets its row.
	samples := rdr.Samples()
	callsetids := make([]int32, len(samples))
	for i, name := range samples {
		id, created, err := c.registry.Register(name, c.opts.Dataset)
		if err != nil {
			return stats, err
		}
		callsetids[i] = id
		if created {
			if err := wCallsets.Write([]interface{}{id, name, c.opts.Dataset}); err != nil {
				return stats, err
			}
			stats.Callsets++
		}
	}

	annRow := make([]interface{}, 3+len(c.opts.Populations))
	gtRow := make([]interface{}, 4)
	for rec := rdr.Next(); rec != nil; rec = rdr.Next() {
		stats.Records++
		for alt, site := range c.splitter.Split(rec) {
			vid, created := c.variants.Get(site.Key)
			if created {
				err := wVariants.Write([]interface{}{vid, site.Key.Chrom, site.Key.Pos, site.Key.Ref, site.Key.Alt})
				if err != nil {
					return stats, err
				}
				annRow[0], annRow[1], annRow[2] = vid, site.Gene, site.Consequence
				copy(annRow[3:], site.AFs)
				if err := wAnnotations.Write(annRow); err != nil {
					return stats, err
				}
				stats.Variants++
				if wExtras != nil {
					if err := c.writeExtras(wExtras, rec, vid, alt); err != nil {
						return stats, err
					}
				}
			}
			for j, csid := range callsetids {
				var call Call
				if j < len(rec.Samples) {
					call = callOf(rec.Samples[j])
				}
				if call.Missing() {
					if c.opts.Missing == OmitMissing {
						continue
					}
				} else if call.AltCopies(alt) == 0 && !c.opts.KeepHomRef {
					continue
				}
				gtRow[0], gtRow[1] = vid, csid
				gtRow[2] = c.opts.Encoding.Encode(call, alt)
				gtRow[3] = call.Phased && !call.Missing()
				if err := wGts.Write(gtRow); err != nil {
					return stats, err
				}
				stats.Genotypes++
			}
		}
		if c.opts.Verbose && stats.Records%100000 == 0 {
			log.Printf("processed %d records. last %s:%d", stats.Records, rec.Chrom(), rec.Pos)
		}
	}

	writers := []sink.TableWriter{wVariants, wAnnotations, wCallsets, wGts}
	if wExtras != nil {
		writers = append(writers, wExtras)
	}
	for _, w := range writers {
		if err := w.Close(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (c *Converter) writeExtras(w sink.TableWriter, rec *vcf.Record, vid int64, alt int) error {
	for _, e := range c.opts.Extras {
		vals := c.splitter.Collect(rec, e.Fields, alt)
		if v, ok := e.Apply(vals); ok {
			if err := w.Write([]interface{}{vid, e.Name, v}); err != nil {
				return err
			}
		}
	}
	return nil
}
