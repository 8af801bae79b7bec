package tables

import (
	"strings"

	"github.com/brentp/vcftables/vcf"
	. "gopkg.in/check.v1"
)

var splitVCF = `##fileformat=VCFv4.2
##INFO=<ID=geneSymbol,Number=1,Type=String,Description="Gene symbol">
##INFO=<ID=consequence,Number=A,Type=String,Description="VEP consequence">
##INFO=<ID=AF_afr,Number=A,Type=Float,Description="AFR allele frequency">
##INFO=<ID=AF_nfe,Number=A,Type=Float,Description="NFE allele frequency">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	S1
chr17	7676154	rs28934578	G	C	50	PASS	geneSymbol=TP53;consequence=missense_variant;AF_afr=0.001;AF_nfe=0.002	GT	0/1
chr1	5000	.	A	T,TG	50	PASS	geneSymbol=GENE1;consequence=stop_gained,frameshift_variant;AF_afr=0.1,0.2	GT	1/2
chr2	6000	.	C	G	50	PASS	AF_nfe=0.5	GT	0/1
`

type SplitSuite struct {
	records []*vcf.Record
}

var _ = Suite(&SplitSuite{})

func (s *SplitSuite) SetUpTest(c *C) {
	rdr, err := vcf.NewReader(strings.NewReader(splitVCF))
	c.Assert(err, IsNil)
	s.records = nil
	for rec := rdr.Next(); rec != nil; rec = rdr.Next() {
		s.records = append(s.records, rec)
	}
	c.Assert(s.records, HasLen, 3)
}

func (s *SplitSuite) TestSingleAlt(c *C) {
	sp := NewSplitter("geneSymbol", "consequence", "AF_", []string{"afr", "nfe"})
	sites := sp.Split(s.records[0])
	c.Assert(sites, HasLen, 1)
	c.Assert(sites[0].Key, Equals, VariantKey{Chrom: "chr17", Pos: 7676154, Ref: "G", Alt: "C"})
	c.Assert(sites[0].Gene, Equals, "TP53")
	c.Assert(sites[0].Consequence, Equals, "missense_variant")
	c.Assert(sites[0].AFs, DeepEquals, []interface{}{float32(0.001), float32(0.002)})
}

func (s *SplitSuite) TestMultiAllelic(c *C) {
	sp := NewSplitter("geneSymbol", "consequence", "AF_", []string{"afr"})
	sites := sp.Split(s.records[1])
	c.Assert(sites, HasLen, 2)
	c.Assert(sites[0].Key.Alt, Equals, "T")
	c.Assert(sites[1].Key.Alt, Equals, "TG")
	// per-alt fields line up with their alt, scalars repeat.
	c.Assert(sites[0].Consequence, Equals, "stop_gained")
	c.Assert(sites[1].Consequence, Equals, "frameshift_variant")
	c.Assert(sites[0].AFs[0], Equals, float32(0.1))
	c.Assert(sites[1].AFs[0], Equals, float32(0.2))
	c.Assert(sites[0].Gene, Equals, "GENE1")
	c.Assert(sites[1].Gene, Equals, "GENE1")
}

func (s *SplitSuite) TestAbsentFieldIsNull(c *C) {
	sp := NewSplitter("geneSymbol", "consequence", "AF_", []string{"afr", "nfe"})
	sites := sp.Split(s.records[2])
	c.Assert(sites, HasLen, 1)
	c.Assert(sites[0].Gene, IsNil)
	c.Assert(sites[0].Consequence, IsNil)
	c.Assert(sites[0].AFs[0], IsNil)
	c.Assert(sites[0].AFs[1], Equals, float32(0.5))
}

func (s *SplitSuite) TestPickAllele(c *C) {
	sp := NewSplitter("geneSymbol", "consequence", "AF_", nil)
	c.Assert(sp.pickAllele("x", "k", 1, 2), Equals, "x")
	c.Assert(sp.pickAllele([]interface{}{"a", "b"}, "k", 1, 2), Equals, "b")
	// a list that does not line up with the alts keeps its first value.
	c.Assert(sp.pickAllele([]interface{}{"a", "b", "c"}, "k", 1, 2), Equals, "a")
	c.Assert(sp.pickAllele([]float32{1.5, 2.5}, "k", 0, 3), Equals, float32(1.5))
	c.Assert(sp.pickAllele([]interface{}{}, "k", 0, 1), IsNil)
}

func (s *SplitSuite) TestCollect(c *C) {
	sp := NewSplitter("geneSymbol", "consequence", "AF_", nil)
	vals := sp.Collect(s.records[0], []string{"ID", "geneSymbol", "nope"}, 0)
	c.Assert(vals, DeepEquals, []interface{}{"rs28934578", "TP53"})

	// the missing rsid of the second record contributes nothing.
	vals = sp.Collect(s.records[1], []string{"ID"}, 0)
	c.Assert(vals, HasLen, 0)
}

func (s *SplitSuite) TestCoercions(c *C) {
	f, ok := asFloat32("0.25")
	c.Assert(ok, Equals, true)
	c.Assert(f, Equals, float32(0.25))
	_, ok = asFloat32("pathogenic")
	c.Assert(ok, Equals, false)
	_, ok = asFloat32(nil)
	c.Assert(ok, Equals, false)

	v, ok := asString("TP53")
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, "TP53")
	_, ok = asString(".")
	c.Assert(ok, Equals, false)
	_, ok = asString(nil)
	c.Assert(ok, Equals, false)
}
