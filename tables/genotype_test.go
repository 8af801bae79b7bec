package tables

import (
	. "gopkg.in/check.v1"
)

type GTSuite struct{}

var _ = Suite(&GTSuite{})

func (s *GTSuite) TestMissing(c *C) {
	c.Assert(Call{}.Missing(), Equals, true)
	c.Assert(Call{Alleles: []int{-1, -1}}.Missing(), Equals, true)
	// a half call like ./1 is unusable too.
	c.Assert(Call{Alleles: []int{-1, 1}}.Missing(), Equals, true)
	c.Assert(Call{Alleles: []int{0, 1}}.Missing(), Equals, false)
	c.Assert(Call{Alleles: []int{1}}.Missing(), Equals, false)
}

func (s *GTSuite) TestAltCopies(c *C) {
	het := Call{Alleles: []int{0, 1}}
	c.Assert(het.AltCopies(0), Equals, 1)
	c.Assert(het.AltCopies(1), Equals, 0)

	// 1/2 carries one copy of each alt.
	multi := Call{Alleles: []int{1, 2}}
	c.Assert(multi.AltCopies(0), Equals, 1)
	c.Assert(multi.AltCopies(1), Equals, 1)

	hom := Call{Alleles: []int{2, 2}}
	c.Assert(hom.AltCopies(1), Equals, 2)
	c.Assert(hom.AltCopies(0), Equals, 0)
}

func (s *GTSuite) TestDosage(c *C) {
	d := Dosage{}
	c.Assert(d.Encode(Call{Alleles: []int{0, 1}}, 0), Equals, uint8(1))
	c.Assert(d.Encode(Call{Alleles: []int{1, 1}}, 0), Equals, uint8(2))
	// the other alt counts as ref on this row.
	c.Assert(d.Encode(Call{Alleles: []int{0, 2}}, 0), Equals, uint8(0))
	c.Assert(d.Encode(Call{Alleles: []int{-1, 1}}, 0), Equals, MissingDosage)

	call, err := d.Decode(uint8(2))
	c.Assert(err, IsNil)
	c.Assert(call.Alleles, DeepEquals, []int{1, 1})

	call, err = d.Decode(MissingDosage)
	c.Assert(err, IsNil)
	c.Assert(call.Missing(), Equals, true)

	_, err = d.Decode(uint8(3))
	c.Assert(err, ErrorMatches, ".*does not fit a diploid call")
	_, err = d.Decode("2")
	c.Assert(err, ErrorMatches, "dosage: want uint8.*")
}

func (s *GTSuite) TestDosageRoundTrip(c *C) {
	d := Dosage{}
	for _, call := range []Call{
		{Alleles: []int{0, 0}},
		{Alleles: []int{0, 1}},
		{Alleles: []int{1, 0}},
		{Alleles: []int{1, 1}},
	} {
		back, err := d.Decode(d.Encode(call, 0))
		c.Assert(err, IsNil)
		// dosage keeps the alt count, not the allele order.
		c.Assert(back.AltCopies(0), Equals, call.AltCopies(0))
		c.Assert(back.Alleles, HasLen, 2)
	}
}

func (s *GTSuite) TestAlleles(c *C) {
	a := Alleles{}
	c.Assert(a.Encode(Call{Alleles: []int{0, 1}}, 0), Equals, "0/1")
	c.Assert(a.Encode(Call{Alleles: []int{1, 0}, Phased: true}, 0), Equals, "1|0")
	// the second alt of 1/2 is re-indexed to 1 on its own row.
	c.Assert(a.Encode(Call{Alleles: []int{1, 2}}, 1), Equals, "0/1")
	// a partial call is missing and collapses to the sentinel, phase
	// and all.
	c.Assert(a.Encode(Call{Alleles: []int{-1, 1}}, 0), Equals, "./.")
	c.Assert(a.Encode(Call{Alleles: []int{-1, 1}, Phased: true}, 0), Equals, "./.")
	c.Assert(a.Encode(Call{}, 0), Equals, "./.")
	c.Assert(a.Encode(Call{Alleles: []int{1}}, 0), Equals, "1")
	c.Assert(a.Encode(Call{Alleles: []int{-1}}, 0), Equals, ".")
}

func (s *GTSuite) TestAllelesRoundTrip(c *C) {
	a := Alleles{}
	for _, enc := range []string{"0/1", "1|0", "1/1", "./."} {
		call, err := a.Decode(enc)
		c.Assert(err, IsNil)
		c.Assert(a.Encode(call, 0), Equals, enc)
	}
	// a decoded partial call is missing and re-encodes as the sentinel.
	call, err := a.Decode("./1")
	c.Assert(err, IsNil)
	c.Assert(call.Alleles, DeepEquals, []int{-1, 1})
	c.Assert(call.Missing(), Equals, true)
	c.Assert(a.Encode(call, 0), Equals, "./.")
	_, err = a.Decode("x/1")
	c.Assert(err, ErrorMatches, `alleles: bad allele "x" in "x/1"`)
}
