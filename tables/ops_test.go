package tables

import (
	. "gopkg.in/check.v1"
)

type OpsSuite struct{}

var _ = Suite(&OpsSuite{})

func (s *OpsSuite) TestMean(c *C) {
	c.Assert(Ops["mean"]([]interface{}{1.0, 2.0, 3.0}), Equals, float32(2.0))
	// values that do not coerce are skipped, not averaged as zero.
	c.Assert(Ops["mean"]([]interface{}{1.0, "x", 3.0}), Equals, float32(2.0))
	c.Assert(Ops["mean"]([]interface{}{"x"}), IsNil)
}

func (s *OpsSuite) TestSum(c *C) {
	c.Assert(Ops["sum"]([]interface{}{1, 2, float32(3)}), Equals, float32(6))
	c.Assert(Ops["sum"]([]interface{}{}), IsNil)
}

func (s *OpsSuite) TestMaxMin(c *C) {
	vals := []interface{}{float32(1.5), float32(-2), float32(0)}
	c.Assert(Ops["max"](vals), Equals, float32(1.5))
	c.Assert(Ops["min"](vals), Equals, float32(-2))
	c.Assert(Ops["max"]([]interface{}{"x"}), IsNil)
	c.Assert(Ops["min"]([]interface{}{"x"}), IsNil)
}

func (s *OpsSuite) TestFirstAndSelf(c *C) {
	c.Assert(Ops["first"]([]interface{}{"a", "b"}), Equals, "a")
	c.Assert(Ops["first"]([]interface{}{}), IsNil)
	c.Assert(Ops["self"]([]interface{}{"a"}), Equals, "a")
	c.Assert(Ops["self"]([]interface{}{"a", "b"}), DeepEquals, []string{"a", "b"})
	c.Assert(Ops["self"]([]interface{}{}), IsNil)
}

func (s *OpsSuite) TestConcatAndUniq(c *C) {
	vals := []interface{}{"a", "b", "a"}
	c.Assert(Ops["concat"](vals), Equals, "a,b,a")
	c.Assert(Ops["uniq"](vals), Equals, "a,b")
}

func (s *OpsSuite) TestCountAndFlag(c *C) {
	c.Assert(Ops["count"]([]interface{}{"a", "b"}), Equals, 2)
	c.Assert(Ops["flag"]([]interface{}{"a"}), Equals, true)
	c.Assert(Ops["flag"]([]interface{}{}), Equals, false)
}

func (s *OpsSuite) TestOpStrings(c *C) {
	got := opStrings([]interface{}{"x", nil, []string{"y", "z"}, 7}, false)
	c.Assert(got, DeepEquals, []string{"x", "y,z", "7"})
}
