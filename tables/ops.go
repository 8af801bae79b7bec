package tables

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/brentp/vcfgo"
)

// Op reduces the values collected for an extra to its stored value. An
// op returning nil means there is nothing to store.
type Op func([]interface{}) interface{}

var Ops = map[string]Op{
	"self":   Op(opSelf),
	"first":  Op(opFirst),
	"concat": Op(opConcat),
	"uniq":   Op(opUniq),
	"mean":   Op(opMean),
	"sum":    Op(opSum),
	"max":    Op(opMax),
	"min":    Op(opMin),
	"count":  Op(opCount),
	"flag":   Op(opFlag),
}

func opMean(vals []interface{}) interface{} {
	s, n := float32(0), 0
	for _, v := range vals {
		if f, ok := asFloat32(v); ok {
			s += f
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return s / float32(n)
}

func opSum(vals []interface{}) interface{} {
	s, n := float32(0), 0
	for _, v := range vals {
		if f, ok := asFloat32(v); ok {
			s += f
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return s
}

func opMax(vals []interface{}) interface{} {
	imax, seen := float32(-math.MaxFloat32), false
	for _, v := range vals {
		if f, ok := asFloat32(v); ok && (!seen || f > imax) {
			imax, seen = f, true
		}
	}
	if !seen {
		return nil
	}
	return imax
}

func opMin(vals []interface{}) interface{} {
	imin, seen := float32(math.MaxFloat32), false
	for _, v := range vals {
		if f, ok := asFloat32(v); ok && (!seen || f < imin) {
			imin, seen = f, true
		}
	}
	if !seen {
		return nil
	}
	return imin
}

func opCount(vals []interface{}) interface{} {
	return len(vals)
}

func opFirst(vals []interface{}) interface{} {
	if len(vals) < 1 {
		return nil
	}
	return vals[0]
}

func opSelf(vals []interface{}) interface{} {
	if len(vals) == 0 {
		return nil
	}
	if len(vals) > 1 {
		return opStrings(vals, false)
	}
	return vals[0]
}

func opUniq(vals []interface{}) interface{} {
	return strings.Join(opStrings(vals, true), ",")
}

func opConcat(vals []interface{}) interface{} {
	return strings.Join(opStrings(vals, false), ",")
}

func opFlag(vals []interface{}) interface{} {
	return len(vals) > 0
}

func opStrings(vals []interface{}, uniq bool) []string {
	s := make([]string, 0, len(vals))
	var m map[string]bool
	if uniq {
		m = make(map[string]bool)
	}
	for _, v := range vals {
		if v == nil {
			continue
		}
		var str string
		switch v := v.(type) {
		case string:
			str = v
		case []interface{}:
			sub := make([]string, len(v))
			for i, a := range v {
				sub[i] = fmt.Sprintf("%v", a)
			}
			str = strings.Join(sub, ",")
		case []string:
			str = strings.Join(v, ",")
		default:
			str = vcfgo.ItoS("", v)
		}
		if m != nil {
			if m[str] {
				continue
			}
			m[str] = true
		}
		s = append(s, str)
	}
	return s
}

func toInterfaceSlice(a interface{}) []interface{} {
	s := reflect.ValueOf(a)
	if s.Kind() != reflect.Slice {
		panic("toInterfaceSlice() given a non-slice type")
	}
	b := make([]interface{}, s.Len())
	for i := range b {
		b[i] = s.Index(i).Interface()
	}
	return b
}
