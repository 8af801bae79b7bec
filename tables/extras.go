package tables

import (
	"fmt"
	"strings"
	"sync"

	"github.com/brentp/goluaez"
	"github.com/brentp/vcfgo"
)

// Extra computes one annotation_extras value from a set of INFO fields,
// either through a named op or a lua: expression evaluated with the
// collected values bound to vals.
type Extra struct {
	Name   string
	Fields []string
	Op     string

	mu sync.Mutex
	vm *goluaez.State
}

// NewExtra validates the op and, for lua: ops, sets up the vm seeded
// with the optional helper code.
func NewExtra(name string, fields []string, op, luaCode string) (*Extra, error) {
	if name == "" {
		return nil, fmt.Errorf("must specify a 'name' for extra")
	}
	if op == "" {
		return nil, fmt.Errorf("must specify an 'op' for extra %s", name)
	}
	e := &Extra{Name: name, Fields: fields, Op: op}
	if strings.HasPrefix(op, "lua:") {
		var err error
		if luaCode != "" {
			e.vm, err = goluaez.NewState(luaCode)
		} else {
			e.vm, err = goluaez.NewState()
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing custom lua for %s: %s", name, err)
		}
	} else if _, ok := Ops[op]; !ok {
		return nil, fmt.Errorf("requested op not found: %s for extra %s", op, name)
	}
	return e, nil
}

// Apply reduces vals to the stored string; ok is false when there is
// nothing to store.
func (e *Extra) Apply(vals []interface{}) (value string, ok bool) {
	if len(vals) == 0 {
		return "", false
	}
	if e.vm != nil {
		return e.luaOp(vals), true
	}
	v := Ops[e.Op](vals)
	if v == nil {
		return "", false
	}
	return vcfgo.ItoS(e.Name, v), true
}

func (e *Extra) luaOp(vals []interface{}) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.SetGlobal("vals", vals)
	value, err := e.vm.Run(e.Op[4:])
	if err != nil {
		return fmt.Sprintf("lua-error: %s", err)
	}
	return fmt.Sprintf("%v", value)
}
