package shared

import (
	"fmt"
	"io/ioutil"
	"log"

	"github.com/brentp/vcftables/tables"
	"github.com/brentp/xopen"
)

// Config is the toml configuration: table policies live here, while
// paths and output selection stay on the command line.
type Config struct {
	Dataset     string
	Genotypes   Genotypes
	Annotations Annotations
	Extra       []Extra
}

// Genotypes picks the gts encoding and row policies.
type Genotypes struct {
	Encoding   string
	Missing    string
	KeepHomref bool `toml:"keep_homref"`
}

// Annotations names the INFO fields that feed the annotations table.
type Annotations struct {
	GeneKey        string `toml:"gene_key"`
	ConsequenceKey string `toml:"consequence_key"`
	AFPrefix       string `toml:"af_prefix"`
	Populations    []string
}

// Extra declares one annotation_extras output from the toml config.
type Extra struct {
	Name   string
	Fields []string
	Op     string
}

func CheckExtra(e *Extra) error {
	if len(e.Fields) == 0 {
		log.Println("warning: no specified 'fields' for extra:", e.Name)
	}
	if e.Op == "" {
		return fmt.Errorf("must specify an 'op' for extra")
	}
	if e.Name == "" {
		return fmt.Errorf("must specify a 'name' for extra")
	}
	return nil
}

// Options validates the config and turns it into converter options.
// luaCode is optional helper lua made available to lua: ops.
func (c Config) Options(luaCode string) (tables.Options, error) {
	opts := tables.Options{
		Dataset:        c.Dataset,
		GeneKey:        c.Annotations.GeneKey,
		ConsequenceKey: c.Annotations.ConsequenceKey,
		AFPrefix:       c.Annotations.AFPrefix,
		Populations:    c.Annotations.Populations,
		KeepHomRef:     c.Genotypes.KeepHomref,
	}

	enc := c.Genotypes.Encoding
	if enc == "" {
		enc = "dosage"
	}
	encoding, ok := tables.Encodings[enc]
	if !ok {
		return opts, fmt.Errorf("unknown genotype encoding: %s", enc)
	}
	opts.Encoding = encoding

	miss := c.Genotypes.Missing
	if miss == "" {
		miss = "omit"
	}
	policy, ok := tables.MissingPolicies[miss]
	if !ok {
		return opts, fmt.Errorf("unknown missing policy: %s", miss)
	}
	opts.Missing = policy

	for i := range c.Extra {
		x := &c.Extra[i]
		if err := CheckExtra(x); err != nil {
			return opts, err
		}
		extra, err := tables.NewExtra(x.Name, x.Fields, x.Op, luaCode)
		if err != nil {
			return opts, err
		}
		opts.Extras = append(opts.Extras, extra)
	}
	return opts, nil
}

// ReadLua reads the optional file of lua helper functions.
func ReadLua(lua string) string {
	var luaString string
	if lua != "" {
		luaReader, err := xopen.Ropen(lua)
		if err != nil {
			log.Fatal(err)
		}
		luaBytes, err := ioutil.ReadAll(luaReader)
		if err != nil {
			log.Fatal(err)
		}
		luaString = string(luaBytes)
	} else {
		luaString = ""
	}
	return luaString
}
