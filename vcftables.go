// vcftables is a command-line application that converts a multi-sample
// VCF into normalized variants, annotations, callsets and gts tables,
// written as gzipped CSV, Arrow IPC, Parquet, SQLite or DuckDB in a
// single pass.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/brentp/vcftables/shared"
	"github.com/brentp/vcftables/sink"
	"github.com/brentp/vcftables/tables"
	"github.com/brentp/vcftables/vcf"
)

func main() {

	configPath := flag.String("config", "", "optional toml file with table policies: genotype encoding, populations, extras")
	dataset := flag.String("dataset", "", "dataset name recorded for every callset; overrides the config")
	csvPrefix := flag.String("csv", "", "write <prefix>_<table>.csv.gz files with this prefix")
	bgzip := flag.Bool("bgzip", false, "write csv output as bgzf blocks instead of plain gzip")
	featherPrefix := flag.String("feather", "", "write <prefix>_<table>.feather arrow files with this prefix")
	parquetPrefix := flag.String("parquet", "", "write <prefix>_<table>.parquet files with this prefix")
	sqlitePath := flag.String("sqlite", "", "write the tables into this sqlite database")
	duckdbPath := flag.String("duckdb", "", "write the tables into this duckdb database")
	chunk := flag.Int("chunk", 500, "rows per arrow record batch, parquet row group and database transaction")
	lua := flag.String("lua", "", "optional path to a file containing custom lua functions to be used as ops")
	verbose := flag.Bool("verbose", false, "report progress every 100000 records")
	flag.Parse()
	inFiles := flag.Args()
	if len(inFiles) != 1 {
		fmt.Printf(`Usage:
%s [options] input.vcf[.gz]

Converts a multi-sample VCF into variants, annotations, callsets and
gts tables. At least one of -csv, -feather, -parquet, -sqlite or
-duckdb is required; an input of "-" reads from stdin.

`, os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	var config shared.Config
	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &config); err != nil {
			log.Fatal(err)
		}
	}
	if *dataset != "" {
		config.Dataset = *dataset
	}

	opts, err := config.Options(shared.ReadLua(*lua))
	if err != nil {
		log.Fatal(err)
	}
	opts.Verbose = *verbose

	sinks := make([]sink.Sink, 0, 5)
	if *csvPrefix != "" {
		sinks = append(sinks, sink.NewCSV(*csvPrefix, *bgzip))
	}
	if *featherPrefix != "" {
		sinks = append(sinks, sink.NewArrow(*featherPrefix, *chunk))
	}
	if *parquetPrefix != "" {
		sinks = append(sinks, sink.NewParquet(*parquetPrefix, *chunk))
	}
	if *sqlitePath != "" {
		st, err := sink.OpenStore("sqlite", *sqlitePath, *chunk)
		if err != nil {
			log.Fatal(err)
		}
		sinks = append(sinks, st)
	}
	if *duckdbPath != "" {
		st, err := sink.OpenStore("duckdb", *duckdbPath, *chunk)
		if err != nil {
			log.Fatal(err)
		}
		sinks = append(sinks, st)
	}
	if len(sinks) == 0 {
		log.Fatal("no outputs requested: use -csv, -feather, -parquet, -sqlite or -duckdb")
	}
	out := sink.NewMulti(sinks...)

	conv, err := tables.NewConverter(opts)
	if err != nil {
		log.Fatal(err)
	}
	rdr, err := vcf.Open(inFiles[0])
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	stats, err := conv.Run(rdr, out)
	if err != nil {
		log.Fatal(err)
	}
	if err := out.Close(); err != nil {
		log.Fatal(err)
	}
	printTime(start, stats)
}

func printTime(start time.Time, stats tables.Stats) {
	dur := time.Since(start)
	duri, duru := dur.Seconds(), "second"
	if duri > float64(600) {
		duri, duru = dur.Minutes(), "minute"
	}
	log.Printf("wrote %d variants, %d callsets and %d genotypes from %d records in %.2f %ss (%.1f records / %s)",
		stats.Variants, stats.Callsets, stats.Genotypes, stats.Records, duri, duru, float64(stats.Records)/duri, duru)
}
