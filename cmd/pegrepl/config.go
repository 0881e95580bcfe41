package main

import (
	"github.com/npillmayer/schuko/schukonf/viperadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// traceKeys are the tracers of all packages the CLI drives.
var traceKeys = []string{"packrat.cli", "packrat.peg", "packrat.scanner", "packrat.lexer"}

// configureTracing installs Go-logger tracers for traceKeys, configured
// through viper with keys "tracelevel.<key>". Tracers installed earlier are
// replaced.
func configureTracing(l string) error {
	level := tracing.TraceLevelFromString(l)
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := viperadapter.New("pegrepl")
	conf.InitDefaults() // tracing adapter "go"
	conf.Set("tracelevel.root", l)
	for _, key := range traceKeys {
		conf.Set("tracelevel."+key, l)
	}
	if err := trace2go.ConfigureRoot(conf, "tracelevel", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	// replaced tracers do not read their level from conf
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	return nil
}
