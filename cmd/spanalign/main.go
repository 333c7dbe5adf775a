// spanalign converts character-offset annotation exports into token-span documents,
// normalizes document whitespace carrying the spans along, and evaluates one span
// collection against another.
//
// Usage:
//
//	spanalign convert -in records.jsonl -out docs.parquet
//	spanalign fixws -in docs.parquet -out fixed.parquet
//	spanalign evaluate -in docs.parquet -auto model -gold ents
//
// Document files are JSONL or Parquet, chosen by the file extension. Flags may also be
// given before the command.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/spanalign/corpus"
	"github.com/gomlx/spanalign/diagnostics"
	"github.com/gomlx/spanalign/document"
	"github.com/gomlx/spanalign/evaluate"
	"github.com/gomlx/spanalign/realign"
	"github.com/gomlx/spanalign/resolve"
	"github.com/gomlx/spanalign/textfix"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagIn  = flag.String("in", "", "Input file: Doccano JSONL records for convert, documents (.jsonl or .parquet) otherwise.")
	flagOut = flag.String("out", "", "Output documents file (.jsonl or .parquet).")

	flagStrict = flag.Bool("strict", false, "convert: only accept annotations whose offsets fall exactly on token boundaries.")
	flagAuto   = flag.String("auto", "model", "evaluate: name of the automatic span collection.")
	flagGold   = flag.String("gold", document.EntsSource, "evaluate: name of the gold span collection, \"ents\" for the document entities.")
)

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "Usage: %s [flags] <convert|fixws|evaluate> [flags]\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	command := flag.Arg(0)
	if err := flag.CommandLine.Parse(flag.Args()[1:]); err != nil {
		os.Exit(2)
	}
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %q", flag.Args())
		usage()
		os.Exit(2)
	}

	var err error
	switch command {
	case "convert":
		err = convert()
	case "fixws":
		err = fixWhitespace()
	case "evaluate":
		err = evaluateCorpus()
	default:
		klog.Errorf("Unknown command %q", command)
		usage()
		os.Exit(2)
	}
	if err != nil {
		klog.Exitf("%s failed: %v", command, err)
	}
}

func requireFlags(names ...string) error {
	for _, name := range names {
		if flag.Lookup(name).Value.String() == "" {
			return errors.Errorf("flag -%s is required", name)
		}
	}
	return nil
}

func convert() error {
	if err := requireFlags("in", "out"); err != nil {
		return err
	}
	tok, err := newTokenizer()
	if err != nil {
		return err
	}
	records, err := corpus.ReadRecordsJSONL(*flagIn)
	if err != nil {
		return err
	}
	collector := &diagnostics.Collector{}
	opts := resolve.DefaultOptions()
	opts.AllowExpand = !*flagStrict
	converter := resolve.NewConverter(tok, opts, diagnostics.Multi(diagnostics.KlogReporter{}, collector))
	docs, err := corpus.ConvertAll(records, converter)
	if err != nil {
		return err
	}
	if err := corpus.WriteDocuments(*flagOut, docs); err != nil {
		return err
	}
	annotations := 0
	for _, r := range records {
		annotations += len(r.Label)
	}
	printSummary("convert", [][]string{
		{"records", fmt.Sprint(len(records))},
		{"annotations", fmt.Sprint(annotations)},
		{"entities", fmt.Sprint(countEnts(docs))},
	}, collector)
	return nil
}

func fixWhitespace() error {
	if err := requireFlags("in", "out"); err != nil {
		return err
	}
	tok, err := newTokenizer()
	if err != nil {
		return err
	}
	docs, err := corpus.ReadDocuments(*flagIn)
	if err != nil {
		return err
	}
	entsBefore := countEnts(docs)
	collector := &diagnostics.Collector{}
	realigner := realign.New(tok, diagnostics.Multi(diagnostics.KlogReporter{}, collector))
	fixed, err := realigner.Corpus(docs, textfix.FixWhitespace)
	if err != nil {
		return err
	}
	if err := corpus.WriteDocuments(*flagOut, fixed); err != nil {
		return err
	}
	printSummary("fixws", [][]string{
		{"documents", fmt.Sprint(len(fixed))},
		{"entities before", fmt.Sprint(entsBefore)},
		{"entities after", fmt.Sprint(countEnts(fixed))},
	}, collector)
	return nil
}

func evaluateCorpus() error {
	if err := requireFlags("in"); err != nil {
		return err
	}
	docs, err := corpus.ReadDocuments(*flagIn)
	if err != nil {
		return err
	}
	report := evaluate.Corpus(docs, *flagAuto, *flagGold)
	for _, missing := range []struct {
		name  string
		count int
	}{{*flagAuto, report.MissingAuto}, {*flagGold, report.MissingGold}} {
		if missing.count > 0 {
			klog.Warningf("Span collection %q is missing in %d of %d documents", missing.name, missing.count, len(docs))
		}
	}
	printReport(*flagAuto, *flagGold, report)
	return nil
}

func countEnts(docs []*document.Document) int {
	n := 0
	for _, doc := range docs {
		n += len(doc.Ents())
	}
	return n
}
