// Command adict-build reads a corpus text file (one entry per line) and
// writes a dict.Dictionary index to disk, following the
// cmd/bio-bam-gindex flag+grail.Init() convention.
package main

import (
	"flag"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/grailbio/adict/corpus"
	"github.com/grailbio/adict/dict"
)

var (
	corpusPath = flag.String("corpus", "", "path to the corpus text file, one entry per line")
	output     = flag.String("output", "", "output basename; writes <output>.idb and <output>.kdb")
	deep       = flag.Bool("deep", false, "write a single self-contained <output>.fulldb file instead")
	maxGram    = flag.Int("max-gram-size", dict.DefaultOpts.MaxGramSize, "longest gram width indexed")
	minGram    = flag.Int("min-gram-size", dict.DefaultOpts.MinGramSize, "shortest gram suffix retained")
	numWorkers = flag.Int("num-workers", dict.DefaultOpts.NumWorkers, "worker pool size for threaded search")
	compress   = flag.Bool("compress", false, "compress the sidecar/deep payload stream")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *corpusPath == "" || *output == "" {
		log.Panicf("adict-build: -corpus and -output are required")
	}

	opts := dict.Opts{
		CharsPerError:   dict.DefaultOpts.CharsPerError,
		MaxGramSize:     *maxGram,
		MinGramSize:     *minGram,
		NumWorkers:      *numWorkers,
		CompressSidecar: *compress,
	}

	entries, err := corpus.ReadLines(*corpusPath)
	if err != nil {
		log.Panicf("adict-build: reading corpus: %v", err)
	}
	log.Printf("adict-build: read %d entries from %s", len(entries), *corpusPath)

	d := dict.NewDictionary(opts)
	if buildErr := d.Build(*corpusPath, entries); buildErr != nil {
		log.Panicf("adict-build: build failed: %v", buildErr)
	}
	log.Printf("adict-build: indexed %d distinct entries", d.Size())

	if *deep {
		if saveErr := d.SaveDeep(*output); saveErr != nil {
			log.Panicf("adict-build: save failed: %v", saveErr)
		}
		log.Printf("adict-build: wrote %s.fulldb", *output)
		return
	}
	if saveErr := d.Save(*output); saveErr != nil {
		log.Panicf("adict-build: save failed: %v", saveErr)
	}
	log.Printf("adict-build: wrote %s.idb and %s.kdb", *output, *output)
}
