// Command adict-query loads a dict.Dictionary index and looks up a single
// needle, printing the best match within budget or reporting none found.
package main

import (
	"flag"
	"fmt"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/grailbio/adict/dict"
)

var (
	basename = flag.String("index", "", "index basename (as passed to adict-build -output)")
	deep     = flag.Bool("deep", false, "load <index>.fulldb instead of <index>.idb/<index>.kdb")
	needle   = flag.String("needle", "", "string to search for")
	threaded = flag.Bool("threaded", false, "use the concurrent search coordinator")
	trace    = flag.Bool("trace", false, "print the best candidate of every posting list searched")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *basename == "" || *needle == "" {
		log.Panicf("adict-query: -index and -needle are required")
	}

	d := dict.NewDictionary(dict.DefaultOpts)
	var loadErr *dict.Error
	if *deep {
		loadErr = d.LoadDeep(*basename)
	} else {
		loadErr = d.Load(*basename)
	}
	if loadErr != nil {
		log.Panicf("adict-query: load failed: %v", loadErr)
	}
	log.Debug.Printf("adict-query: loaded %d entries", d.Size())

	var tr *dict.Trace
	if *trace {
		tr = dict.NewTrace()
	}

	var (
		match string
		ok    bool
	)
	if *threaded {
		match, ok = d.FindThreadedTrace(*needle, tr)
	} else {
		match, ok = d.FindTrace(*needle, tr)
	}

	if tr != nil {
		for _, ev := range tr.Events {
			if ev.Note != "" {
				fmt.Printf("trace: %s\n", ev.Note)
				continue
			}
			fmt.Printf("trace: gram=%q candidate=%d distance=%d\n", ev.Gram, ev.Candidate, ev.Distance)
		}
	}

	if !ok {
		fmt.Println("no match")
		return
	}
	fmt.Println(match)
}
