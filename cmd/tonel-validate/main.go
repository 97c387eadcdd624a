// tonel-validate - syntax checker for Tonel Smalltalk files
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/chazu/tonel/pkg/parser"
	"github.com/chazu/tonel/pkg/tonel"
)

var (
	structureOnly = flag.Bool("structure-only", false, "validate the Tonel structure only, skip method body syntax")
	jsonOutput    = flag.Bool("json", false, "print the error record as JSON on failure")
	version       = flag.Bool("version", false, "print version and exit")
)

const versionStr = "0.3.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tonel-validate - syntax checker for Tonel Smalltalk files\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  tonel-validate [options] file.st\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("tonel-validate version %s\n", versionStr)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	var ok bool
	var info *parser.ErrorInfo
	if *structureOnly {
		ok, info = tonel.NewParser().ValidateFile(path)
	} else {
		ok, info = tonel.NewFullParser().ValidateFile(path)
	}

	if ok {
		fmt.Printf("✓ %s is valid\n", path)
		os.Exit(0)
	}

	fmt.Printf("✗ %s is invalid\n", path)
	if *jsonOutput {
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, string(out))
	} else {
		fmt.Fprintf(os.Stderr, "  line %d: %s\n", info.Line, info.Reason)
		if info.ErrorText != "" {
			fmt.Fprintf(os.Stderr, "  > %s\n", info.ErrorText)
		}
	}
	os.Exit(1)
}
