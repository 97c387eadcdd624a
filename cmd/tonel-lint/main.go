// tonel-lint - style checker for Tonel Smalltalk packages
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/chazu/tonel/pkg/linter"
)

var version = flag.Bool("version", false, "print version and exit")

const versionStr = "0.3.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tonel-lint - style checker for Tonel Smalltalk packages\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  tonel-lint [options] file.st\n")
		fmt.Fprintf(os.Stderr, "  tonel-lint [options] src/MyPackage\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("tonel-lint version %s\n", versionStr)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	target := flag.Arg(0)

	paths, err := collect(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no .st files found under %s\n", target)
		os.Exit(2)
	}

	l := linter.New()
	var errs *multierror.Error
	analyzed := 0
	for _, path := range paths {
		issues, err := l.LintFile(path)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		analyzed++
		l.PrintIssues(os.Stdout, path, issues)
	}

	code := l.PrintSummary(os.Stdout, analyzed)
	if errs != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errs)
		code = 2
	}
	os.Exit(code)
}

// collect resolves target into the list of Tonel files to lint: the file
// itself, or every .st file under the directory except package manifests.
func collect(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !strings.HasSuffix(target, ".st") {
			return nil, fmt.Errorf("%s is not a .st file", target)
		}
		return []string{target}, nil
	}

	var paths []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".st") {
			return nil
		}
		if filepath.Base(path) == "package.st" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
