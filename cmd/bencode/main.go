// bencode - canonical bencode CLI tool
//
// Usage:
//
//	bencode pretty [file...]   Pretty-print bencode values
//	bencode literal [file...]  Print bencode as a Go string literal
//	bencode check [file...]    Validate canonical form, report error codes
//
// If no file is given, reads one value from stdin. Each file must
// contain exactly one top-level bencode value.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Neumenon/bencode/bencode"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	paths := os.Args[2:]

	var run func(name string, data []byte) error
	switch cmd {
	case "pretty":
		run = pretty
	case "literal":
		run = literal
	case "check":
		run = check
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "bencode: unknown command %q\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if len(paths) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal("read stdin: %v", err)
		}
		if err := run("stdin", data); err != nil {
			fatal("%v", err)
		}
		return
	}

	failed := false
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fatal("read %s: %v", path, err)
		}
		if err := run(path, data); err != nil {
			fmt.Fprintf(os.Stderr, "bencode: %s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func pretty(name string, data []byte) error {
	node, err := bencode.Inspect(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	fmt.Print(node.PrettyString())
	return nil
}

func literal(name string, data []byte) error {
	node, err := bencode.Inspect(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	fmt.Println(node.GoLiteral())
	return nil
}

func check(name string, data []byte) error {
	if _, err := bencode.ParseValue(data); err != nil {
		if be, ok := err.(*bencode.Error); ok {
			return fmt.Errorf("%s: %s: %s", name, be.Code, be.Message)
		}
		return err
	}
	fmt.Printf("%s: ok (%d bytes)\n", name, len(data))
	return nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "bencode: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `bencode - canonical bencode tool

Usage:
  bencode pretty [file...]   Pretty-print bencode values
  bencode literal [file...]  Print bencode as a Go string literal
  bencode check [file...]    Validate canonical form

Reads one value from stdin when no file is given.`)
}
