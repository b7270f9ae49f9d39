package main

import (
	"fmt"
	"os"

	"github.com/andreyshpigunov/x-sub000/lib/lint"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "check":
		if err := runCheck(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("xlint version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`xlint - markup checker for x toolkit attributes

Usage:
  xlint <command> [arguments]

Commands:
  check [paths]         Check HTML files (directories are walked)
  version               Print version
  help                  Show this help

Options for check:
  --key <secret>        Verify signed x-detail tokens with this key

Examples:
  xlint check ./templates          Check every .html file under templates
  xlint check index.html about.html  Check specific files
  xlint check --key $DETAIL_KEY ./templates  Also verify detail tokens`)
}

func runCheck(args []string) error {
	var key []byte
	var paths []string

	for i := 0; i < len(args); i++ {
		if args[i] == "--key" {
			if i+1 >= len(args) {
				return fmt.Errorf("--key requires a value")
			}
			i++
			key = []byte(args[i])
			continue
		}
		paths = append(paths, args[i])
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}

	issues, err := lint.New(lint.Options{DetailKey: key}).Check(paths...)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		fmt.Println(issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d issue(s) found", len(issues))
	}
	return nil
}
