// remoptrace inspects the execution traces providerd records.
//
//	remoptrace -db traces.db list [-n 20]
//	remoptrace -db traces.db show <program-id>
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/remoteops/remop/internal/trace"
)

const (
	colorReset = "\x1b[0m"
	colorGreen = "\x1b[32m"
	colorRed   = "\x1b[31m"
)

// useColor gates ANSI escapes on stdout being a terminal.
var useColor = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func statusText(status int32) string {
	text := fmt.Sprintf("status=%d", status)
	if !useColor {
		return text
	}
	if status == 0 {
		return colorGreen + text + colorReset
	}
	return colorRed + text + colorReset
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -db <path> list [-n count] | show <program-id>\n", os.Args[0])
	os.Exit(2)
}

func main() {
	dbPath := flag.String("db", "", "path to the trace database")
	flag.Parse()

	if *dbPath == "" || flag.NArg() < 1 {
		usage()
	}

	store, err := trace.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "remoptrace: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch flag.Arg(0) {
	case "list":
		limit := 0
		if flag.NArg() >= 3 && flag.Arg(1) == "-n" {
			limit, err = strconv.Atoi(flag.Arg(2))
			if err != nil {
				usage()
			}
		}
		if err := runList(store, limit); err != nil {
			fmt.Fprintf(os.Stderr, "remoptrace: %v\n", err)
			os.Exit(1)
		}
	case "show":
		if flag.NArg() != 2 {
			usage()
		}
		id, err := uuid.Parse(flag.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "remoptrace: bad program id: %v\n", err)
			os.Exit(1)
		}
		if err := runShow(store, id); err != nil {
			fmt.Fprintf(os.Stderr, "remoptrace: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
	}
}

func runList(store *trace.Store, limit int) error {
	entries, err := store.List(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no recorded executions")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %s  %d instructions\n",
			e.CreatedAt.Local().Format(time.RFC3339),
			e.Id,
			statusText(e.Status),
			e.InstructionCount)
	}
	return nil
}

func runShow(store *trace.Store, id uuid.UUID) error {
	e, err := store.Get(id)
	if err != nil {
		return err
	}
	fmt.Printf("program      %s\n", e.Id)
	fmt.Printf("executed at  %s\n", e.CreatedAt.Local().Format(time.RFC3339))
	fmt.Printf("%s\n", statusText(e.Status))
	fmt.Printf("instructions %d\n\n", e.InstructionCount)
	fmt.Print(e.Disasm)
	fmt.Printf("\nresults: %s\n", e.ResultsJSON)
	return nil
}
