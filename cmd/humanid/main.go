package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/casperid/humanid/internal/config"
	"github.com/casperid/humanid/internal/humanid"
)

type line struct {
	Wallet string `json:"wallet"`
	humanid.Result
	Error string `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("humanid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	segments := fs.Int("segments", humanid.DefaultSegments, "number of word segments")
	wordLength := fs.Int("word-length", humanid.DefaultWordLength, "syllables per segment")
	shortIDLength := fs.Int("short-id-length", humanid.DefaultShortIDLength, "short id length")
	legacy := fs.Bool("legacy", false, "reproduce the sign-extended seed of deployed ids")
	markov := fs.Bool("markov", false, "walk the markov table instead of flat sampling")
	poolFile := fs.String("pool", "", "YAML file overriding the syllable pool")
	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: humanid [options] [wallet ...]

Derives short ids and human ids for each wallet argument, or for each line of
stdin when no arguments are given. Prints one JSON object per line.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.HumanIDConfig{PoolFile: *poolFile}
	if *legacy {
		cfg.SeedMode = humanid.SeedLegacySigned
	}
	if *markov {
		cfg.WordMode = humanid.MarkovWords
	}
	deriver, err := cfg.Deriver()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts := []humanid.Option{
		humanid.WithSegments(*segments),
		humanid.WithWordLength(*wordLength),
		humanid.WithShortIDLength(*shortIDLength),
	}

	enc := json.NewEncoder(stdout)
	failed := false
	emit := func(wallet string) error {
		out := line{Wallet: wallet}
		res, err := deriver.Derive(wallet, opts...)
		if err != nil {
			out.Error = err.Error()
			failed = true
		} else {
			out.Result = res
		}
		return enc.Encode(out)
	}

	if fs.NArg() > 0 {
		for _, wallet := range fs.Args() {
			if err := emit(wallet); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
		}
	} else {
		scanner := bufio.NewScanner(stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			wallet := strings.TrimRight(scanner.Text(), "\r")
			if wallet == "" {
				continue
			}
			if err := emit(wallet); err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(stderr, "Error: read stdin: %v\n", err)
			return 1
		}
	}

	if failed {
		return 1
	}
	return 0
}
