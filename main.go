// Command kakarimatch matches hand-authored dependency patterns against
// Japanese sentences and extracts the wildcard spans.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kakarimatch/logger"
	"kakarimatch/match"
	"kakarimatch/model"
	"kakarimatch/parse"
	"kakarimatch/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kakarimatch",
		Short:         "dependency-structure pattern matching for Japanese text",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newParseCmd(), newMatchCmd(), newServeCmd())
	return root
}

// newParser builds a parse.Parser for the chosen system dictionary.
func newParser(dictName string) (*parse.Parser, error) {
	switch dictName {
	case "ipa":
		return parse.NewParser(parse.WithDict(ipa.Dict()))
	case "uni":
		return parse.NewParser(parse.WithDict(uni.Dict()))
	default:
		return nil, fmt.Errorf("unknown dictionary %q (want ipa or uni)", dictName)
	}
}

// readInput returns the argument text, or stdin when the argument is "-".
func readInput(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newParseCmd() *cobra.Command {
	var (
		dictName string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "parse <text|->",
		Short: "analyze raw text into a dependency-chunked lattice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			p, err := newParser(dictName)
			if err != nil {
				return err
			}
			sen, err := p.Parse(text)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(sen)
			}
			fmt.Fprint(cmd.OutOrStdout(), parse.Format(sen))
			return nil
		},
	}
	cmd.Flags().StringVar(&dictName, "dict", "ipa", "system dictionary (ipa or uni)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the sentence as JSON instead of lattice text")
	return cmd
}

// matchOutput is the CLI/file rendering of one accepted combination.
type matchOutput struct {
	Spans []string `json:"spans"`
	Forms []string `json:"forms"`
}

func renderRecords(recs []match.Record) []matchOutput {
	out := make([]matchOutput, 0, len(recs))
	for _, rec := range recs {
		var mo matchOutput
		for _, sp := range rec {
			mo.Spans = append(mo.Spans, sp.Surface())
			mo.Forms = append(mo.Forms, sp.Form())
		}
		out = append(out, mo)
	}
	return out
}

func newMatchCmd() *cobra.Command {
	var (
		dictName    string
		patternFile string
		treeFile    string
		outDir      string
	)
	cmd := &cobra.Command{
		Use:   "match --pattern-file pat.txt (<text|-> | --tree-file sen.txt)",
		Short: "match a pattern against a sentence and print captured spans",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if patternFile == "" {
				return fmt.Errorf("--pattern-file is required")
			}
			patText, err := os.ReadFile(patternFile)
			if err != nil {
				return err
			}
			pat, err := parse.Read(string(patText))
			if err != nil {
				return fmt.Errorf("pattern: %w", err)
			}

			var sen *model.Sentence
			switch {
			case treeFile != "":
				treeText, err := os.ReadFile(treeFile)
				if err != nil {
					return err
				}
				if sen, err = parse.Read(string(treeText)); err != nil {
					return fmt.Errorf("sentence: %w", err)
				}
			case len(args) == 1:
				text, err := readInput(args[0])
				if err != nil {
					return err
				}
				p, err := newParser(dictName)
				if err != nil {
					return err
				}
				if sen, err = p.Parse(text); err != nil {
					return err
				}
			default:
				return fmt.Errorf("give sentence text as an argument or use --tree-file")
			}

			recs, ok := match.Match(sen, pat)
			result := map[string]any{
				"matched": ok,
				"results": renderRecords(recs),
			}
			if outDir != "" {
				if err := logger.Init(outDir); err != nil {
					return err
				}
				if err := logger.WriteJSON(outDir, "match", result); err != nil {
					return err
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&dictName, "dict", "ipa", "system dictionary (ipa or uni)")
	cmd.Flags().StringVar(&patternFile, "pattern-file", "", "lattice-format pattern file")
	cmd.Flags().StringVar(&treeFile, "tree-file", "", "pre-parsed lattice file for the sentence")
	cmd.Flags().StringVar(&outDir, "out", "", "also write the result JSON into this directory")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		dictName string
		addr     string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the parse and match API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			zl, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()
			log := zl.Sugar()

			p, err := newParser(dictName)
			if err != nil {
				return err
			}
			srv := server.New(p, log)
			log.Infow("listening", "addr", addr, "dict", dictName)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}
	cmd.Flags().StringVar(&dictName, "dict", "ipa", "system dictionary (ipa or uni)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
