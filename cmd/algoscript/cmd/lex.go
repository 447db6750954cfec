package cmd

import (
	"fmt"
	"os"

	"github.com/algoscript/algoscript/internal/lexer"
	"github.com/algoscript/algoscript/internal/token"
	"github.com/spf13/cobra"
)

var showPos bool

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize an algoscript file and print the resulting tokens",
	Long: `Tokenize (lex) an algoscript program and print the resulting tokens.

Useful for debugging the lexer and understanding how algoscript source is
tokenized, including its indentation bookkeeping.`,
	Args: cobra.ExactArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
}

func lexScript(_ *cobra.Command, args []string) error {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	toks, err := lexer.New(filename, string(data)).Tokenize()
	if err != nil {
		return fmt.Errorf("lexing failed: %w", err)
	}

	for _, tok := range toks {
		printToken(tok)
	}
	fmt.Printf("%d tokens\n", len(toks))
	return nil
}

func printToken(tok token.Token) {
	if showPos {
		fmt.Printf("%-12s %-16v @%d:%d\n", tok.Kind, tok.Value, tok.Start.Line, tok.Start.Column)
		return
	}
	fmt.Printf("%-12s %v\n", tok.Kind, tok.Value)
}
