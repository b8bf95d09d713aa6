package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rillscript/rill/internal/ast"
	"github.com/rillscript/rill/internal/parser"
)

var parseExpression bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse rill source and print its AST",
	Long: `Parse rill source code and display its Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse a single
expression given on the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse an inline expression instead of a file")
}

func runParse(_ *cobra.Command, args []string) error {
	var input string
	switch {
	case parseExpression:
		if len(args) == 0 {
			return fmt.Errorf("no expression provided")
		}
		input = args[0]
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	prog, err := parser.Parse(input)
	if err != nil {
		return err
	}
	dumpNode(prog, 0)
	return nil
}

func dumpNode(node ast.Node, indent int) {
	pad := strings.Repeat("  ", indent)
	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpNode(s, indent+1)
		}
	case *ast.BlockStatement:
		fmt.Printf("%sBlockStatement (%d statements)\n", pad, len(n.Statements))
		for _, s := range n.Statements {
			dumpNode(s, indent+1)
		}
	case *ast.LetStatement:
		fmt.Printf("%sLetStatement: %s = %s\n", pad, n.Name.Name, n.Value.String())
	case *ast.ExpressionStatement:
		fmt.Printf("%sExpressionStatement: %s\n", pad, n.String())
	default:
		fmt.Printf("%s%T: %s\n", pad, node, node.String())
	}
}
