package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/rillscript/rill/internal/value"
	"github.com/rillscript/rill/pkg/rill"
)

var (
	evalExpr        string
	maxCallDepth    int
	overflowChecked bool
	prettyPrint     bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a rill script file or inline expression",
	Long: `Execute a rill program from a file or inline expression.

Examples:
  rillrun run script.rill
  rillrun run -e "1 + 2"
  rillrun run --overflow-checked script.rill`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading from file")
	runCmd.Flags().IntVar(&maxCallDepth, "max-call-depth", rill.DefaultMaxCallDepth, "maximum script-function call depth")
	runCmd.Flags().BoolVar(&overflowChecked, "overflow-checked", false, "fail on integer overflow instead of wrapping")
	runCmd.Flags().BoolVar(&prettyPrint, "pretty", false, "pretty-print a string result that looks like JSON")
}

func runScript(_ *cobra.Command, args []string) error {
	opts := []rill.Option{rill.WithMaxCallDepth(maxCallDepth)}
	if overflowChecked {
		opts = append(opts, rill.WithOverflowChecked())
	}
	engine := rill.New(opts...)

	var (
		result value.Value
		err    error
	)
	switch {
	case evalExpr != "":
		result, err = engine.Eval(evalExpr)
	case len(args) == 1:
		opts = append(opts, rill.WithModuleBaseDir(filepath.Dir(args[0])))
		engine = rill.New(opts...)
		result, err = engine.EvalFile(args[0])
	default:
		return fmt.Errorf("either provide a script file or use -e for inline source")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return fmt.Errorf("execution failed")
	}

	printResult(result)
	return nil
}

func printResult(v value.Value) {
	if v.IsUnit() {
		return
	}
	if s, ok, _ := tryString(v); ok {
		if prettyPrint && looksLikeJSON(s) {
			os.Stdout.Write(pretty.Pretty([]byte(s)))
			return
		}
		fmt.Println(s)
		return
	}
	switch v.TypeID() {
	case value.Int64, value.Float, value.Bool, value.Char:
		fmt.Println(v.Raw())
	default:
		fmt.Println(v.String())
	}
}

func tryString(v value.Value) (string, bool, error) {
	s, err := value.Unwrap[string](v)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}
