package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/replyscore/internal/normalize"
	"github.com/spf13/cobra"
)

var (
	normalizeSteps  bool
	normalizeLang   string
	normalizeNoStem bool
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize [text...]",
	Short: "Normalize text into stemmed tokens",
	Long: `Normalize text into a deterministic string of stemmed tokens.

Arguments are normalized one per output line. Without arguments, every line
of stdin is normalized.

Examples:
  replyscore normalize "Hoje é um ótimo dia para estudar!"
  cat replies.txt | replyscore normalize
  replyscore normalize --steps "Tenho 2 gatos e 3 cachorros."`,
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().BoolVar(&normalizeSteps, "steps", false, "print every intermediate step as JSON")
	normalizeCmd.Flags().StringVar(&normalizeLang, "lang", "", "language (default from config: portuguese)")
	normalizeCmd.Flags().BoolVar(&normalizeNoStem, "no-stem", false, "skip stemming")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if normalizeLang != "" {
		cfg.Normalizer.Language = normalizeLang
	}
	if normalizeNoStem {
		cfg.Normalizer.Stem = false
	}

	n, err := normalize.New(cfg.Normalizer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) > 0 {
		for _, text := range args {
			if err := writeNormalized(out, n, text); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := writeNormalized(out, n, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

func writeNormalized(out io.Writer, n *normalize.Normalizer, text string) error {
	if !normalizeSteps {
		_, err := fmt.Fprintln(out, n.Normalize(text))
		return err
	}

	data, err := json.Marshal(struct {
		Input string `json:"input"`
		normalize.Trace
	}{Input: strings.TrimRight(text, "\r"), Trace: n.Trace(text)})
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
