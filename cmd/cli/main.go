package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"symtrace/adapters/battery"
	"symtrace/adapters/dictionary"
	"symtrace/adapters/export"
	"symtrace/adapters/segmentation"
	"symtrace/adapters/tokenizer"
	"symtrace/domain/connector"
	"symtrace/domain/indicator"
	"symtrace/domain/segment"
	"symtrace/domain/stattest"
	"symtrace/internal"
	"symtrace/internal/analysis"
	intcorpus "symtrace/internal/corpus"
	"symtrace/internal/report"
	"symtrace/internal/testkit"
	"symtrace/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "symtrace",
		Short: "Segment LLM corpora on logical connectors and test length indicators across modalities",
	}

	rootCmd.AddCommand(
		newSegmentsCmd(),
		newIndicatorsCmd(),
		newKSCmd(),
		newFriedmanCmd(),
		newGenerateCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commonFlags are shared by every analysis subcommand.
type commonFlags struct {
	dictPath     string
	mode         string
	tokenization string
	lexiconPath  string
	threshold    int
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dictPath, "dictionary", "resources/connectors.json", "path to the connector dictionary JSON")
	cmd.Flags().StringVar(&f.mode, "mode", "connectors", "segmentation mode: connectors or connectors_and_punctuation")
	cmd.Flags().StringVar(&f.tokenization, "tokenization", "regex", "tokenization mode: regex or lexicon")
	cmd.Flags().StringVar(&f.lexiconPath, "lexicon", "resources/elisions.txt", "path to the elision lexicon for lexicon tokenization")
	cmd.Flags().IntVar(&f.threshold, "short-threshold", 10, "word count at or below which a segment counts as short")
}

func (f *commonFlags) load() (connector.Dictionary, segment.SegmentationMode, *analysis.Service, error) {
	dict, err := dictionary.LoadFile(f.dictPath)
	if err != nil {
		return nil, 0, nil, err
	}

	mode, err := segment.ParseSegmentationMode(f.mode)
	if err != nil {
		return nil, 0, nil, err
	}

	tokMode, err := segment.ParseTokenizationMode(f.tokenization)
	if err != nil {
		return nil, 0, nil, err
	}

	var tok ports.Tokenizer = tokenizer.NewRegexTokenizer()
	if tokMode == segment.TokenizeLexicon {
		tok, err = tokenizer.NewLexiconTokenizer(f.lexiconPath)
		if err != nil {
			return nil, 0, nil, err
		}
	}

	svc := analysis.NewService(tok, internal.DefaultLogger).WithShortThreshold(f.threshold)
	return dict, mode, svc, nil
}

func readCorpus(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}
	return data, nil
}

func newSegmentsCmd() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "segments [corpus-file]",
		Short: "Print each response's segments with marked boundaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, mode, _, err := flags.load()
			if err != nil {
				return err
			}

			data, err := readCorpus(args[0])
			if err != nil {
				return err
			}
			c, err := intcorpus.Parse(args[0], string(data))
			if err != nil {
				return err
			}

			for _, resp := range c.Responses {
				if !resp.HasText() {
					continue
				}
				fmt.Println(resp.Header)
				for _, seg := range segmentation.Split(resp.Text, dict, mode) {
					fmt.Printf("  %s\n", seg.Marked())
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newIndicatorsCmd() *cobra.Command {
	var flags commonFlags
	var variable, output string

	cmd := &cobra.Command{
		Use:   "indicators [corpus-file]",
		Short: "Compute per-modality indicator aggregates for one grouping variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, mode, svc, err := flags.load()
			if err != nil {
				return err
			}

			data, err := readCorpus(args[0])
			if err != nil {
				return err
			}
			c, err := intcorpus.Parse(args[0], string(data))
			if err != nil {
				return err
			}

			statsRows, ignored, err := svc.ModalityStatistics(c, analysis.Options{
				Variable: variable, Dictionary: dict, Mode: mode,
			})
			if err != nil {
				return err
			}

			if ignored > 0 {
				fmt.Fprintf(os.Stderr, "%d responses ignored\n", ignored)
			}

			table := export.ModalityStatsTable(statsRows)
			if output != "" {
				return export.WriteCSVFile(output, table)
			}
			return export.WriteCSV(os.Stdout, table)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&variable, "variable", "model", "grouping variable")
	cmd.Flags().StringVar(&output, "output", "", "write CSV to this file instead of stdout")
	return cmd
}

func newKSCmd() *cobra.Command {
	var flags commonFlags
	var variable, correction, output string
	var permutations int
	var seed int64

	cmd := &cobra.Command{
		Use:   "ks [corpus-file]",
		Short: "Run pairwise Kolmogorov-Smirnov tests on segment lengths across modalities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, mode, svc, err := flags.load()
			if err != nil {
				return err
			}

			corr, err := stattest.ParseCorrection(correction)
			if err != nil {
				return err
			}

			data, err := readCorpus(args[0])
			if err != nil {
				return err
			}
			c, err := intcorpus.Parse(args[0], string(data))
			if err != nil {
				return err
			}

			byModality, ignored, err := svc.LengthsByModality(c, analysis.Options{
				Variable: variable, Dictionary: dict, Mode: mode,
			})
			if err != nil {
				return err
			}
			if ignored > 0 {
				fmt.Fprintf(os.Stderr, "%d responses ignored\n", ignored)
			}

			pairs, err := battery.AllPairsKS(context.Background(), byModality, corr)
			if err != nil {
				return err
			}
			if len(pairs) == 0 {
				fmt.Println("fewer than two modalities with measurable segments; nothing to compare")
				return nil
			}

			if permutations > 0 {
				p, err := battery.KSPermutationPValue(context.Background(),
					byModality[pairs[0].ModalityA], byModality[pairs[0].ModalityB],
					battery.PermutationOptions{N: permutations, Seed: &seed})
				if err != nil {
					return err
				}
				if p != nil {
					fmt.Printf("permutation p for %s vs %s over %d draws: %.6f\n",
						pairs[0].ModalityA, pairs[0].ModalityB, permutations, *p)
				}
			}

			table := export.PairResultsTable("ks_pairs", pairs)
			if output != "" {
				return export.WriteCSVFile(output, table)
			}
			return export.WriteCSV(os.Stdout, table)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&variable, "variable", "model", "grouping variable")
	cmd.Flags().StringVar(&correction, "correction", "none", "p-value correction: none, bonferroni, holm or fdr_bh")
	cmd.Flags().IntVar(&permutations, "permutations", 0, "permutation draws for the top pair (0 disables)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "permutation seed")
	cmd.Flags().StringVar(&output, "output", "", "write CSV to this file instead of stdout")
	return cmd
}

func newFriedmanCmd() *cobra.Command {
	var flags commonFlags
	var condition, block, ind, correction, aggregation string

	cmd := &cobra.Command{
		Use:   "friedman [corpus-file]",
		Short: "Run the Friedman test over a blocks-by-conditions indicator table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, mode, svc, err := flags.load()
			if err != nil {
				return err
			}

			indParsed, err := indicator.ParseIndicator(ind)
			if err != nil {
				return err
			}
			corr, err := stattest.ParseCorrection(correction)
			if err != nil {
				return err
			}

			data, err := readCorpus(args[0])
			if err != nil {
				return err
			}
			c, err := intcorpus.Parse(args[0], string(data))
			if err != nil {
				return err
			}

			table, excluded, ignored, err := svc.BuildPairedTable(c, analysis.PairedOptions{
				ConditionVariable: condition,
				BlockVariable:     block,
				Dictionary:        dict,
				Mode:              mode,
				Indicator:         indParsed,
				Aggregation:       aggregation,
			})
			if err != nil {
				return err
			}

			if ignored > 0 {
				fmt.Fprintf(os.Stderr, "%d responses ignored\n", ignored)
			}
			if len(excluded) > 0 {
				fmt.Fprintf(os.Stderr, "excluded incomplete blocks: %v\n", excluded)
			}

			result := battery.Friedman(table)
			if result == nil {
				fmt.Println("the paired table needs at least two complete blocks and two conditions")
				return nil
			}

			fmt.Printf("Friedman chi-square = %.4f, p = %.4g (Kendall's W = %.3f) over %d blocks and %d conditions\n",
				result.ChiSquare, result.PValue, result.KendallW, result.Blocks, result.Conditions)

			posthoc := battery.WilcoxonPairwise(table, corr)
			if len(posthoc) > 0 {
				return export.WriteCSV(os.Stdout, export.PairedPairResultsTable(posthoc))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&condition, "condition", "model", "condition variable (table columns)")
	cmd.Flags().StringVar(&block, "block", "prompt", "block variable (table rows)")
	cmd.Flags().StringVar(&ind, "indicator", "lms", "indicator: lms, std_dev, cv, median or short_proportion")
	cmd.Flags().StringVar(&correction, "correction", "none", "p-value correction for the Wilcoxon post-hoc")
	cmd.Flags().StringVar(&aggregation, "aggregation", "mean", "cell aggregation: mean or median")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var seed int64
	var prompts int

	cmd := &cobra.Command{
		Use:   "generate [output-file]",
		Short: "Generate a deterministic synthetic IRaMuTeQ corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultCorpusConfig()
			cfg.Seed = seed
			cfg.Prompts = prompts

			gen := testkit.NewCorpusGenerator(cfg)
			return os.WriteFile(args[0], []byte(gen.Generate()), 0o644)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "generator seed")
	cmd.Flags().IntVar(&prompts, "prompts", 6, "number of prompts per model")
	return cmd
}

func newReportCmd() *cobra.Command {
	var flags commonFlags
	var variable, correction, ind, output string

	cmd := &cobra.Command{
		Use:   "report [corpus-file]",
		Short: "Render a full analysis report as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, mode, svc, err := flags.load()
			if err != nil {
				return err
			}
			corr, err := stattest.ParseCorrection(correction)
			if err != nil {
				return err
			}
			indParsed, err := indicator.ParseIndicator(ind)
			if err != nil {
				return err
			}

			data, err := readCorpus(args[0])
			if err != nil {
				return err
			}
			c, err := intcorpus.Parse(args[0], string(data))
			if err != nil {
				return err
			}

			opts := analysis.Options{Variable: variable, Dictionary: dict, Mode: mode}

			statsRows, ignored, err := svc.ModalityStatistics(c, opts)
			if err != nil {
				return err
			}
			byModality, _, err := svc.LengthsByModality(c, opts)
			if err != nil {
				return err
			}
			pairs, err := battery.AllPairsKS(context.Background(), byModality, corr)
			if err != nil {
				return err
			}

			// The omnibus tests run on per-response indicator values,
			// not on the raw length lists the KS battery consumes.
			byIndicator, _, err := svc.IndicatorByModality(c, opts, indParsed)
			if err != nil {
				return err
			}

			rep := &report.Report{
				CorpusName:    c.Name,
				Variable:      variable,
				Correction:    corr,
				Ignored:       ignored,
				ModalityStats: statsRows,
				KSPairs:       pairs,
				Anova:         battery.OneWayANOVA(byIndicator),
				Kruskal:       battery.KruskalWallis(byIndicator),
			}

			if output != "" {
				return os.WriteFile(output, []byte(rep.Markdown()), 0o644)
			}
			fmt.Print(rep.Markdown())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&variable, "variable", "model", "grouping variable")
	cmd.Flags().StringVar(&correction, "correction", "none", "p-value correction")
	cmd.Flags().StringVar(&ind, "indicator", "lms", "indicator the omnibus tests run on")
	cmd.Flags().StringVar(&output, "output", "", "write markdown to this file instead of stdout")
	return cmd
}
