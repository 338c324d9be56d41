package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/skos-go/skos"
)

func languagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "languages <vocabulary>",
		Short:   "List the label languages of a vocabulary",
		Example: `  skosvocab languages yso.ttl`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vocab, err := skos.Open(args[0], a.vocabularyOptions()...)
			if err != nil {
				return err
			}
			for _, lang := range vocab.Languages() {
				fmt.Fprintln(cmd.OutOrStdout(), lang)
			}
			return nil
		},
	}
}

func subjectsCmd(a *app) *cobra.Command {
	var (
		lang   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "subjects <vocabulary>",
		Short: "List the subjects of a vocabulary",
		Long: `List one line per non-deprecated concept. The tsv output shows the URI,
the label in the chosen language and the notation; json output writes one
object per subject with labels in every vocabulary language.`,
		Example: `  skosvocab subjects yso.ttl --lang fi
  skosvocab subjects yso.dump.gz --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang == "" {
				lang = a.cfg.Output.Language
			}
			vocab, err := skos.Open(args[0], a.vocabularyOptions()...)
			if err != nil {
				return err
			}
			switch output {
			case "tsv":
				return writeSubjectsTSV(cmd, vocab, lang)
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				for s := range vocab.Subjects() {
					if err := enc.Encode(s); err != nil {
						return err
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want tsv or json)", output)
			}
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "label language (defaults to output.language from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "tsv", "output format (tsv, json)")
	return cmd
}

func writeSubjectsTSV(cmd *cobra.Command, vocab *skos.Vocabulary, lang string) error {
	languages := vocab.Languages()
	if len(languages) > 0 && !slices.Contains(languages, lang) {
		return fmt.Errorf("language %q not in vocabulary (have %s)", lang, strings.Join(languages, ", "))
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for s := range vocab.Subjects() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.URI, s.Labels[lang], s.Notation)
	}
	return w.Flush()
}

func saveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <vocabulary> <dest.ttl>",
		Short: "Save a vocabulary as Turtle with a cache artifact",
		Long: `Write the vocabulary as Turtle to the destination and refresh the
.dump.gz cache artifact next to it. Turtle sources are copied unchanged.`,
		Example: `  skosvocab save yso.rdf data/yso.ttl`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vocab, err := skos.Open(args[0], a.vocabularyOptions()...)
			if err != nil {
				return err
			}
			if err := vocab.SaveSKOS(args[1]); err != nil {
				return err
			}
			a.logger.Info("vocabulary saved", "path", args[1], "cache", skos.CachePath(args[1]))
			return nil
		},
	}
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <subjects.csv> <dest.ttl>",
		Short: "Convert a subject CSV file into a SKOS vocabulary",
		Long: `Read subjects from a CSV file with a header row naming the columns
uri, label_<lang> (one per language) and an optional notation, and write
them as SKOS Turtle plus a cache artifact.`,
		Example: `  skosvocab import subjects.csv vocab.ttl`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := readSubjectsCSVFile(args[0])
			if err != nil {
				return err
			}
			if err := skos.SerializeSubjects(subjects.Subjects(), args[1], skos.WithLogger(a.logger)); err != nil {
				return err
			}
			a.logger.Info("subjects imported",
				"source", args[0],
				"path", args[1],
				"subjects", len(subjects),
				"languages", subjects.Languages())
			return nil
		},
	}
}
