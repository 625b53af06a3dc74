package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/synthdoc"
	"github.com/reoring/synthdoc/i18n"
)

var validateLang string

var validateCmd = &cobra.Command{
	Use:   "validate [schema] [document]",
	Short: "Validate a JSON document against a schema",
	Long: `Checks an existing document against a schema and prints every violation
as "pointer<TAB>code<TAB>message". Exits with status 2 when the document
does not conform.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateLang, "lang", "en", "message language (en, ja)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	i18n.SetLanguage(validateLang)

	root, err := loadSchema(cmd, args[0])
	if err != nil {
		return err
	}
	doc, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	report, err := synthdoc.Validate(root, doc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if report.OK() {
		fmt.Fprintln(out, "ok")
		return nil
	}
	for _, is := range report {
		fmt.Fprintf(out, "%s\t%s\t%s\n", is.Path, is.Code, is.Message)
	}
	logger.Debug("validation failed", zapIssues(report)...)
	return &exitError{code: 2, err: fmt.Errorf("%s: %d violation(s)", args[1], len(report))}
}
