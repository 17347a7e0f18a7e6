package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fieldgate/internal/engine"
)

// CheckResult holds the outcome of a one-shot validation run.
type CheckResult struct {
	Valid         bool           `json:"valid"`
	ValidatedData any            `json:"validatedData,omitempty"`
	Errors        []engine.Entry `json:"errors,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a request document once and exit",
		Long: `Run the validation pipeline against a request document from a file.

The document must be a .json or .cue file with the request shape:
schema, rules, data. Exit code 1 means the document failed validation;
exit code 2 means the document could not be loaded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	req, err := LoadRequest(path)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			_ = formatter.Error(exitErr.ErrCode, exitErr.Error())
			return err
		}
		_ = formatter.Error(ErrCodeBadFormat, err.Error())
		return WrapExitError(ExitCommandError, ErrCodeBadFormat, "load request", err)
	}

	formatter.VerboseLog("Loaded request document from %s", path)

	res, err := engine.New().Validate(req)
	if err != nil {
		_ = formatter.Error(ErrCodeRejected, err.Error())
		return WrapExitError(ExitCommandError, ErrCodeRejected, "request rejected", err)
	}

	if !res.Valid() {
		if opts.Format == "json" {
			_ = formatter.Success(CheckResult{Valid: false, Errors: res.Errors})
		} else {
			fmt.Fprintf(formatter.Writer, "invalid: %d error(s)\n", len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintln(formatter.Writer, "  "+formatEntry(e))
			}
		}
		return &ExitError{Code: ExitFailure, ErrCode: ErrCodeValidation, Message: "validation failed"}
	}

	if opts.Format == "json" {
		return formatter.Success(CheckResult{Valid: true, ValidatedData: res.ValidatedData})
	}
	fmt.Fprintln(formatter.Writer, "valid")
	return nil
}

func formatEntry(e engine.Entry) string {
	where := e.Field
	if e.Rule != "" {
		if where != "" {
			where += "/"
		}
		where += e.Rule
	}
	if where == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", where, e.Code, e.Message)
}
