package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danobi/prr/internal/app"
	"github.com/danobi/prr/internal/output"
)

var (
	flagGetForce      bool
	flagGetOpen       bool
	flagSubmitDebug   bool
	flagStatusNoTitle bool
	flagStatusFormat  string
	flagRemoveForce   bool
	flagRemoveSubmit  bool
)

var getCmd = &cobra.Command{
	Use:   "get <pr>",
	Short: "Download a pull request into a review file",
	Long: `Download a pull request into a review file and print its path.

<pr> is owner/repo/number, a pull request URL, or a bare number resolved
against the .prr.toml repository or the origin remote.`,
	Args: cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, cfg, true)
		if err != nil {
			return err
		}
		ref, err := resolve(cmd, a, args[0])
		if err != nil {
			return err
		}
		r, err := a.Get(cmd.Context(), ref, flagGetForce)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Path())
		if flagGetOpen {
			return a.Edit(cmd.Context(), ref)
		}
		return nil
	}),
}

var editCmd = &cobra.Command{
	Use:   "edit <pr>",
	Short: "Open an existing review file in your editor",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, args []string) error {
		a, ref, err := offline(cmd, args[0])
		if err != nil {
			return err
		}
		return a.Edit(cmd.Context(), ref)
	}),
}

var submitCmd = &cobra.Command{
	Use:   "submit <pr>",
	Short: "Submit a review to GitHub",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, cfg, !flagSubmitDebug)
		if err != nil {
			return err
		}
		ref, err := resolve(cmd, a, args[0])
		if err != nil {
			return err
		}
		return a.Submit(cmd.Context(), ref, flagSubmitDebug)
	}),
}

var applyCmd = &cobra.Command{
	Use:   "apply <pr>",
	Short: "Apply a pull request's diff to the current work tree",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(cmd *cobra.Command, args []string) error {
		a, ref, err := offline(cmd, args[0])
		if err != nil {
			return err
		}
		return a.Apply(cmd.Context(), ref)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List reviews and their status",
	Args:  cobra.NoArgs,
	RunE: run(func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, cfg, false)
		if err != nil {
			return err
		}
		opts := output.Options{NoTitles: flagStatusNoTitle, NoColor: color.NoColor}
		err = a.Status(cmd.OutOrStdout(), flagStatusFormat, opts)
		if err != nil && errors.Is(err, output.ErrUnsupportedFormat) {
			return usageError{err}
		}
		return err
	}),
}

var removeCmd = &cobra.Command{
	Use:   "remove [pr...]",
	Short: "Delete review files",
	RunE: run(func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !flagRemoveSubmit {
			return usageError{errors.New("remove needs at least one PR, or --submitted")}
		}
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		a, err := newApp(cmd, cfg, false)
		if err != nil {
			return err
		}
		refs := make([]app.PRRef, 0, len(args))
		for _, s := range args {
			ref, err := resolve(cmd, a, s)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
		}
		return a.Remove(refs, flagRemoveForce, flagRemoveSubmit)
	}),
}

// offline loads config and resolves one PR for commands that never touch
// GitHub.
func offline(cmd *cobra.Command, s string) (*app.App, app.PRRef, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, app.PRRef{}, err
	}
	a, err := newApp(cmd, cfg, false)
	if err != nil {
		return nil, app.PRRef{}, err
	}
	ref, err := resolve(cmd, a, s)
	return a, ref, err
}

func init() {
	getCmd.Flags().BoolVarP(&flagGetForce, "force", "f", false, "Overwrite a review with unsubmitted comments")
	getCmd.Flags().BoolVarP(&flagGetOpen, "open", "o", false, "Open the review file in your editor")

	submitCmd.Flags().BoolVarP(&flagSubmitDebug, "debug", "d", false, "Print the request instead of sending it")

	statusCmd.Flags().BoolVarP(&flagStatusNoTitle, "no-titles", "n", false, "Omit column titles")
	statusCmd.Flags().StringVar(&flagStatusFormat, "format", "text", "Output format: text, json, markdown")

	removeCmd.Flags().BoolVarP(&flagRemoveForce, "force", "f", false, "Remove reviews with unsubmitted comments")
	removeCmd.Flags().BoolVarP(&flagRemoveSubmit, "submitted", "s", false, "Also remove every submitted review")
}
