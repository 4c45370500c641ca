package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wallacegibbon/skillclaw/internal/app"
	"github.com/wallacegibbon/skillclaw/internal/skills"
	"github.com/wallacegibbon/skillclaw/internal/terminal"
)

func newSkillCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Inspect and author skills",
	}
	cmd.AddCommand(newSkillListCommand(st), newSkillValidateCommand(st), newSkillInitCommand(st))
	return cmd
}

func newSkillListCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the skills in the skills directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := app.LoadCatalog(cmd.Context(), st.settings)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if catalog.IsEmpty() {
				fmt.Fprintf(out, "No skills found in %s\n", st.settings.SkillsDir)
				return nil
			}
			for _, def := range catalog.Skills() {
				fmt.Fprintf(out, "%s: %s\n", terminal.Yellow(def.Name()), def.Metadata.Description)
			}
			return nil
		},
	}
}

func newSkillValidateCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check every skill in a directory and report all problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := st.settings.SkillsDir
			if len(args) == 1 {
				dir = args[0]
			}
			if err := skills.ValidateDir(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", terminal.Green("All skills in "+dir+" are valid."))
			return nil
		},
	}
}

func newSkillInitCommand(st *state) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create a new skill skeleton in the skills directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := initSkill(st.settings.SkillsDir, args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "What the skill does and when to use it")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func initSkill(root, name, description string) (string, error) {
	dir := filepath.Join(root, name)
	path := filepath.Join(dir, skills.SkillFileName)

	body := "\n# " + name + "\n\nDescribe the steps to follow when this skill is active.\n"
	content, err := skills.Render(skills.Metadata{Name: name, Description: description}, body)
	if err != nil {
		return "", err
	}
	// refuse to write a skill the loader would reject
	if _, err := skills.Parse(path, name, content); err != nil {
		return "", err
	}

	if _, err := os.Stat(dir); err == nil {
		return "", errors.Errorf("%s already exists", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", dir)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}
