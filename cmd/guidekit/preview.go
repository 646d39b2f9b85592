package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/guidekit/guidekit/internal/tutorial"
	"github.com/guidekit/guidekit/pkg/domain"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a tutorial's steps in the terminal",
	Long:  `Renders every step of a tutorial document as styled markdown on stdout, an authoring aid for checking instructions and requirements without a running host.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(args[0])
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(path string) error {
	t, err := tutorial.ParseFile(path)
	if err != nil {
		return err
	}
	if err := tutorial.Validate(t); err != nil {
		return err
	}

	width := 80
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	out, err := renderer.Render(previewMarkdown(t))
	if err != nil {
		return fmt.Errorf("render tutorial: %w", err)
	}
	fmt.Print(out)

	p := termenv.ColorProfile()
	footer := termenv.String(fmt.Sprintf("%d steps · %s", t.TotalSteps(), t.TutorialID)).
		Foreground(p.Color("#818cf8"))
	fmt.Println(footer)
	return nil
}

func previewMarkdown(t *domain.Tutorial) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", t.Description)
	}
	for i, step := range t.Steps {
		fmt.Fprintf(&b, "## Step %d: %s\n\n", i+1, step.Title)
		fmt.Fprintf(&b, "%s\n\n", step.Instruction)
		if step.DetailedText != "" {
			fmt.Fprintf(&b, "%s\n\n", step.DetailedText)
		}
		if !step.Requires.IsZero() {
			var parts []string
			if step.Requires.Workspace != "" {
				parts = append(parts, "workspace "+step.Requires.Workspace)
			}
			if step.Requires.Environment != "" {
				parts = append(parts, "environment "+step.Requires.Environment)
			}
			if step.Requires.HasActiveDocument {
				parts = append(parts, "an open document")
			}
			if step.Requires.HasActiveSketch {
				parts = append(parts, "an active sketch")
			}
			fmt.Fprintf(&b, "> Requires %s\n\n", strings.Join(parts, ", "))
		}
		if len(step.QCChecks) > 0 {
			b.WriteString("Checklist:\n\n")
			for _, qc := range step.QCChecks {
				label := qc.Text
				if label == "" {
					label = qc.Type
				}
				fmt.Fprintf(&b, "- [ ] %s\n", label)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
