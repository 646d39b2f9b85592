package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guidekit/guidekit/internal/tutorial"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|dir>",
	Short: "Check tutorial documents for errors",
	Long:  `Parses one tutorial document, or every document in a directory, and reports all missing fields and invalid enum values per step.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed, err := runValidate(args[0])
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d document(s) invalid", failed)
		}
		fmt.Println("All tutorial documents are valid.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(target string) (failed int, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return 0, err
	}

	var paths []string
	if info.IsDir() {
		entries, err := os.ReadDir(target)
		if err != nil {
			return 0, err
		}
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".json", ".yaml", ".yml":
				paths = append(paths, filepath.Join(target, e.Name()))
			}
		}
		if len(paths) == 0 {
			return 0, fmt.Errorf("no tutorial documents in %s", target)
		}
	} else {
		paths = []string{target}
	}

	for _, path := range paths {
		t, err := tutorial.ParseFile(path)
		if err != nil {
			fmt.Printf("%s: parse error: %v\n", path, err)
			failed++
			continue
		}
		if err := tutorial.Validate(t); err != nil {
			var verr *tutorial.ValidationError
			if errors.As(err, &verr) {
				fmt.Printf("%s: %d issue(s)\n", path, len(verr.Issues))
				for _, issue := range verr.Issues {
					fmt.Printf("  - %s\n", issue.Error())
				}
			} else {
				fmt.Printf("%s: %v\n", path, err)
			}
			failed++
			continue
		}
		fmt.Printf("%s: ok (%d steps, %q)\n", path, t.TotalSteps(), strings.TrimSpace(t.Title))
	}
	return failed, nil
}
