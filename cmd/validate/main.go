package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/echo-engine/pkg/choice"
	"github.com/jwebster45206/echo-engine/pkg/interaction"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scenario.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	if err := validateFile(os.Args[1], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Scenario file is valid!")
}

// knownEvents are the progress events the engine can emit.
var knownEvents = map[string]bool{
	interaction.EventWitnessesInterviewed: true,
	interaction.EventEvidenceObtained:     true,
	choice.EventReportFiled:               true,
	choice.EventEvidenceAnalysed:          true,
	choice.EventEvidenceDestroyed:         true,
	choice.EventMayorConfronted:           true,
}

func validateFile(filename string, out io.Writer) error {
	fmt.Fprintf(out, "Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("scenario file must have .yaml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ext)
	if !isValidScenarioFilename(nameWithoutExt) {
		return fmt.Errorf("scenario filename '%s' must be lowercase snake_case (e.g., my_case.yaml, not my-case.yaml or MyCase.yaml)", baseName)
	}

	s, err := scenario.Load(filename)
	if err != nil {
		return err
	}

	var errs []string
	for ctx := range s.Prompts {
		if !choice.Handles(ctx) {
			errs = append(errs, fmt.Sprintf("  - prompt '%s' has no resolution rule", ctx))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(errs, "\n"))
	}

	for _, w := range warnings(s) {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}

// warnings reports things that load fine but can never happen in play.
func warnings(s *scenario.Scenario) []string {
	var out []string
	for _, q := range s.Quests {
		if q.StartsOn != "" && !knownEvents[q.StartsOn] {
			out = append(out, fmt.Sprintf("quest '%s' starts on '%s', which nothing emits", q.ID, q.StartsOn))
		}
		for _, o := range q.Objectives {
			if o.On != "" && !knownEvents[o.On] {
				out = append(out, fmt.Sprintf("objective '%s.%s' completes on '%s', which nothing emits", q.ID, o.Key, o.On))
			}
		}
	}
	if len(s.Witnesses()) == 0 {
		out = append(out, "no interactable witnesses, so the report can be filed at once")
	}
	return out
}

func isValidScenarioFilename(name string) bool {
	// Allow 'x.' prefix for experimental scenarios
	name = strings.TrimPrefix(name, "x.")
	return scenario.IsValidID(name)
}
