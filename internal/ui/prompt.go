package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/pubspec-tools/pubassist/internal/core"
)

// Confirm prompts the user for yes/no confirmation.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	label := prompt
	if defaultYes {
		label += " [Y/n]"
	} else {
		label += " [y/N]"
	}

	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if defaultYes {
		p.Default = "y"
	}

	result, err := p.Run()
	if err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return defaultYes, nil
	}

	result = strings.ToLower(strings.TrimSpace(result))
	if result == "" {
		return defaultYes, nil
	}
	return result == "y" || result == "yes", nil
}

// SelectPackage prompts the user to select a package from search results.
func SelectPackage(packages []core.Package, prompt string) (*core.Package, error) {
	if len(packages) == 0 {
		return nil, fmt.Errorf("no packages to select from")
	}
	if len(packages) == 1 {
		return &packages[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Name | cyan }} {{ .Latest | green }}",
		Inactive: "  {{ .Name }} {{ .Latest | faint }}",
		Selected: "✓ {{ .Name | cyan }} {{ .Latest | green }}",
		Details: `
--------- Package ----------
{{ "Name:" | faint }}	{{ .Name }}
{{ "Version:" | faint }}	{{ .Latest }}
{{ "Likes:" | faint }}	{{ .Likes }}
{{ "Popularity:" | faint }}	{{ .Popularity }}%
{{ "Description:" | faint }}	{{ .Description }}`,
	}

	searcher := func(input string, index int) bool {
		name := strings.ToLower(packages[index].Name)
		return strings.Contains(name, strings.ToLower(input))
	}

	p := promptui.Select{
		Label:     prompt,
		Items:     packages,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	index, _, err := p.Run()
	if err != nil {
		return nil, err
	}
	return &packages[index], nil
}

// Select prompts the user to pick one of the given options.
func Select(prompt string, options []string) (int, string, error) {
	if len(options) == 0 {
		return 0, "", fmt.Errorf("no options available")
	}
	if len(options) == 1 {
		return 0, options[0], nil
	}

	p := promptui.Select{
		Label: prompt,
		Items: options,
		Size:  10,
	}
	return p.Run()
}

// Input prompts the user for text input.
func Input(prompt string, defaultValue string) (string, error) {
	p := promptui.Prompt{
		Label:   prompt,
		Default: defaultValue,
	}

	result, err := p.Run()
	if err != nil {
		return defaultValue, err
	}
	return result, nil
}

// ChooseConstraint asks how a new dependency should be pinned, returning the
// version string to write. The caret form is the default and recommended
// choice; the manifest writer coerces whatever comes back to caret anyway.
func ChooseConstraint(latest string) (string, error) {
	options := []string{
		fmt.Sprintf("^%s (caret, recommended)", latest),
		fmt.Sprintf("%s (exact)", latest),
		"custom",
	}

	idx, _, err := Select("Version constraint", options)
	if err != nil {
		return "", err
	}

	switch idx {
	case 0:
		return "^" + latest, nil
	case 1:
		return latest, nil
	default:
		return Input("Constraint", "^"+latest)
	}
}
