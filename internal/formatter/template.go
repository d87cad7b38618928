// Package formatter renders settings through {{variable}} templates and
// named presets, for scripting around `flashprefs settings show`.
package formatter

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateEngine provides template parsing and variable substitution.
type TemplateEngine interface {
	// Parse returns the variables found in the template, without duplicates.
	Parse(template string) ([]string, error)

	// Substitute replaces variables in the template with values from ctx.
	Substitute(template string, ctx VariableContext) (string, error)
}

type templateEngine struct {
	variablePattern *regexp.Regexp
	resolver        VariableResolver
}

// NewTemplateEngine creates a new template engine instance.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{
		variablePattern: regexp.MustCompile(`\{\{([a-z0-9-]+)\}\}`),
		resolver:        NewVariableResolver(),
	}
}

// Parse identifies all variables in a template string using {{variable-name}} syntax.
func (te *templateEngine) Parse(template string) ([]string, error) {
	if err := validateTemplate(template); err != nil {
		return nil, err
	}
	matches := te.variablePattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool)
	variables := []string{}
	for _, match := range matches {
		if !seen[match[1]] {
			variables = append(variables, match[1])
			seen[match[1]] = true
		}
	}
	return variables, nil
}

// Substitute replaces all variables in the template with values from ctx.
// An unknown variable is an error.
func (te *templateEngine) Substitute(template string, ctx VariableContext) (string, error) {
	if err := validateTemplate(template); err != nil {
		return "", err
	}
	var firstErr error
	out := te.variablePattern.ReplaceAllStringFunc(template, func(m string) string {
		name := te.variablePattern.FindStringSubmatch(m)[1]
		value, err := te.resolver.Resolve(name, ctx)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// validateTemplate checks for unbalanced {{ }} delimiters.
func validateTemplate(template string) error {
	openCount := strings.Count(template, "{{")
	closeCount := strings.Count(template, "}}")
	if openCount != closeCount {
		return fmt.Errorf("mismatched variable delimiters: %d opens, %d closes", openCount, closeCount)
	}
	return nil
}
