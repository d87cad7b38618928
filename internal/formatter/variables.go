package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VariableContext is one setting as seen by a template.
type VariableContext struct {
	Name      string
	Label     string
	Value     bool
	Default   bool
	Dangerous bool
	Guarded   bool
}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	Resolve(varName string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a new variable resolver instance.
func NewVariableResolver() VariableResolver {
	return &variableResolver{}
}

var variables = map[string]func(VariableContext) string{
	"name":      func(c VariableContext) string { return c.Name },
	"env-name":  func(c VariableContext) string { return envName(c.Name) },
	"label":     func(c VariableContext) string { return c.Label },
	"value":     func(c VariableContext) string { return strconv.FormatBool(c.Value) },
	"on-off":    func(c VariableContext) string { return onOff(c.Value) },
	"checkbox":  func(c VariableContext) string { return checkbox(c.Value) },
	"default":   func(c VariableContext) string { return strconv.FormatBool(c.Default) },
	"modified":  func(c VariableContext) string { return strconv.FormatBool(c.Value != c.Default) },
	"dangerous": func(c VariableContext) string { return strconv.FormatBool(c.Dangerous) },
	"guarded":   func(c VariableContext) string { return strconv.FormatBool(c.Guarded) },
}

// Resolve returns the value of varName for ctx.
func (vr *variableResolver) Resolve(varName string, ctx VariableContext) (string, error) {
	fn, ok := variables[varName]
	if !ok {
		return "", fmt.Errorf("unknown variable: %s (available: %s)", varName, strings.Join(Variables(), ", "))
	}
	return fn(ctx), nil
}

// Variables lists the supported variable names, sorted.
func Variables() []string {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func checkbox(b bool) string {
	if b {
		return "[x]"
	}
	return "[ ]"
}

// envName turns "validateWriteOnSuccess" into "VALIDATE_WRITE_ON_SUCCESS".
func envName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
