package formatter

import (
	"fmt"
	"strings"
)

// Preset is a named template.
type Preset struct {
	Name        string
	Template    string
	Description string
}

// PresetRegistry manages template presets.
type PresetRegistry interface {
	Get(name string) (*Preset, error)
	List() []Preset
	Register(preset Preset) error
}

type presetRegistry struct {
	presets map[string]Preset
	order   []string
}

// NewPresetRegistry creates a registry holding the default presets.
func NewPresetRegistry() PresetRegistry {
	registry := &presetRegistry{presets: make(map[string]Preset)}
	for _, p := range []Preset{
		{
			Name:        "pairs",
			Template:    "{{name}}={{value}}",
			Description: "name=value, one per line",
		},
		{
			Name:        "env",
			Template:    "FLASHPREFS_SETTING_{{env-name}}={{value}}",
			Description: "Shell environment assignments",
		},
		{
			Name:        "checklist",
			Template:    "{{checkbox}} {{label}}",
			Description: "Checkbox and localized label",
		},
		{
			Name:        "json",
			Template:    `{"name":"{{name}}","value":{{value}},"default":{{default}},"dangerous":{{dangerous}}}`,
			Description: "One JSON object per line",
		},
		{
			Name:        "modified",
			Template:    "{{name}} {{on-off}} (modified: {{modified}})",
			Description: "Value and whether it differs from the default",
		},
	} {
		_ = registry.Register(p)
	}
	return registry
}

// Get returns a preset by name.
func (pr *presetRegistry) Get(name string) (*Preset, error) {
	preset, ok := pr.presets[name]
	if !ok {
		return nil, fmt.Errorf("preset not found: %s", name)
	}
	return &preset, nil
}

// List returns all presets in registration order.
func (pr *presetRegistry) List() []Preset {
	result := make([]Preset, 0, len(pr.order))
	for _, name := range pr.order {
		result = append(result, pr.presets[name])
	}
	return result
}

// Register adds a new preset or overwrites an existing one.
func (pr *presetRegistry) Register(preset Preset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if preset.Template == "" {
		return fmt.Errorf("preset template cannot be empty")
	}
	if _, exists := pr.presets[preset.Name]; !exists {
		pr.order = append(pr.order, preset.Name)
	}
	pr.presets[preset.Name] = preset
	return nil
}

// ResolveTemplate returns the preset template named format, or format itself
// when it contains a variable.
func ResolveTemplate(registry PresetRegistry, format string) (string, error) {
	if strings.Contains(format, "{{") {
		return format, nil
	}
	preset, err := registry.Get(format)
	if err != nil {
		return "", err
	}
	return preset.Template, nil
}
