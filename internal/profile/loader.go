package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of a profile yaml file.
type Loader struct {
	filePath string
}

// NewLoader creates a new profile loader.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads the profile file and overlays it onto the defaults, so a
// file only needs to name the selectors that changed. An empty path
// returns the defaults unchanged.
func (l *Loader) Load() (Profile, error) {
	p := Default()
	if l.filePath == "" {
		return p, nil
	}

	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile file: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile yaml: %w", err)
	}

	if err := p.validate(); err != nil {
		return Profile{}, err
	}

	return p, nil
}

func (p Profile) validate() error {
	required := map[string]string{
		"item_selector":      p.ItemSelector,
		"item_testid_prefix": p.ItemTestIDPrefix,
		"action_row":         p.ActionRow,
		"options_button":     p.OptionsButton,
		"embed_menu_entry":   p.EmbedMenuEntry,
		"embed_input":        p.EmbedInput,
		"profile_link":       p.ProfileLink,
		"embed_host":         p.EmbedHost,
	}
	for name, val := range required {
		if val == "" {
			return fmt.Errorf("profile is missing required field %s", name)
		}
	}
	return nil
}
