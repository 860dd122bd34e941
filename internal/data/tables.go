package data

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jg18/fs2open.github.com/internal/model"
)

//go:embed tables/*.yaml
var embeddedTables embed.FS

const (
	embeddedAIClasses   = "tables/ai_classes.yaml"
	embeddedAIProfiles  = "tables/ai_profiles.yaml"
	embeddedShipClasses = "tables/ship_classes.yaml"
)

var (
	// ErrUnknownClass is returned for lookups of AI or ship classes that do not exist.
	ErrUnknownClass = errors.New("data: unknown class")
	// ErrUnknownProfile is returned for AI profile lookups that fail.
	ErrUnknownProfile = errors.New("data: unknown ai profile")
)

// Tables holds every static table the engine reads at mission start.
type Tables struct {
	aiClasses   []*AIClass
	profiles    map[string]*AIProfile
	shipClasses map[string]*model.ShipClass
}

type aiClassFile struct {
	Classes []*AIClass `yaml:"ai_classes"`
}

type aiProfileFile struct {
	Profiles []*AIProfile `yaml:"ai_profiles"`
}

type shipClassFile struct {
	ShipClasses []*shipClassDef `yaml:"ship_classes"`
}

// LoadTables reads the three tables. An empty path selects the embedded default.
func LoadTables(aiClassesPath, aiProfilesPath, shipClassesPath string) (*Tables, error) {
	t := &Tables{
		profiles:    make(map[string]*AIProfile),
		shipClasses: make(map[string]*model.ShipClass),
	}

	var classes aiClassFile
	if err := readTable(aiClassesPath, embeddedAIClasses, &classes); err != nil {
		return nil, err
	}
	for i, c := range classes.Classes {
		c.Index = i
	}
	t.aiClasses = classes.Classes

	var profiles aiProfileFile
	if err := readTable(aiProfilesPath, embeddedAIProfiles, &profiles); err != nil {
		return nil, err
	}
	for _, p := range profiles.Profiles {
		for _, name := range p.FlagNames {
			f, err := ParseProfileFlag(name)
			if err != nil {
				return nil, fmt.Errorf("ai profile %q: %w", p.Name, err)
			}
			p.Flags |= f
		}
		t.profiles[strings.ToLower(p.Name)] = p
	}

	var ships shipClassFile
	if err := readTable(shipClassesPath, embeddedShipClasses, &ships); err != nil {
		return nil, err
	}
	for _, def := range ships.ShipClasses {
		sc, err := convertShipClass(def)
		if err != nil {
			return nil, err
		}
		t.shipClasses[strings.ToLower(sc.Name)] = sc
	}

	slog.Info("loaded data tables",
		"ai_classes", len(t.aiClasses),
		"ai_profiles", len(t.profiles),
		"ship_classes", len(t.shipClasses))

	return t, nil
}

// LoadDefaultTables reads the embedded tables only.
func LoadDefaultTables() (*Tables, error) {
	return LoadTables("", "", "")
}

func readTable(path, embedded string, out any) error {
	var (
		raw []byte
		err error
	)
	if path == "" {
		path = embedded
		raw, err = embeddedTables.ReadFile(embedded)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading table %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing table %s: %w", path, err)
	}
	return nil
}

// AIClass returns an AI class by name (case-insensitive).
func (t *Tables) AIClass(name string) (*AIClass, error) {
	for _, c := range t.aiClasses {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("ai class %q: %w", name, ErrUnknownClass)
}

// AIClassCount returns the number of AI classes; autoscaling uses it.
func (t *Tables) AIClassCount() int {
	return len(t.aiClasses)
}

// Profile returns an AI profile by name.
func (t *Tables) Profile(name string) (*AIProfile, error) {
	p, ok := t.profiles[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ShipClass returns a ship class by name.
func (t *Tables) ShipClass(name string) (*model.ShipClass, error) {
	sc, ok := t.shipClasses[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("ship class %q: %w", name, ErrUnknownClass)
	}
	return sc, nil
}

// ShipClassNames lists loaded ship classes.
func (t *Tables) ShipClassNames() []string {
	names := make([]string, 0, len(t.shipClasses))
	for _, sc := range t.shipClasses {
		names = append(names, sc.Name)
	}
	return names
}
