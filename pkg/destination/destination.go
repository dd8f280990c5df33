package destination

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Destination is a remote endpoint that accepts a reference number together with a shared key
type Destination struct {
	Name string `yaml:"name" json:"name"` // Human readable, unique name shown to the operator
	URL  string `yaml:"url" json:"url"`   // Endpoint receiving the GET request
	Key  string `yaml:"key" json:"-"`     // Shared secret sent alongside the reference
}

// Destinations is the immutable, ordered set of configured destinations
type Destinations struct {
	list  []Destination
	index map[string]int
}

// file is the on-disk layout of a destinations file
type file struct {
	Destinations []Destination `yaml:"destinations"`
}

// New validates the given destinations and returns them as an immutable set
func New(list []Destination) (*Destinations, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("at least one destination must be configured")
	}

	d := &Destinations{
		list:  make([]Destination, 0, len(list)),
		index: make(map[string]int, len(list)),
	}

	for i, dest := range list {
		dest.Name = strings.TrimSpace(dest.Name)
		dest.URL = strings.TrimSpace(dest.URL)

		if dest.Name == "" {
			return nil, fmt.Errorf("destination %d: name cannot be empty", i)
		}
		if _, exists := d.index[dest.Name]; exists {
			return nil, fmt.Errorf("destination %q is configured more than once", dest.Name)
		}
		if err := validateURL(dest.URL); err != nil {
			return nil, fmt.Errorf("destination %q: %w", dest.Name, err)
		}

		d.index[dest.Name] = len(d.list)
		d.list = append(d.list, dest)
	}

	return d, nil
}

// Parse reads destinations from YAML
func Parse(data []byte) (*Destinations, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse destinations: %w", err)
	}
	return New(f.Destinations)
}

// Load reads destinations from a YAML file
func Load(path string) (*Destinations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read destinations file %s: %w", path, err)
	}
	return Parse(data)
}

// Names returns the destination names in configuration order
func (d *Destinations) Names() []string {
	names := make([]string, len(d.list))
	for i, dest := range d.list {
		names[i] = dest.Name
	}
	return names
}

// Get looks up a destination by name
func (d *Destinations) Get(name string) (Destination, bool) {
	i, ok := d.index[name]
	if !ok {
		return Destination{}, false
	}
	return d.list[i], true
}

// At returns the destination at position i in configuration order
func (d *Destinations) At(i int) (Destination, bool) {
	if i < 0 || i >= len(d.list) {
		return Destination{}, false
	}
	return d.list[i], true
}

// Len returns the number of configured destinations
func (d *Destinations) Len() int {
	return len(d.list)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host, got %q", raw)
	}
	return nil
}
