package catalog

import "slices"

// Recipe is an immutable catalog entry describing how to acquire, invoke,
// and configure a server.
type Recipe struct {
	// ID is the table key. The optional id field in the file must match it.
	ID            string        `toml:"id,omitempty" yaml:"id,omitempty" json:"id"`
	Name          string        `toml:"name" yaml:"name" json:"name"`
	Description   string        `toml:"description" yaml:"description" json:"description"`
	Author        string        `toml:"author" yaml:"author" json:"author"`
	License       string        `toml:"license,omitempty" yaml:"license,omitempty" json:"license,omitempty"`
	Categories    []string      `toml:"categories" yaml:"categories" json:"categories"`
	Capabilities  []string      `toml:"capabilities,omitempty" yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Platforms     []string      `toml:"platforms" yaml:"platforms" json:"platforms"`
	Repository    string        `toml:"repository,omitempty" yaml:"repository,omitempty" json:"repository,omitempty"`
	Documentation string        `toml:"documentation,omitempty" yaml:"documentation,omitempty" json:"documentation,omitempty"`
	Versions      Versions      `toml:"versions" yaml:"versions" json:"versions"`
	Installation  Installation  `toml:"installation" yaml:"installation" json:"installation"`
	Configuration Configuration `toml:"configuration,omitempty" yaml:"configuration,omitempty" json:"configuration"`
}

// Versions lists the semantic versions a recipe is known to work with.
type Versions struct {
	Latest    string   `toml:"latest" yaml:"latest" json:"latest"`
	Supported []string `toml:"supported,omitempty" yaml:"supported,omitempty" json:"supported,omitempty"`
}

// Installation tells an installer what to fetch.
type Installation struct {
	Method               Method   `toml:"method" yaml:"method" json:"method"`
	Package              string   `toml:"package" yaml:"package" json:"package"`
	SystemDependencies   []string `toml:"system_dependencies,omitempty" yaml:"system_dependencies,omitempty" json:"system_dependencies,omitempty"`
	LanguageDependencies []string `toml:"language_dependencies,omitempty" yaml:"language_dependencies,omitempty" json:"language_dependencies,omitempty"`
}

// Configuration declares the parameters bound into the launch command.
type Configuration struct {
	RequiredParams []string `toml:"required_params,omitempty" yaml:"required_params,omitempty" json:"required_params,omitempty"`
	OptionalParams []string `toml:"optional_params,omitempty" yaml:"optional_params,omitempty" json:"optional_params,omitempty"`
	TemplateName   string   `toml:"template_name,omitempty" yaml:"template_name,omitempty" json:"template_name,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate catalog state.
func (r Recipe) Clone() Recipe {
	c := r
	c.Categories = slices.Clone(r.Categories)
	c.Capabilities = slices.Clone(r.Capabilities)
	c.Platforms = slices.Clone(r.Platforms)
	c.Versions.Supported = slices.Clone(r.Versions.Supported)
	c.Installation.SystemDependencies = slices.Clone(r.Installation.SystemDependencies)
	c.Installation.LanguageDependencies = slices.Clone(r.Installation.LanguageDependencies)
	c.Configuration.RequiredParams = slices.Clone(r.Configuration.RequiredParams)
	c.Configuration.OptionalParams = slices.Clone(r.Configuration.OptionalParams)
	return c
}

// SupportsPlatform reports whether the recipe lists goos.
func (r Recipe) SupportsPlatform(goos string) bool {
	return slices.Contains(r.Platforms, goos)
}

// Metadata is the catalog file's top-level information.
type Metadata struct {
	Version     string `toml:"version" yaml:"version" json:"version"`
	Updated     string `toml:"updated" yaml:"updated" json:"updated"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty" json:"description,omitempty"`
}

// file is the on-disk shape shared by the TOML and YAML encodings.
type file struct {
	Version     string             `toml:"version" yaml:"version"`
	Updated     string             `toml:"updated" yaml:"updated"`
	Description string             `toml:"description,omitempty" yaml:"description,omitempty"`
	Servers     map[string]*Recipe `toml:"servers" yaml:"servers"`
}

// SearchResult pairs a recipe with its match score.
type SearchResult struct {
	Recipe Recipe `json:"recipe"`
	Score  int    `json:"score"`
}

// CategoryCount is one entry of the derived category index.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
