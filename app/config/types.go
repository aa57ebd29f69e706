package config

// Podcast is one podcast definition file. The name is derived from the
// filename and keys the stored snapshot.
type Podcast struct {
	Name    string `yaml:"-"`
	Title   string `yaml:"title"`
	URL     string `yaml:"url"`
	Type    string `yaml:"type"` // optional pin, e.g. "upload"; empty means route by URL
	Enabled bool   `yaml:"enabled"`
}
