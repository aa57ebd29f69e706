package cfg

type Cfg struct {
	// Application configuration
	PodcastsDir string
	StatePath   string
	WorkerCount int
	Timeout     int

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
