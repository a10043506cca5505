package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	WatchlistPath       string
	Port                string
	BaseUrl             string
	WorkerCount         int
	SchedulerInterval   int
	SimilarityThreshold int
	LookbackHours       int
	APIAccessKey        string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
