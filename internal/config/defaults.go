package config

const (
	defaultInputDir       = "~/media/trans_in"
	defaultOutputDir      = "~/media/trans_out"
	defaultMoviesDir      = "~/media/movies"
	defaultTVDir          = "~/media/tv_shows"
	defaultLogDir         = "~/.local/share/crank/logs"
	defaultCodec          = "x264"
	defaultQuality        = 18
	defaultMaxJobs        = 3
	defaultTMDBBaseURL    = "https://api.themoviedb.org/3"
	defaultTMDBLanguage   = "en-US"
	defaultTMDBTimeout    = 10
	defaultNtfyTimeout    = 10
	defaultScheduleTime   = "02:00"
	defaultScheduleHours  = 24
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	minQuality            = 0
	maxQuality            = 51
)

func defaultExtensions() []string {
	return []string{".mkv", ".mp4", ".avi", ".m4v", ".mov", ".wmv", ".flv", ".webm", ".ts", ".mpg", ".mpeg"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
			MoviesDir: defaultMoviesDir,
			TVDir:     defaultTVDir,
			LogDir:    defaultLogDir,
		},
		Transcode: Transcode{
			Codec:             defaultCodec,
			Quality:           defaultQuality,
			MaxConcurrentJobs: defaultMaxJobs,
			Extensions:        defaultExtensions(),
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			RequestTimeout: defaultTMDBTimeout,
		},
		Schedule: Schedule{
			TimeOfDay:     defaultScheduleTime,
			IntervalHours: defaultScheduleHours,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
