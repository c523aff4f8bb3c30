package config

const (
	defaultOutputDir       = "."
	defaultDataDir         = "~/.local/share/sonus"
	defaultLogDir          = "~/.local/share/sonus/logs"
	defaultDownloadWorkers = 4
	defaultDownloadTimeout = 60
	defaultFFmpegBinary    = "ffmpeg"
	defaultProbeBinary     = "ffprobe"
	defaultExtractWorkers  = 2
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Download: Download{
			Workers:        defaultDownloadWorkers,
			TimeoutSeconds: defaultDownloadTimeout,
			Progress:       true,
		},
		FFmpeg: FFmpeg{
			Binary:         defaultFFmpegBinary,
			ProbeBinary:    defaultProbeBinary,
			ExtractWorkers: defaultExtractWorkers,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
