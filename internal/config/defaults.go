package config

const (
	defaultStagingDir    = "~/.local/share/tracksplit/staging"
	defaultOutputDir     = "~/Music/tracksplit"
	defaultLogDir        = "~/.local/share/tracksplit/logs"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultQuality       = 1
	defaultMaxConcurrent = 2
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		Transcoder: Transcoder{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			Quality:       defaultQuality,
		},
		Split: Split{
			MaxConcurrent: defaultMaxConcurrent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
