package logger

import charmlog "github.com/charmbracelet/log"

// SetupLogger reconfigures the default logger from CLI-level options.
func SetupLogger(logLevel string, logJSON bool) {
	level := InfoLevel
	switch logLevel {
	case "debug":
		level = DebugLevel
	case "info":
		level = InfoLevel
	case "warn":
		level = WarnLevel
	case "error":
		level = ErrorLevel
	}
	Init(&Config{
		Level:      level,
		JSON:       logJSON,
		TimeFormat: "15:04:05",
	})
}

func getDefaultStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	styles.Keys["err"] = styles.Keys["err"].Bold(true)
	styles.Values["err"] = styles.Values["err"].Bold(true)
	return styles
}
