package utils

import (
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Log is usable before Init; Init applies the configured level and badges.
var Log = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.DateTime,
	Prefix:          "callbreak",
})

// Init sets the level ("debug", "info", "warn", "error") and level badges.
// An unknown level falls back to info.
func Init(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	Log.SetLevel(lvl)

	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = badge("DEBUG", "#6C6C6CFF", "#FFFFFFFF")
	styles.Levels[log.InfoLevel] = badge("INFO♠", "#90EE9080", "#006400FF")
	styles.Levels[log.WarnLevel] = badge("WARN♦", "#FFD70080", "#000000FF")
	styles.Levels[log.ErrorLevel] = badge("ERROR♥", "#FF0000FF", "#00FFFF00")
	styles.Levels[log.FatalLevel] = badge("FATAL♣", "#000000FF", "#00FFFF00")
	Log.SetStyles(styles)

	if err != nil {
		Log.Warn("unknown log level, using info", "level", level)
	}
}

func badge(label, bg, fg string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(fg)).
		Bold(true)
}
