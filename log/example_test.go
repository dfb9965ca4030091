package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/ly/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
		log.WithLevel(log.LevelTrace))

	logger.Trace("declare", slog.String("name", "x"), slog.Int("frame", 0))
	logger.Debug("exec", slog.Int("root", 12))

	// Output:
	// level=TRACE msg=declare name=x frame=0
	// level=DEBUG msg=exec root=12
}

func ExampleLogger_Wrap() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Debug("hidden")
	logger.Wrap(log.WithLevel(log.LevelDebug)).Debug("shown")

	// Output:
	// {"level":"DEBUG","msg":"shown"}
}
