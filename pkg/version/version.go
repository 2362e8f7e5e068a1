package version

import (
	"runtime"

	"github.com/robinjoseph08/golib/logger"
)

// Version is stamped at build time:
// go build -ldflags "-X github.com/campusrecords/catalog/pkg/version.Version=1.0.0".
var Version = "dev"

// Info returns the fields logged at startup.
func Info() logger.Data {
	return logger.Data{"version": Version, "go_version": runtime.Version()}
}
