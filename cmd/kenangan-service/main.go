package main

import (
	"flag"
	"os"

	"github.com/kenangan-app/kenangan-server/internal/logger"
	"github.com/kenangan-app/kenangan-server/kenanganservice"
)

func main() {
	// Optional build-target flag override (local | cloud-dev | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud-dev, cloud)")
	flag.Parse()

	switch *buildTarget {
	case "", "local", "cloud-dev", "cloud":
		if *buildTarget != "" {
			_ = os.Setenv("KENANGAN_BUILD_TARGET", *buildTarget)
		}
	default:
		lg := logger.New("kenangan-service")
		lg.Fatal().Str("build_target", *buildTarget).Msg("Invalid build-target override")
	}

	if err := kenanganservice.Run(); err != nil {
		os.Exit(1)
	}
}
