package main

// Offline route resolver. Reads one field 15 route string per stdin
// line and writes the resolved segments as JSON lines, which makes it
// usable in shell pipelines without a running API server.

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/samirrijal/field15/internal/airac"
	"github.com/samirrijal/field15/internal/core/domain"
	"github.com/samirrijal/field15/internal/core/usecases"
	"github.com/samirrijal/field15/internal/pkg/config"
	"github.com/samirrijal/field15/internal/pkg/logging"
)

type result struct {
	Route    string           `json:"route"`
	Segments []domain.Segment `json:"segments,omitempty"`
	Points   []domain.Point   `json:"points,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func main() {
	var (
		catalogPath string
		flatten     bool
	)
	flag.StringVar(&catalogPath, "catalog", "", "path to the AIRAC snapshot directory (overrides config)")
	flag.BoolVar(&flatten, "flatten", false, "emit the deduplicated waypoint sequence instead of segments")
	flag.Parse()

	logging.Setup("warn", "text")

	if catalogPath == "" {
		cfg, err := config.Load("field15-resolver")
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		catalogPath = cfg.Catalog.Path
	}

	catalog, err := airac.Load(catalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	// No cache and no event bus. This binary resolves and exits.
	svc := usecases.NewResolverService(catalog, nil, nil, slog.Default())

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	exitCode := 0
	for scanner.Scan() {
		route := strings.TrimSpace(scanner.Text())
		if route == "" {
			continue
		}

		out := result{Route: route}
		if flatten {
			points, err := svc.FlattenRoute(ctx, route)
			if err != nil {
				out.Error = err.Error()
				exitCode = 1
			} else {
				out.Points = points
			}
		} else {
			segments, err := svc.EnrichRoute(ctx, route)
			if err != nil {
				out.Error = err.Error()
				exitCode = 1
			} else {
				out.Segments = segments
			}
		}

		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}

	os.Exit(exitCode)
}
