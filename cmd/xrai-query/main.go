// xrai-query runs a single query through the engine and prints the
// resulting layout snapshot as JSON. Useful for scripting and for
// inspecting provider output without an MCP client.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JT5D/xrai/pkg/xrai"
)

var (
	configFile = flag.String("config", "", "Path to a YAML config file (optional)")
	catalogURL = flag.String("catalog-url", "", "libSQL catalog URL")
	sources    = flag.String("sources", "", "Comma-separated source tags to query (default: all)")
	timeout    = flag.Duration("timeout", 30*time.Second, "Overall query timeout")
	recordsOut = flag.Bool("records", false, "Print ranked records instead of the layout snapshot")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <query>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	query := flag.Arg(0)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	svc, err := xrai.NewService(&xrai.Config{ConfigFile: *configFile, CatalogURL: *catalogURL}, logger)
	if err != nil {
		logger.Fatal("failed to build service", zap.Error(err))
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var tags []string
	if *sources != "" {
		tags = strings.Split(*sources, ",")
	}
	res, _ := svc.Search(ctx, query, tags)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if *recordsOut {
		err = enc.Encode(res.Records)
	} else {
		err = enc.Encode(res.State.Snapshot())
	}
	if err != nil {
		logger.Fatal("failed to encode output", zap.Error(err))
	}
}
