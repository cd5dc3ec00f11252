// cmd/sellall — Emergency liquidation tool.
//
// For every mint listed (one per line in a file, or as arguments), issues
// a sell-100% order against the trade API, logs the per-mint outcome and
// keeps going past individual failures. Requires PUMPPORTAL_API_KEY in the
// environment (.env supported).
//
// Usage:
//
//	sellall mint1 mint2 ...
//	sellall -f mints.txt
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"sniper-telemetry/internal/logger"
	"sniper-telemetry/pkg/pumpportal"

	"github.com/joho/godotenv"
)

// rate-limit pause between sells
const sellDelay = 500 * time.Millisecond

func main() {
	godotenv.Load()
	log := logger.Init("sellall", slog.LevelInfo)

	var mintFile string
	flag.StringVar(&mintFile, "f", "", "file with one mint per line")
	flag.Parse()

	mints := flag.Args()
	if mintFile != "" {
		fromFile, err := readMints(mintFile)
		if err != nil {
			log.Error("read mint list failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		mints = append(mints, fromFile...)
	}
	if len(mints) == 0 {
		fmt.Fprintln(os.Stderr, "sellall: no mints given")
		flag.Usage()
		os.Exit(2)
	}

	apiKey := os.Getenv("PUMPPORTAL_API_KEY")
	if apiKey == "" {
		log.Error("PUMPPORTAL_API_KEY not set")
		os.Exit(1)
	}

	client := pumpportal.New(apiKey)
	sold, failed := sellAll(context.Background(), log, client, mints, sellDelay)

	log.Info("sell-all complete", slog.Int("sold", sold), slog.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

// sellAll liquidates each mint in turn. Individual failures are logged
// and skipped; one dead token must not strand the rest of the book.
func sellAll(ctx context.Context, log *slog.Logger, client *pumpportal.Client, mints []string, delay time.Duration) (sold, failed int) {
	log.Info("emergency sell-all", slog.Int("positions", len(mints)))

	for i, mint := range mints {
		short := mint
		if len(short) > 8 {
			short = short[:8]
		}
		log.Info("selling",
			slog.Int("n", i+1),
			slog.Int("of", len(mints)),
			slog.String("mint", short),
		)

		sig, err := client.SellAll(ctx, mint)
		if err != nil {
			failed++
			log.Error("sell failed", slog.String("mint", short), slog.String("error", err.Error()))
		} else {
			sold++
			log.Info("sold", slog.String("mint", short), slog.String("signature", sig))
		}

		if i < len(mints)-1 {
			time.Sleep(delay)
		}
	}
	return sold, failed
}

func readMints(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var mints []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		mints = append(mints, line)
	}
	return mints, scanner.Err()
}
