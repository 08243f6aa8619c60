package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"goods-hand/config"
	"goods-hand/services"
)

// inspect zeigt für eine Exportdatei, wie sie gelesen werden würde: gewählte
// Kodierung, Wiederherstellungsmodus, verwertete Länge und die Top-Level-
// Schlüssel des wiederhergestellten Dokuments.
func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: inspect <goods export file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	logging, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	table, err := cfg.RepairTable()
	if err != nil {
		logging.Fatal("repair table load error", zap.Error(err))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logging.Fatal("cannot read input", zap.String("path", path), zap.Error(err))
	}

	parser := services.NewParser(logging, table, cfg.ExtractLimits())
	report, err := parser.Inspect(data)
	if err != nil {
		logging.Fatal("inspection failed", zap.Error(err))
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logging.Fatal("cannot render report", zap.Error(err))
	}
	fmt.Println(string(out))
}
