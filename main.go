package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"goods-hand/config"
	"goods-hand/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logging, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	in := flag.String("in", "", "input: a goods export file or a directory of pdd_goods_*.txt files")
	out := flag.String("out", cfg.OutputDir, "output directory")
	format := flag.Int("format", cfg.ExportFormat, "export format (1 or 2)")
	interval := flag.Int("interval", cfg.BatchIntervalSeconds, "seconds to wait between files in batch mode")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: goods-hand -in <file|dir> [-out dir] [-format 1|2] [-interval seconds]")
		os.Exit(2)
	}

	table, err := cfg.RepairTable()
	if err != nil {
		logging.Fatal("repair table load error", zap.Error(err))
	}

	parser := services.NewParser(logging, table, cfg.ExtractLimits())
	parser.OnProgress(func(msg string) { fmt.Println(msg) })

	info, err := os.Stat(*in)
	if err != nil {
		logging.Fatal("input not accessible", zap.String("path", *in), zap.Error(err))
	}

	if info.IsDir() {
		if !runBatch(logging, parser, *in, *out, *format, *interval) {
			os.Exit(1)
		}
		return
	}
	if err := convertFile(logging, parser, *in, *out, *format); err != nil {
		logging.Error("conversion failed", zap.String("file", *in), zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// findGoodsFiles sammelt alle Exportdateien eines Verzeichnisses in stabiler
// Namensreihenfolge.
func findGoodsFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "pdd_goods_") && strings.HasSuffix(name, ".txt") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// runBatch konvertiert alle Exportdateien eines Verzeichnisses nacheinander,
// mit optionaler Pause zwischen den Dateien.
func runBatch(logging *zap.Logger, parser *services.Parser, inputDir, outputDir string, format, interval int) bool {
	files, err := findGoodsFiles(inputDir)
	if err != nil {
		logging.Error("cannot list input directory", zap.String("dir", inputDir), zap.Error(err))
		return false
	}
	if len(files) == 0 {
		logging.Warn("no goods export files found", zap.String("dir", inputDir))
		return false
	}

	succeeded, failed := 0, 0
	for i, file := range files {
		fmt.Printf("=== file %d/%d: %s ===\n", i+1, len(files), filepath.Base(file))
		if err := convertFile(logging, parser, file, outputDir, format); err != nil {
			logging.Error("conversion failed", zap.String("file", file), zap.Error(err))
			failed++
		} else {
			succeeded++
		}
		if i+1 < len(files) && interval > 0 {
			time.Sleep(time.Duration(interval) * time.Second)
		}
	}

	logging.Info("batch finished",
		zap.Int("total", len(files)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed))
	return failed == 0
}

// convertFile parst eine Exportdatei und legt Record, Download-Plan und
// Zusammenfassung als JSON im Produktordner ab. Das eigentliche Herunterladen
// übernimmt ein externer Kollaborateur auf Basis des Plans.
func convertFile(logging *zap.Logger, parser *services.Parser, path, outputDir string, format int) error {
	start := time.Now()

	rec, err := parser.ParseFile(path)
	if err != nil {
		return err
	}

	summary := services.Summarize(rec)
	plan := services.BuildDownloadPlan(rec, outputDir, format)

	productDir := filepath.Join(outputDir, summary.FolderName)
	if err := os.MkdirAll(productDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := writeJSON(filepath.Join(productDir, "record.json"), rec); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(productDir, "download_plan.json"), plan); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(productDir, "summary.json"), summary); err != nil {
		return err
	}

	logging.Info("file converted",
		zap.String("goods_id", rec.GoodsID),
		zap.String("folder", summary.FolderName),
		zap.Int("planned_downloads", plan.Total()),
		zap.Bool("recovered", rec.Recovered),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
