package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"goods-hand/services"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	OutputDir    string `envconfig:"OUTPUT_DIR" default:"output"`
	ExportFormat int    `envconfig:"EXPORT_FORMAT" default:"2"`

	// Pause zwischen zwei Dateien im Batch-Modus
	BatchIntervalSeconds int `envconfig:"BATCH_INTERVAL_SECONDS" default:"3"`

	// Obergrenzen der Feld-Extraktion auf korruptem Rohtext
	MaxGalleryImages int `envconfig:"MAX_GALLERY_IMAGES" default:"20"`
	MaxDetailImages  int `envconfig:"MAX_DETAIL_IMAGES" default:"15"`
	MaxSkus          int `envconfig:"MAX_SKUS" default:"15"`

	// Optionale YAML-Datei, die die Mojibake-Reparaturtabellen überschreibt
	RepairTableFile string `envconfig:"REPAIR_TABLE_FILE"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}

// ExtractLimits übersetzt die Konfiguration in die Extraktionsgrenzen.
func (c *Config) ExtractLimits() services.ExtractLimits {
	return services.ExtractLimits{
		MaxGalleryImages: c.MaxGalleryImages,
		MaxDetailImages:  c.MaxDetailImages,
		MaxSkus:          c.MaxSkus,
	}
}

// RepairTable liefert die Reparaturtabellen: Standardwerte, optional
// feldweise überschrieben aus der YAML-Datei.
func (c *Config) RepairTable() (services.RepairTable, error) {
	table := services.DefaultRepairTable()
	if c.RepairTableFile == "" {
		return table, nil
	}

	data, err := os.ReadFile(c.RepairTableFile)
	if err != nil {
		return table, fmt.Errorf("read repair table file: %w", err)
	}
	var override services.RepairTable
	if err := yaml.Unmarshal(data, &override); err != nil {
		return table, fmt.Errorf("parse repair table file: %w", err)
	}
	if len(override.Pairs) > 0 {
		table.Pairs = override.Pairs
	}
	if len(override.Vocabulary) > 0 {
		table.Vocabulary = override.Vocabulary
	}
	return table, nil
}
