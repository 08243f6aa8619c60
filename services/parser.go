package services

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"goods-hand/models"
)

// Parser führt die komplette Pipeline über genau eine Exportdatei aus:
// Kodierung auflösen, Struktur wiederherstellen, Schema normalisieren,
// Projektionen bauen. Ein Parse-Aufruf arbeitet auf einer eigenen Kopie des
// Eingabetexts und teilt keinen Zustand zwischen Aufrufen.
type Parser struct {
	logger   *zap.Logger
	progress func(string)
	recovery *RecoveryEngine
	norm     *Normalizer
}

func NewParser(logger *zap.Logger, table RepairTable, limits ExtractLimits) *Parser {
	return &Parser{
		logger:   logger,
		recovery: NewRecoveryEngine(logger, limits),
		norm:     NewNormalizer(logger, table),
	}
}

// OnProgress registriert einen optionalen Callback für menschenlesbare
// Fortschrittsmeldungen. Der Parser hängt funktional nie davon ab.
func (p *Parser) OnProgress(fn func(string)) {
	p.progress = fn
}

func (p *Parser) say(format string, args ...any) {
	if p.progress != nil {
		p.progress(fmt.Sprintf(format, args...))
	}
}

// ParseFile liest die Datei genau einmal vollständig ein und parst sie.
// Nur die Taxonomie-Fehler (Datei fehlt, keine Kodierung verwertbar, kein
// Goods-Objekt) kommen als error zurück; Teil-Wiederherstellung ist ein
// Erfolg mit gesetztem Recovered-Flag.
func (p *Parser) ParseFile(path string) (*models.ProductRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		p.say("input file not readable: %v", err)
		return nil, fmt.Errorf("read input: %w", err)
	}
	return p.Parse(data)
}

// Parse führt die Pipeline über bereits eingelesenen Bytes aus.
func (p *Parser) Parse(data []byte) (*models.ProductRecord, error) {
	var recovered *RecoveredDoc
	encName, err := resolveEncoding(data, func(name, text string) bool {
		doc, ok := p.recovery.Recover(text)
		if ok {
			recovered = doc
		}
		return ok
	})
	if err != nil {
		p.say("no candidate encoding produced a usable document")
		p.logger.Warn("encoding resolution failed", zap.Int("bytes", len(data)))
		return nil, err
	}

	p.say("encoding resolved: %s", encName)
	switch recovered.Mode {
	case models.RecoveryFull:
		p.say("parsed complete document")
	case models.RecoveryPrefix:
		p.say("recovered truncated document: %d/%d bytes", recovered.Consumed, recovered.Total)
	case models.RecoveryFields:
		p.say("extracted individual fields from corrupted text")
	}

	rec, err := p.norm.Normalize(recovered.Doc)
	if err != nil {
		p.say("document contains no goods section")
		return nil, err
	}
	rec.Encoding = encName
	rec.Recovery = recovered.Mode
	rec.Recovered = recovered.Mode != models.RecoveryFull

	p.say("goods %s: %d main images, %d detail images, %d skus, %d videos",
		rec.GoodsID, len(rec.Gallery), len(rec.DetailImages), len(rec.Skus), len(rec.Videos))
	return rec, nil
}

// Summarize fasst einen erfolgreichen Parse für Anzeige und Reports zusammen.
func Summarize(rec *models.ProductRecord) models.Summary {
	return models.Summary{
		GoodsName:         rec.GoodsName,
		GoodsID:           rec.GoodsID,
		FolderName:        FolderName(rec),
		MainImagesCount:   len(rec.Gallery),
		DetailImagesCount: len(rec.DetailImages),
		SkuImagesCount:    len(rec.SkuImages),
		VideosCount:       len(rec.Videos),
		TotalImages:       len(rec.Gallery) + len(rec.DetailImages) + len(rec.SkuImages),
	}
}

// InspectReport beschreibt, wie eine Datei gelesen werden konnte, ohne sie
// zu normalisieren. Für das Diagnose-CLI.
type InspectReport struct {
	Encoding     string              `json:"encoding"`
	Mode         models.RecoveryMode `json:"mode"`
	Consumed     int                 `json:"consumed"`
	Total        int                 `json:"total"`
	TopLevelKeys []string            `json:"top_level_keys,omitempty"`
}

// Inspect löst nur Kodierung und Wiederherstellungsmodus auf.
func (p *Parser) Inspect(data []byte) (*InspectReport, error) {
	var recovered *RecoveredDoc
	encName, err := resolveEncoding(data, func(name, text string) bool {
		doc, ok := p.recovery.Recover(text)
		if ok {
			recovered = doc
		}
		return ok
	})
	if err != nil {
		return nil, err
	}
	keys := recovered.Doc.Keys()
	sort.Strings(keys)
	return &InspectReport{
		Encoding:     encName,
		Mode:         recovered.Mode,
		Consumed:     recovered.Consumed,
		Total:        recovered.Total,
		TopLevelKeys: keys,
	}, nil
}
