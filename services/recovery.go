package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"goods-hand/models"
)

// ExtractLimits begrenzt die Feld-Extraktion auf korruptem Rohtext.
type ExtractLimits struct {
	MaxGalleryImages int
	MaxDetailImages  int
	MaxSkus          int
}

// DefaultExtractLimits entspricht den Grenzen des Quellformats.
func DefaultExtractLimits() ExtractLimits {
	return ExtractLimits{MaxGalleryImages: 20, MaxDetailImages: 15, MaxSkus: 15}
}

// RecoveredDoc ist das Ergebnis der strukturellen Wiederherstellung.
type RecoveredDoc struct {
	Doc      Value
	Mode     models.RecoveryMode
	Consumed int // verwertete Textlänge in Bytes (nur Präfix-Modus aussagekräftig)
	Total    int
}

// RecoveryEngine macht aus möglicherweise abgeschnittenem Text das größte
// parsebare Dokument und fällt zuletzt auf Einzelfeld-Extraktion zurück.
type RecoveryEngine struct {
	logger *zap.Logger
	limits ExtractLimits
}

func NewRecoveryEngine(logger *zap.Logger, limits ExtractLimits) *RecoveryEngine {
	if limits.MaxGalleryImages <= 0 {
		limits = DefaultExtractLimits()
	}
	return &RecoveryEngine{logger: logger, limits: limits}
}

// Recover versucht der Reihe nach: vollständiger Parse, Parse des längsten
// vollständigen Präfixes, Einzelfeld-Extraktion. Ohne numerische Produkt-ID
// schlägt die Wiederherstellung insgesamt fehl.
func (re *RecoveryEngine) Recover(text string) (*RecoveredDoc, bool) {
	if doc, err := DecodeDocument(text); err == nil {
		return &RecoveredDoc{Doc: doc, Mode: models.RecoveryFull, Consumed: len(text), Total: len(text)}, true
	}

	if offset := lastCompleteOffset(text); offset > 0 {
		if doc, err := DecodeDocument(text[:offset]); err == nil {
			re.logger.Info("recovered truncated document prefix",
				zap.Int("consumed", offset),
				zap.Int("total", len(text)))
			return &RecoveredDoc{Doc: doc, Mode: models.RecoveryPrefix, Consumed: offset, Total: len(text)}, true
		}
	}

	if doc, ok := re.extractFields(text); ok {
		return &RecoveredDoc{Doc: doc, Mode: models.RecoveryFields, Consumed: len(text), Total: len(text)}, true
	}
	return nil, false
}

// lastCompleteOffset liefert das Offset direkt hinter dem letzten Zeichen, an
// dem der Klammer-Stack außerhalb eines String-Literals wieder leer wird, also
// das Ende des letzten vollständigen Top-Level-Werts.
func lastCompleteOffset(text string) int {
	var stack []byte
	inString := false
	escaped := false
	last := 0

	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if (c == '}' && top == '{') || (c == ']' && top == '[') {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					last = i + 1
				}
			}
		}
	}
	return last
}

// Obergrenzen für einzelne Feldwerte; alles darüber ist kein plausibles Feld
// mehr, sondern kaputter Text.
const (
	maxScanString = 2048
	maxScanDigits = 24
	maxTypeWindow = 256
)

// scanNumberAfter sucht die erste Ganzzahl hinter dem Muster `"key":`.
func scanNumberAfter(text, key string, from int) (string, int, bool) {
	marker := `"` + key + `":`
	idx := strings.Index(text[from:], marker)
	if idx < 0 {
		return "", -1, false
	}
	start := from + idx + len(marker)
	end := start
	for end < len(text) && end-start < maxScanDigits && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == start {
		return "", -1, false
	}
	return text[start:end], start, true
}

// scanQuotedAfter sucht den ersten String hinter dem Muster `"key":"`.
// Der Wert endet am nächsten nicht-escapeten Anführungszeichen.
func scanQuotedAfter(text, key string, from int) (string, int, bool) {
	marker := `"` + key + `":"`
	idx := strings.Index(text[from:], marker)
	if idx < 0 {
		return "", -1, false
	}
	start := from + idx + len(marker)
	for i := start; i < len(text) && i-start < maxScanString; i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return text[start:i], start, true
		}
	}
	return "", -1, false
}

func hasImageExt(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

// extractFields zieht unabhängig voneinander Einzelfelder aus dem Rohtext.
// Fehlende Felder bleiben einfach weg; nur eine fehlende Produkt-ID lässt
// die Extraktion scheitern.
func (re *RecoveryEngine) extractFields(text string) (Value, bool) {
	goodsID, idPos, ok := scanNumberAfter(text, "goods_id", 0)
	if !ok {
		return Value{}, false
	}

	goods := map[string]any{"goods_id": json.Number(goodsID)}

	// Namensfelder liegen im Quellformat direkt neben der ID.
	if name, _, ok := scanQuotedAfter(text, "goods_name", 0); ok {
		goods["goods_name"] = name
	}
	if short, _, ok := scanQuotedAfter(text, "short_name", 0); ok {
		goods["short_name"] = short
	}
	if price, _, ok := scanNumberAfter(text, "market_price", 0); ok {
		goods["market_price"] = json.Number(price)
	}
	if qty, _, ok := scanNumberAfter(text, "quantity", 0); ok {
		goods["quantity"] = json.Number(qty)
	}

	goods["gallery"] = re.extractGallery(text)
	goods["decoration"] = re.extractDecoration(text)

	doc := map[string]any{
		"goods": goods,
		"sku":   re.extractSkus(text),
	}

	re.logger.Info("extracted fields from corrupted text",
		zap.String("goods_id", goodsID),
		zap.Int("id_offset", idPos))
	return NewValue(doc), true
}

// extractGallery sammelt Bild-URLs, denen im selben Objekt (vor der nächsten
// schließenden Klammer) ein numerischer type-Marker folgt.
func (re *RecoveryEngine) extractGallery(text string) []any {
	var gallery []any
	from := 0
	for len(gallery) < re.limits.MaxGalleryImages {
		url, pos, ok := scanQuotedAfter(text, "url", from)
		if !ok {
			break
		}
		from = pos + len(url) + 1
		if !hasImageExt(url) {
			continue
		}
		window := text[from:]
		if len(window) > maxTypeWindow {
			window = window[:maxTypeWindow]
		}
		if brace := strings.IndexByte(window, '}'); brace >= 0 {
			window = window[:brace]
		}
		typ, _, ok := scanNumberAfter(window, "type", 0)
		if !ok {
			continue
		}
		gallery = append(gallery, map[string]any{
			"id":       json.Number(strconv.Itoa(len(gallery) + 1)),
			"url":      url,
			"type":     json.Number(typ),
			"priority": json.Number(strconv.Itoa(len(gallery))),
		})
	}
	return gallery
}

// extractDecoration sammelt Detailbild-URLs; ein type-Marker ist hier nicht
// erforderlich.
func (re *RecoveryEngine) extractDecoration(text string) []any {
	var decoration []any
	from := 0
	for len(decoration) < re.limits.MaxDetailImages {
		url, pos, ok := scanQuotedAfter(text, "img_url", from)
		if !ok {
			break
		}
		from = pos + len(url) + 1
		if !hasImageExt(url) {
			continue
		}
		decoration = append(decoration, map[string]any{
			"type":     "image",
			"priority": json.Number(strconv.Itoa(len(decoration))),
			"contents": []any{map[string]any{"img_url": url}},
		})
	}
	return decoration
}

// extractSkus findet SKU-Marker und sucht Preis und Thumbnail nur im Fenster
// zwischen einem Marker und dem nächsten, damit nichts aus fremden SKUs
// eingesammelt wird.
func (re *RecoveryEngine) extractSkus(text string) []any {
	type marker struct {
		id  string
		pos int
	}
	var markers []marker
	from := 0
	for len(markers) < re.limits.MaxSkus {
		id, pos, ok := scanNumberAfter(text, "sku_id", from)
		if !ok {
			break
		}
		markers = append(markers, marker{id: id, pos: pos})
		from = pos + len(id)
	}

	var skus []any
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].pos
		}
		window := text[m.pos:end]

		sku := map[string]any{"sku_id": json.Number(m.id)}
		if gp, _, ok := scanNumberAfter(window, "group_price", 0); ok {
			sku["group_price"] = json.Number(gp)
		}
		if np, _, ok := scanNumberAfter(window, "normal_price", 0); ok {
			sku["normal_price"] = json.Number(np)
		}
		if thumb, _, ok := scanQuotedAfter(window, "thumb_url", 0); ok {
			sku["thumb_url"] = thumb
		}
		skus = append(skus, sku)
	}
	return skus
}
