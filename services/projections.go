package services

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"goods-hand/models"
)

// Bekannte type-Codes für Hauptbilder im Legacy-Gallery-Format.
var mainImageTypes = map[int]bool{1: true, 13: true}

// mainImages projiziert die Hauptbilder: topGallery (modern) direkt, sonst
// Legacy-Gallery-Einträge mit bekanntem type-Code, sonst Inferenz über den
// type-Code mit global kleinster Priorität.
func (n *Normalizer) mainImages(goods Value) []models.ImageRef {
	if top := goods.Get("topGallery").Arr(); len(top) > 0 {
		var out []models.ImageRef
		for i, img := range top {
			ref := models.ImageRef{
				URL:      img.Get("url").Str(),
				Width:    img.Get("width").Int(),
				Height:   img.Get("height").Int(),
				Priority: i,
			}
			if ref.URL != "" {
				out = append(out, ref)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	gallery := goods.Get("gallery").Arr()
	var out []models.ImageRef
	for _, img := range gallery {
		if mainImageTypes[img.Get("type").Int()] {
			if ref, ok := galleryRef(img); ok {
				out = append(out, ref)
			}
		}
	}

	if len(out) == 0 {
		if inferred, ok := inferMainType(gallery); ok {
			n.logger.Info("inferred main image type", zap.Int("type", inferred))
			for _, img := range gallery {
				if img.Get("type").Int() == inferred {
					if ref, ok := galleryRef(img); ok {
						out = append(out, ref)
					}
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func galleryRef(img Value) (models.ImageRef, bool) {
	ref := models.ImageRef{
		URL:      img.Get("url").Str(),
		Width:    img.Get("width").Int(),
		Height:   img.Get("height").Int(),
		Priority: img.Get("priority").Int(),
		TypeTag:  img.Get("type").Int(),
	}
	return ref, ref.URL != ""
}

// inferMainType gruppiert alle Gallery-Einträge nach type-Code und wählt den
// Code mit der global kleinsten Minimal-Priorität. Bei Gleichstand gewinnt
// der zuerst gesehene Code (stabile Quell-Reihenfolge).
func inferMainType(gallery []Value) (int, bool) {
	best := 0
	bestPriority := 0
	found := false
	seen := map[int]int{}
	for _, img := range gallery {
		typ := img.Get("type").Int()
		prio := 999 // fehlende Priorität zählt bei der Inferenz als niedrigster Rang
		if p := img.Get("priority"); !p.IsNil() {
			prio = p.Int()
		}
		if cur, ok := seen[typ]; !ok || prio < cur {
			seen[typ] = prio
		}
		if !found || seen[typ] < bestPriority {
			best = typ
			bestPriority = seen[typ]
			found = true
		}
	}
	return best, found
}

// detailImages projiziert die Detailbilder: detailGallery (modern), sonst
// Legacy-decoration-Blöcke vom Typ image, geflacht über deren contents.
func (n *Normalizer) detailImages(goods Value) []models.ImageRef {
	if detail := goods.Get("detailGallery").Arr(); len(detail) > 0 {
		var out []models.ImageRef
		for i, img := range detail {
			ref := models.ImageRef{
				URL:      img.Get("url").Str(),
				Width:    img.Get("width").Int(),
				Height:   img.Get("height").Int(),
				Priority: i,
			}
			if ref.URL != "" {
				out = append(out, ref)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	var out []models.ImageRef
	for _, block := range goods.Get("decoration").Arr() {
		if block.Get("type").Str() != "image" {
			continue
		}
		prio := block.Get("priority").Int()
		for _, content := range block.Get("contents").Arr() {
			imgURL := content.Get("img_url").Str()
			if imgURL == "" {
				continue
			}
			out = append(out, models.ImageRef{
				URL:      imgURL,
				Width:    content.Get("width").Int(),
				Height:   content.Get("height").Int(),
				Priority: prio,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// skus projiziert die SKU-Liste: modern goods.skus, sonst Legacy-Top-Level
// sku. Spezifikationswerte werden vor dem Zusammenfügen repariert.
func (n *Normalizer) skus(doc, goods Value) []models.Sku {
	entries := goods.Get("skus").Arr()
	if len(entries) == 0 {
		entries = doc.Get("sku").Arr()
	}

	var out []models.Sku
	for _, entry := range entries {
		specs := entry.Get("specs").Arr()
		var rawSpecs []models.SpecPair
		var values []string
		for _, spec := range specs {
			pair := models.SpecPair{
				Key:   First(spec.Get("spec_key"), spec.Get("specKey")).Str(),
				Value: First(spec.Get("spec_value"), spec.Get("specValue")).Str(),
			}
			rawSpecs = append(rawSpecs, pair)
			if pair.Value != "" {
				values = append(values, n.repair.Repair(pair.Value))
			}
		}

		out = append(out, models.Sku{
			SkuID:       First(entry.Get("skuId"), entry.Get("sku_id")).Str(),
			SpecText:    strings.Join(values, "_"),
			Price:       NormalizePrice(entry.Get("price").Num()),
			NormalPrice: NormalizePrice(First(entry.Get("normalPrice"), entry.Get("normal_price")).Num()),
			GroupPrice:  NormalizePrice(First(entry.Get("groupPrice"), entry.Get("group_price")).Num()),
			Quantity:    entry.Get("quantity").Int(),
			ThumbURL:    First(entry.Get("thumbUrl"), entry.Get("thumb_url")).Str(),
			RawSpecs:    rawSpecs,
		})
	}
	return out
}

// skuImages liefert pro SKU mit Thumbnail einen Eintrag in SKU-Reihenfolge.
func skuImages(skus []models.Sku) []models.SkuImage {
	var out []models.SkuImage
	for i, sku := range skus {
		if sku.ThumbURL == "" {
			continue
		}
		spec := sku.SpecText
		if spec == "" {
			spec = "SKU" + strconv.Itoa(i+1)
		}
		out = append(out, models.SkuImage{
			URL:   sku.ThumbURL,
			Spec:  spec,
			SkuID: sku.SkuID,
			Index: i + 1,
		})
	}
	return out
}

// videos sammelt Videos aus den Gallery-Ebenen: ein Eintrag mit video_url ist
// ein Hauptvideo (Thumbnail = Bild-URL des Eintrags), eine nackte .mp4-URL
// ein Detailvideo.
func (n *Normalizer) videos(goods Value) []models.VideoRef {
	var out []models.VideoRef

	collect := func(entries []Value, fallbackPriority bool) {
		for i, entry := range entries {
			prio := entry.Get("priority").Int()
			if fallbackPriority {
				prio = i
			}
			videoURL := First(entry.Get("videoUrl"), entry.Get("video_url")).Str()
			entryURL := entry.Get("url").Str()
			switch {
			case videoURL != "":
				out = append(out, models.VideoRef{
					URL:       videoURL,
					Thumbnail: entryURL,
					Width:     entry.Get("width").Int(),
					Height:    entry.Get("height").Int(),
					Priority:  prio,
					Kind:      models.MainVideo,
				})
			case strings.HasSuffix(strings.ToLower(entryURL), ".mp4"):
				out = append(out, models.VideoRef{
					URL:      entryURL,
					Width:    entry.Get("width").Int(),
					Height:   entry.Get("height").Int(),
					Priority: prio,
					Kind:     models.DetailVideo,
				})
			}
		}
	}

	collect(goods.Get("gallery").Arr(), false)
	collect(goods.Get("topGallery").Arr(), true)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// NormalizePrice wendet die einzige Preisregel der Quelle an: Werte mit
// Nachkommaanteil sind bereits Hauptwährungseinheiten, ganzzahlige Werte
// sind Minor Units (Fen) und werden durch 100 geteilt.
func NormalizePrice(raw float64) float64 {
	if raw != math.Trunc(raw) {
		return raw
	}
	return raw / 100
}

const maxFolderNameBytes = 200

var illegalNameChars = []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", "\n", "\r", "\t"}

// windowsReserved sind Gerätenamen, die als Ordnername nicht zulässig sind.
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// CleanGoodsName macht aus einem Produktnamen einen dateisystemtauglichen
// Anzeigenamen: illegale Zeichen ersetzen, Rand-Leerzeichen und -Punkte
// entfernen, reservierte Gerätenamen entschärfen, Bytelänge kappen ohne
// Mehrbyte-Zeichen zu zerschneiden.
func CleanGoodsName(name string) string {
	if name == "" {
		return "未知商品"
	}
	clean := name
	for _, ch := range illegalNameChars {
		clean = strings.ReplaceAll(clean, ch, "_")
	}
	clean = strings.Trim(clean, " .")

	if windowsReserved[strings.ToUpper(clean)] {
		clean = "商品_" + clean
	}

	if len(clean) > maxFolderNameBytes {
		cut := maxFolderNameBytes
		for cut > 0 && !utf8.RuneStart(clean[cut]) {
			cut--
		}
		clean = clean[:cut]
	}

	if strings.TrimSpace(clean) == "" {
		return "商品"
	}
	return strings.TrimSpace(clean)
}

// FolderName leitet den Ausgabeordner eines Produkts aus Name und ID ab.
func FolderName(rec *models.ProductRecord) string {
	clean := CleanGoodsName(rec.GoodsName)
	switch {
	case rec.GoodsName != "" && rec.GoodsID != "":
		return clean + "_" + rec.GoodsID
	case rec.GoodsID != "":
		return "商品_" + rec.GoodsID
	default:
		return "未知商品"
	}
}

// ImageExt liefert die Bild-Dateiendung einer URL, Standard ist .jpg.
func ImageExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	path := strings.ToLower(u.Path)
	switch {
	case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"):
		return ".jpg"
	case strings.HasSuffix(path, ".png"):
		return ".png"
	case strings.HasSuffix(path, ".webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}
