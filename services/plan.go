package services

import (
	"path/filepath"
	"strconv"

	"goods-hand/models"
)

// categoryFolders sind die Ausgabeordner pro Kategorie je Exportformat,
// übernommen aus dem Quellbestand des Werkzeugs.
var categoryFolders = map[int]map[models.DownloadCategory]string{
	1: {
		models.CategoryMain:   "主图",
		models.CategorySku:    "SKU图",
		models.CategoryDetail: "详情图",
		models.CategoryVideo:  "主图视频",
	},
	2: {
		models.CategoryMain:   "产品主图",
		models.CategorySku:    "SKU图",
		models.CategoryDetail: "详情图",
		models.CategoryVideo:  "产品视频",
	},
}

const (
	mainImagePrefix   = "主图_"
	detailImagePrefix = "详情图_"
	skuImagePrefix    = "SKU图_"
)

// BuildDownloadPlan übersetzt die Projektionen eines Records in die
// Auftragslisten des externen Downloaders: pro Kategorie geordnete Einträge
// mit URL, Dateiname (Kategorie + 1-basierter Index bzw. Videoart +
// Priorität) und Zielordner. Reine Berechnung, kein I/O.
func BuildDownloadPlan(rec *models.ProductRecord, outputDir string, format int) *models.DownloadPlan {
	folders, ok := categoryFolders[format]
	if !ok {
		folders = categoryFolders[2]
	}
	productDir := filepath.Join(outputDir, FolderName(rec))

	plan := &models.DownloadPlan{}
	for i, img := range rec.Gallery {
		plan.MainImages = append(plan.MainImages, models.DownloadItem{
			URL:      img.URL,
			Filename: mainImagePrefix + strconv.Itoa(i+1) + ImageExt(img.URL),
			Dir:      filepath.Join(productDir, folders[models.CategoryMain]),
		})
	}
	for i, img := range rec.DetailImages {
		plan.DetailImages = append(plan.DetailImages, models.DownloadItem{
			URL:      img.URL,
			Filename: detailImagePrefix + strconv.Itoa(i+1) + ImageExt(img.URL),
			Dir:      filepath.Join(productDir, folders[models.CategoryDetail]),
		})
	}
	for i, img := range rec.SkuImages {
		plan.SkuImages = append(plan.SkuImages, models.DownloadItem{
			URL:      img.URL,
			Filename: skuImagePrefix + strconv.Itoa(i+1) + ImageExt(img.URL),
			Dir:      filepath.Join(productDir, folders[models.CategorySku]),
		})
	}
	for _, video := range rec.Videos {
		plan.Videos = append(plan.Videos, models.DownloadItem{
			URL:      video.URL,
			Filename: string(video.Kind) + "_" + strconv.Itoa(video.Priority) + videoExt(video.URL),
			Dir:      filepath.Join(productDir, folders[models.CategoryVideo]),
		})
	}
	return plan
}

func videoExt(url string) string {
	// Quellvideos sind praktisch immer mp4; alles andere fällt darauf zurück.
	return ".mp4"
}
