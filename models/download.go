package models

// DownloadCategory benennt die vier Ausgabe-Kategorien des Downloaders.
type DownloadCategory string

const (
	CategoryMain   DownloadCategory = "main"
	CategoryDetail DownloadCategory = "detail"
	CategorySku    DownloadCategory = "sku"
	CategoryVideo  DownloadCategory = "video"
)

// DownloadItem ist ein einzelner Auftrag für den externen Downloader.
type DownloadItem struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Dir      string `json:"dir"`
}

// DownloadPlan bündelt die Aufträge pro Kategorie in Download-Reihenfolge.
type DownloadPlan struct {
	MainImages   []DownloadItem `json:"main_images"`
	DetailImages []DownloadItem `json:"detail_images"`
	SkuImages    []DownloadItem `json:"sku_images"`
	Videos       []DownloadItem `json:"videos"`
}

// Total liefert die Gesamtzahl der geplanten Downloads.
func (p *DownloadPlan) Total() int {
	return len(p.MainImages) + len(p.DetailImages) + len(p.SkuImages) + len(p.Videos)
}

// Summary fasst einen Parse-Vorgang für Anzeige und Reports zusammen.
type Summary struct {
	GoodsName         string `json:"goods_name"`
	GoodsID           string `json:"goods_id"`
	FolderName        string `json:"folder_name"`
	MainImagesCount   int    `json:"main_images_count"`
	DetailImagesCount int    `json:"detail_images_count"`
	SkuImagesCount    int    `json:"sku_images_count"`
	VideosCount       int    `json:"videos_count"`
	TotalImages       int    `json:"total_images"`
}
