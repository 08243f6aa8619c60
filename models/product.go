package models

// VideoKind unterscheidet Hauptvideos von Detailvideos.
type VideoKind string

const (
	MainVideo   VideoKind = "main"
	DetailVideo VideoKind = "detail"
)

// RecoveryMode beschreibt, wie das Quelldokument gelesen werden konnte.
type RecoveryMode string

const (
	RecoveryFull   RecoveryMode = "full"   // vollständiges Dokument geparst
	RecoveryPrefix RecoveryMode = "prefix" // längstes vollständiges Präfix geparst
	RecoveryFields RecoveryMode = "fields" // Einzelfelder aus Rohtext extrahiert
)

// ImageRef repräsentiert eine einzelne Produktbild-Referenz.
type ImageRef struct {
	URL      string `json:"url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Priority int    `json:"priority"`
	TypeTag  int    `json:"type_tag,omitempty"`
}

// SpecPair ist ein einzelnes Merkmal einer SKU (z.B. Farbe -> Rot).
type SpecPair struct {
	Key   string `json:"spec_key"`
	Value string `json:"spec_value"`
}

// Sku repräsentiert eine kaufbare Variante des Produkts.
type Sku struct {
	SkuID       string     `json:"sku_id"`
	SpecText    string     `json:"spec"`
	Price       float64    `json:"price"`
	NormalPrice float64    `json:"normal_price"`
	GroupPrice  float64    `json:"group_price"`
	Quantity    int        `json:"quantity"`
	ThumbURL    string     `json:"thumb_url,omitempty"`
	RawSpecs    []SpecPair `json:"specs,omitempty"`
}

// SkuImage ist das Thumbnail einer SKU mit ihrem 1-basierten Index.
type SkuImage struct {
	URL   string `json:"url"`
	Spec  string `json:"spec"`
	SkuID string `json:"sku_id"`
	Index int    `json:"index"`
}

// VideoRef repräsentiert ein Produktvideo samt optionalem Vorschaubild.
type VideoRef struct {
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	Priority  int       `json:"priority"`
	Kind      VideoKind `json:"kind"`
}

// PriceInfo ist der durchgereichte Preisblock auf Dokumentebene.
type PriceInfo struct {
	MinGroupPrice  float64 `json:"min_group_price"`
	MaxGroupPrice  float64 `json:"max_group_price"`
	MinNormalPrice float64 `json:"min_normal_price"`
	MaxNormalPrice float64 `json:"max_normal_price"`
	LinePrice      float64 `json:"line_price"`
}

// ProductRecord ist das unveränderliche Ergebnis eines Parse-Aufrufs.
// Es gehört ausschließlich dem Aufrufer und wird nach der Konstruktion
// nicht mehr mutiert.
type ProductRecord struct {
	GoodsID     string  `json:"goods_id"`
	GoodsName   string  `json:"goods_name"`
	ShortName   string  `json:"short_name,omitempty"`
	GoodsURL    string  `json:"goods_url,omitempty"`
	MarketPrice float64 `json:"market_price"`
	CatID       string  `json:"cat_id,omitempty"`
	MallID      string  `json:"mall_id,omitempty"`
	Quantity    int     `json:"quantity"`
	SoldQty     int     `json:"sold_quantity"`
	CustomerNum int     `json:"customer_num"`

	Gallery      []ImageRef `json:"gallery"`
	DetailImages []ImageRef `json:"detail_images"`
	Skus         []Sku      `json:"skus"`
	SkuImages    []SkuImage `json:"sku_images"`
	Videos       []VideoRef `json:"videos"`

	Price PriceInfo `json:"price"`

	// Herkunfts-Metadaten des Parse-Vorgangs
	Encoding  string       `json:"encoding"`
	Recovery  RecoveryMode `json:"recovery"`
	Recovered bool         `json:"recovered"`
}
