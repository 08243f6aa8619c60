package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"goods-hand/models"
)

// ErrMissingGoods wird gemeldet, wenn ein Dokument zwar dekodiert oder
// wiederhergestellt werden konnte, aber keiner der beiden Schema-Zweige ein
// Goods-Objekt mit Produkt-ID liefert.
var ErrMissingGoods = errors.New("document contains no goods section")

// Normalizer gleicht die beiden Schema-Generationen der Quelle zu einem
// kanonischen ProductRecord ab. Pro Feld gewinnt der moderne (camelCase)
// Zweig, wenn er vorhanden und nicht leer ist; sonst der Legacy-Zweig
// (snake_case); sonst der Nullwert. Beide Zweige dürfen im selben Dokument
// gemischt vorkommen, das wird bewusst nicht "repariert".
type Normalizer struct {
	logger *zap.Logger
	repair RepairTable
}

func NewNormalizer(logger *zap.Logger, repair RepairTable) *Normalizer {
	return &Normalizer{logger: logger, repair: repair}
}

// goodsSection lokalisiert das Goods-Objekt: Legacy direkt auf Top-Level,
// modern unter store.initDataObj.goods.
func goodsSection(doc Value) (Value, bool) {
	goods := doc.Get("goods")
	if goods.IsObject() && goods.truthy() {
		return goods, true
	}
	goods = doc.Path("store", "initDataObj", "goods")
	if goods.IsObject() && goods.truthy() {
		return goods, true
	}
	return Value{}, false
}

const goodsURLPrefix = "https://mobile.yangkeduo.com/goods.html?goods_id="

// Normalize baut aus dem rohen Dokument den vollständigen ProductRecord
// inklusive aller Projektionen.
func (n *Normalizer) Normalize(doc Value) (*models.ProductRecord, error) {
	goods, ok := goodsSection(doc)
	if !ok {
		return nil, ErrMissingGoods
	}

	goodsID := First(goods.Get("goodsID"), goods.Get("goods_id")).Str()
	if goodsID == "" || goodsID == "0" {
		return nil, ErrMissingGoods
	}

	name := First(goods.Get("goodsName"), goods.Get("goods_name")).Str()
	name = strings.TrimSpace(n.repair.Repair(name))
	short := First(goods.Get("shortName"), goods.Get("short_name")).Str()
	short = strings.TrimSpace(n.repair.Repair(short))

	rec := &models.ProductRecord{
		GoodsID:     goodsID,
		GoodsName:   name,
		ShortName:   short,
		GoodsURL:    goodsURLPrefix + goodsID,
		MarketPrice: First(goods.Get("marketPrice"), goods.Get("market_price")).Num(),
		CatID:       First(goods.Get("catID"), goods.Get("cat_id")).Str(),
		MallID:      First(goods.Get("mallID"), goods.Get("mall_id")).Str(),
		Quantity:    goods.Get("quantity").Int(),
		SoldQty:     First(goods.Get("soldQuantity"), goods.Get("sold_quantity")).Int(),
		CustomerNum: First(goods.Get("customerNum"), goods.Get("customer_num")).Int(),
		Price:       priceInfo(doc.Get("price")),
	}

	rec.Gallery = n.mainImages(goods)
	rec.DetailImages = n.detailImages(goods)
	rec.Skus = n.skus(doc, goods)
	rec.SkuImages = skuImages(rec.Skus)
	rec.Videos = n.videos(goods)

	n.logger.Info("normalized product record",
		zap.String("goods_id", rec.GoodsID),
		zap.Int("gallery", len(rec.Gallery)),
		zap.Int("detail_images", len(rec.DetailImages)),
		zap.Int("skus", len(rec.Skus)),
		zap.Int("videos", len(rec.Videos)))
	return rec, nil
}

// priceInfo reicht den Top-Level-Preisblock unverändert durch.
func priceInfo(price Value) models.PriceInfo {
	return models.PriceInfo{
		MinGroupPrice:  price.Get("min_group_price").Num(),
		MaxGroupPrice:  price.Get("max_group_price").Num(),
		MinNormalPrice: price.Get("min_normal_price").Num(),
		MaxNormalPrice: price.Get("max_normal_price").Num(),
		LinePrice:      price.Get("line_price").Num(),
	}
}
