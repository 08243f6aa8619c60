package services

import (
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"goods-hand/models"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(zap.NewNop(), DefaultRepairTable())
}

func mustDoc(t *testing.T, text string) Value {
	t.Helper()
	doc, err := DecodeDocument(text)
	if err != nil {
		t.Fatalf("test document invalid: %v", err)
	}
	return doc
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1999, 19.99},
		{19.99, 19.99},
		{0, 0},
		{100, 1},
		{0.5, 0.5},
	}
	for _, c := range cases {
		if got := NormalizePrice(c.in); !almostEqual(got, c.want) {
			t.Fatalf("NormalizePrice(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMainImagesPreferTopGallery(t *testing.T) {
	n := testNormalizer()
	doc := mustDoc(t, `{"goods":{"goods_id":1,
		"topGallery":[{"url":"t1.jpg","width":800,"height":800},{"url":"t2.jpg"}],
		"gallery":[{"url":"legacy.jpg","type":1,"priority":0}]}}`)

	imgs := n.mainImages(doc.Get("goods"))
	if len(imgs) != 2 {
		t.Fatalf("expected 2 top gallery images, got %d", len(imgs))
	}
	if imgs[0].URL != "t1.jpg" || imgs[1].URL != "t2.jpg" {
		t.Fatalf("unexpected urls %q, %q", imgs[0].URL, imgs[1].URL)
	}
	if imgs[0].Priority != 0 || imgs[1].Priority != 1 {
		t.Fatalf("expected array order as priority, got %d, %d", imgs[0].Priority, imgs[1].Priority)
	}
}

func TestMainImagesLegacyTypeCodes(t *testing.T) {
	n := testNormalizer()
	doc := mustDoc(t, `{"goods":{"goods_id":1,"gallery":[
		{"url":"c.jpg","type":13,"priority":2},
		{"url":"a.jpg","type":1,"priority":0},
		{"url":"x.jpg","type":2,"priority":1},
		{"url":"b.jpg","type":1,"priority":1}]}}`)

	imgs := n.mainImages(doc.Get("goods"))
	if len(imgs) != 3 {
		t.Fatalf("expected 3 main images, got %d", len(imgs))
	}
	for i := 1; i < len(imgs); i++ {
		if imgs[i-1].Priority > imgs[i].Priority {
			t.Fatalf("priorities not ascending: %v", imgs)
		}
	}
	if imgs[0].URL != "a.jpg" || imgs[2].URL != "c.jpg" {
		t.Fatalf("unexpected order: %v", imgs)
	}
}

func TestMainImageTypeInference(t *testing.T) {
	n := testNormalizer()
	doc := mustDoc(t, `{"goods":{"goods_id":1,"gallery":[
		{"url":"a.jpg","type":7,"priority":0},
		{"url":"b.jpg","type":7,"priority":1},
		{"url":"c.jpg","type":9,"priority":5}]}}`)

	imgs := n.mainImages(doc.Get("goods"))
	if len(imgs) != 2 {
		t.Fatalf("expected the two type-7 images, got %d", len(imgs))
	}
	if imgs[0].URL != "a.jpg" || imgs[1].URL != "b.jpg" {
		t.Fatalf("unexpected inference result: %v", imgs)
	}
	if imgs[0].TypeTag != 7 || imgs[1].TypeTag != 7 {
		t.Fatalf("expected inferred type 7, got %d/%d", imgs[0].TypeTag, imgs[1].TypeTag)
	}
}

func TestDetailImagesLegacyDecoration(t *testing.T) {
	n := testNormalizer()
	doc := mustDoc(t, `{"goods":{"goods_id":1,"decoration":[
		{"type":"image","priority":3,"contents":[{"img_url":"late.jpg"}]},
		{"type":"text","priority":0,"contents":[{"img_url":"ignored.jpg"}]},
		{"type":"image","priority":1,"contents":[{"img_url":"d1.jpg"},{"img_url":"d2.jpg"}]}]}}`)

	imgs := n.detailImages(doc.Get("goods"))
	if len(imgs) != 3 {
		t.Fatalf("expected 3 detail images, got %d", len(imgs))
	}
	if imgs[0].URL != "d1.jpg" || imgs[1].URL != "d2.jpg" || imgs[2].URL != "late.jpg" {
		t.Fatalf("unexpected order: %v", imgs)
	}
	for i := 1; i < len(imgs); i++ {
		if imgs[i-1].Priority > imgs[i].Priority {
			t.Fatalf("priorities not ascending: %v", imgs)
		}
	}
}

func TestSkuProjection(t *testing.T) {
	n := testNormalizer()
	doc := mustDoc(t, `{"goods":{"goods_id":1},"sku":[
		{"sku_id":10,"group_price":1999,"normal_price":2999,"quantity":5,
		 "thumb_url":"s1.jpg","specs":[{"spec_key":"颜色","spec_value":"红色"},{"spec_key":"尺寸","spec_value":"XL"}]},
		{"sku_id":11,"group_price":25.5,"specs":[]}]}`)

	skus := n.skus(doc, doc.Get("goods"))
	if len(skus) != 2 {
		t.Fatalf("expected 2 skus, got %d", len(skus))
	}
	if skus[0].SpecText != "红色_XL" {
		t.Fatalf("unexpected spec text %q", skus[0].SpecText)
	}
	if !almostEqual(skus[0].GroupPrice, 19.99) || !almostEqual(skus[0].NormalPrice, 29.99) {
		t.Fatalf("unexpected prices: %v / %v", skus[0].GroupPrice, skus[0].NormalPrice)
	}
	if !almostEqual(skus[1].GroupPrice, 25.5) {
		t.Fatalf("fractional price must pass through, got %v", skus[1].GroupPrice)
	}

	imgs := skuImages(skus)
	if len(imgs) != 1 {
		t.Fatalf("expected one sku image, got %d", len(imgs))
	}
	if imgs[0].Index != 1 || imgs[0].URL != "s1.jpg" {
		t.Fatalf("unexpected sku image: %+v", imgs[0])
	}
}

func TestVideoProjection(t *testing.T) {
	n := testNormalizer()
	doc := mustDoc(t, `{"goods":{"goods_id":1,"gallery":[
		{"url":"thumb.jpg","video_url":"main.mp4","priority":4,"type":1},
		{"url":"detail.mp4","priority":1,"type":2},
		{"url":"plain.jpg","priority":0,"type":1}]}}`)

	videos := n.videos(doc.Get("goods"))
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	if videos[0].Kind != models.DetailVideo || videos[0].URL != "detail.mp4" {
		t.Fatalf("unexpected first video: %+v", videos[0])
	}
	if videos[0].Thumbnail != "" {
		t.Fatalf("detail video must not carry a thumbnail, got %q", videos[0].Thumbnail)
	}
	if videos[1].Kind != models.MainVideo || videos[1].Thumbnail != "thumb.jpg" {
		t.Fatalf("unexpected main video: %+v", videos[1])
	}
	for i := 1; i < len(videos); i++ {
		if videos[i-1].Priority > videos[i].Priority {
			t.Fatalf("video priorities not ascending: %v", videos)
		}
	}
}

func TestCleanGoodsName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"normal name", "normal name"},
		{"a/b\\c:d*e", "a_b_c_d_e"},
		{" .name. ", "name"},
		{"CON", "商品_CON"},
		{"", "未知商品"},
	}
	for _, c := range cases {
		if got := CleanGoodsName(c.in); got != c.want {
			t.Fatalf("CleanGoodsName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanGoodsNameByteCapKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("救", 100) // 300 Bytes UTF-8
	got := CleanGoodsName(long)
	if len(got) > 200 {
		t.Fatalf("expected at most 200 bytes, got %d", len(got))
	}
	for _, r := range got {
		if r != '救' {
			t.Fatalf("truncation split a multi-byte character: %q", r)
		}
	}
	if len(got) != 198 { // 66 vollständige Zeichen à 3 Bytes
		t.Fatalf("expected 198 bytes, got %d", len(got))
	}
}

func TestFolderName(t *testing.T) {
	rec := &models.ProductRecord{GoodsID: "42", GoodsName: "救生圈"}
	if got := FolderName(rec); got != "救生圈_42" {
		t.Fatalf("unexpected folder name %q", got)
	}
	rec = &models.ProductRecord{GoodsID: "42"}
	if got := FolderName(rec); got != "商品_42" {
		t.Fatalf("unexpected folder name %q", got)
	}
	rec = &models.ProductRecord{}
	if got := FolderName(rec); got != "未知商品" {
		t.Fatalf("unexpected folder name %q", got)
	}
}

func TestImageExt(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"http://img.example.com/a.JPG", ".jpg"},
		{"http://img.example.com/a.jpeg?x=1", ".jpg"},
		{"http://img.example.com/a.png", ".png"},
		{"http://img.example.com/a.webp", ".webp"},
		{"http://img.example.com/a", ".jpg"},
	}
	for _, c := range cases {
		if got := ImageExt(c.in); got != c.want {
			t.Fatalf("ImageExt(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
