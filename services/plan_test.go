package services

import (
	"path/filepath"
	"testing"

	"goods-hand/models"
)

func planRecord() *models.ProductRecord {
	return &models.ProductRecord{
		GoodsID:   "42",
		GoodsName: "救生圈",
		Gallery: []models.ImageRef{
			{URL: "http://img/a.jpg", Priority: 0},
			{URL: "http://img/b.png", Priority: 1},
		},
		DetailImages: []models.ImageRef{
			{URL: "http://img/d1.jpg", Priority: 0},
		},
		SkuImages: []models.SkuImage{
			{URL: "http://img/s1.jpg", Spec: "红色", SkuID: "10", Index: 1},
		},
		Videos: []models.VideoRef{
			{URL: "http://vid/main.mp4", Kind: models.MainVideo, Priority: 3},
		},
	}
}

func TestBuildDownloadPlan(t *testing.T) {
	plan := BuildDownloadPlan(planRecord(), "/out", 2)
	if plan.Total() != 5 {
		t.Fatalf("expected 5 items, got %d", plan.Total())
	}

	productDir := filepath.Join("/out", "救生圈_42")
	if got := plan.MainImages[0].Dir; got != filepath.Join(productDir, "产品主图") {
		t.Fatalf("unexpected main image dir %q", got)
	}
	if got := plan.MainImages[0].Filename; got != "主图_1.jpg" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := plan.MainImages[1].Filename; got != "主图_2.png" {
		t.Fatalf("extension must follow the url, got %q", got)
	}
	if got := plan.DetailImages[0].Filename; got != "详情图_1.jpg" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := plan.DetailImages[0].Dir; got != filepath.Join(productDir, "详情图") {
		t.Fatalf("unexpected detail dir %q", got)
	}
	if got := plan.SkuImages[0].Filename; got != "SKU图_1.jpg" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := plan.Videos[0].Filename; got != "main_3.mp4" {
		t.Fatalf("unexpected video filename %q", got)
	}
	if got := plan.Videos[0].Dir; got != filepath.Join(productDir, "产品视频") {
		t.Fatalf("unexpected video dir %q", got)
	}
}

func TestBuildDownloadPlanFormatOne(t *testing.T) {
	plan := BuildDownloadPlan(planRecord(), "/out", 1)
	productDir := filepath.Join("/out", "救生圈_42")
	if got := plan.MainImages[0].Dir; got != filepath.Join(productDir, "主图") {
		t.Fatalf("unexpected main image dir %q", got)
	}
	if got := plan.Videos[0].Dir; got != filepath.Join(productDir, "主图视频") {
		t.Fatalf("unexpected video dir %q", got)
	}
}

func TestBuildDownloadPlanUnknownFormatFallsBack(t *testing.T) {
	plan := BuildDownloadPlan(planRecord(), "/out", 99)
	if got := plan.MainImages[0].Dir; got != filepath.Join("/out", "救生圈_42", "产品主图") {
		t.Fatalf("unknown format must use format 2 folders, got %q", got)
	}
}

func TestBuildDownloadPlanEmptyRecord(t *testing.T) {
	rec := &models.ProductRecord{GoodsID: "7", GoodsName: "x"}
	plan := BuildDownloadPlan(rec, "/out", 2)
	if plan.Total() != 0 {
		t.Fatalf("expected empty plan, got %d items", plan.Total())
	}
}
