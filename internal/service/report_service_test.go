package service

import (
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"assets-management/internal/dto"
	"assets-management/internal/model"
	"assets-management/internal/repository"
)

func setupReportService(rows []repository.ReportRow) (ReportService, *testRepos) {
	repos := newTestRepos()
	repos.report.rows = rows
	return NewReportService(repos.repo, testLogger()), repos
}

func sampleReportRows() []repository.ReportRow {
	return []repository.ReportRow{
		{Category: "Laptop", Total: 10, Assigned: 4, Available: 3, NotAvailable: 1, WaitingForRecycling: 1, Recycled: 1},
		{Category: "Monitor", Total: 5, Available: 5},
	}
}

func TestGetReport(t *testing.T) {
	svc, _ := setupReportService(sampleReportRows())

	rows, total, err := svc.Get(context.Background(), adminActor(1, model.LocationHanoi), &dto.ReportListRequest{})
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("期望 2 行，实际 total=%d len=%d", total, len(rows))
	}
	if rows[0].Category != "Laptop" || rows[0].Total != 10 || rows[0].Assigned != 4 {
		t.Errorf("首行统计不匹配: %+v", rows[0])
	}
}

func TestExportReport(t *testing.T) {
	svc, _ := setupReportService(sampleReportRows())

	buf, filename, err := svc.Export(context.Background(), adminActor(1, model.LocationHanoi))
	if err != nil {
		t.Fatalf("Export 应成功: %v", err)
	}
	if !strings.HasPrefix(filename, "asset_report_HN_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名格式不匹配: %s", filename)
	}

	// 回读生成的文件校验表头与数据行
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("生成的文件无法打开: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue("Report", "A1")
	if err != nil || header != "Category" {
		t.Errorf("期望 A1=Category，实际=%s (err=%v)", header, err)
	}
	firstCategory, _ := f.GetCellValue("Report", "A2")
	if firstCategory != "Laptop" {
		t.Errorf("期望 A2=Laptop，实际=%s", firstCategory)
	}
	firstTotal, _ := f.GetCellValue("Report", "B2")
	if firstTotal != "10" {
		t.Errorf("期望 B2=10，实际=%s", firstTotal)
	}
	secondCategory, _ := f.GetCellValue("Report", "A3")
	if secondCategory != "Monitor" {
		t.Errorf("期望 A3=Monitor，实际=%s", secondCategory)
	}
}
