package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"assets-management/internal/authz"
	"assets-management/internal/dto"
	"assets-management/internal/repository"
)

// 导出时的分页抓取批量
const exportPageSize = 100

// ReportService 报表业务接口（只读）
type ReportService interface {
	// Get 按类别统计调用方地点的资产状态分布
	Get(ctx context.Context, actor authz.Actor, req *dto.ReportListRequest) ([]dto.ReportRow, int64, error)
	// Export 导出完整报表为 Excel，返回内容与建议文件名
	Export(ctx context.Context, actor authz.Actor) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

func (s *reportService) Get(ctx context.Context, actor authz.Actor, req *dto.ReportListRequest) ([]dto.ReportRow, int64, error) {
	req.Normalize()
	rows, total, err := s.repo.Report.Get(ctx, repository.ReportQuery{
		Location: actor.Location,
		SortBy:   req.SortBy,
		SortDir:  req.SortDir,
		Offset:   req.Offset(),
		Limit:    req.Size,
	})
	if err != nil {
		s.logger.Error("查询报表失败", zap.Error(err))
		return nil, 0, err
	}
	return toReportRows(rows), total, nil
}

func (s *reportService) Export(ctx context.Context, actor authz.Actor) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []interface{}{
		"Category", "Total", "Assigned", "Available",
		"Not available", "Waiting for recycling", "Recycled",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", err
	}

	// 逐页抓取完整报表，避免一次加载全部类别
	rowNum := 2
	for offset := 0; ; offset += exportPageSize {
		rows, _, err := s.repo.Report.Get(ctx, repository.ReportQuery{
			Location: actor.Location,
			SortBy:   "category",
			SortDir:  "asc",
			Offset:   offset,
			Limit:    exportPageSize,
		})
		if err != nil {
			s.logger.Error("查询报表失败", zap.Error(err))
			return nil, "", err
		}
		for _, row := range rows {
			cell := fmt.Sprintf("A%d", rowNum)
			values := []interface{}{
				row.Category, row.Total, row.Assigned, row.Available,
				row.NotAvailable, row.WaitingForRecycling, row.Recycled,
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return nil, "", err
			}
			rowNum++
		}
		if len(rows) < exportPageSize {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 文件失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("asset_report_%s_%s.xlsx", actor.Location, time.Now().Format("20060102"))
	return buf, filename, nil
}

func toReportRows(rows []repository.ReportRow) []dto.ReportRow {
	resp := make([]dto.ReportRow, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, dto.ReportRow{
			Category:            row.Category,
			Total:               row.Total,
			Assigned:            row.Assigned,
			Available:           row.Available,
			NotAvailable:        row.NotAvailable,
			WaitingForRecycling: row.WaitingForRecycling,
			Recycled:            row.Recycled,
		})
	}
	return resp
}
