package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"backend/internal/repository"

	"github.com/go-pdf/fpdf"
)

// csvColumnPrefix is the fixed leading column set of every CSV export. Dynamic
// form columns follow, taken from the first row's form_data keys; later rows'
// values are written positionally without reconciling their keys against the
// header, matching the established export format.
var csvColumnPrefix = []string{"ID", "Template", "Location", "Month/Year", "Submitted By", "Submitted At"}

// ReportService renders submissions to downloadable CSV and PDF documents.
type ReportService interface {
	ExportCSV(ctx context.Context, actor Actor, filter SubmissionListFilter) ([]byte, error)
	ExportPDF(ctx context.Context, actor Actor, req GenerateStatisticsRequest) ([]byte, error)
}

type reportService struct {
	submissions repository.SubmissionRepository
	statistics  StatisticsService
}

// NewReportService returns a new instance of ReportService.
func NewReportService(submissions repository.SubmissionRepository, statistics StatisticsService) ReportService {
	return &reportService{submissions: submissions, statistics: statistics}
}

func scopedReportFilter(actor Actor, filter SubmissionListFilter) repository.SubmissionFilter {
	repoFilter := repository.SubmissionFilter{
		MonthYear:  filter.MonthYear,
		TemplateID: filter.TemplateID,
		Status:     filter.Status,
	}
	if actor.locationScoped() {
		repoFilter.Location = actor.AssignedLocation
	} else {
		repoFilter.Location = filter.Location
	}
	return repoFilter
}

// sortedKeys returns the form keys in a stable order.
func sortedKeys(formData map[string]any) []string {
	keys := make([]string, 0, len(formData))
	for key := range formData {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *reportService) ExportCSV(ctx context.Context, actor Actor, filter SubmissionListFilter) ([]byte, error) {
	submissions, err := s.submissions.ListFiltered(ctx, scopedReportFilter(actor, filter))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if len(submissions) > 0 {
		header := append([]string{}, csvColumnPrefix...)
		header = append(header, sortedKeys(submissions[0].FormData.Data())...)
		if err := writer.Write(header); err != nil {
			return nil, fmt.Errorf("failed to write csv header: %w", err)
		}

		for i := range submissions {
			sub := &submissions[i]
			row := []string{
				sub.ID.String(),
				sub.TemplateID.String(),
				sub.ServiceLocation,
				sub.MonthYear,
				sub.SubmittedBy.String(),
				sub.SubmittedAt.UTC().Format(time.RFC3339),
			}
			formData := sub.FormData.Data()
			for _, key := range sortedKeys(formData) {
				row = append(row, fmt.Sprint(formData[key]))
			}
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportPDF renders the statistics summary and per-group tables as a document.
func (s *reportService) ExportPDF(ctx context.Context, actor Actor, req GenerateStatisticsRequest) ([]byte, error) {
	if req.GroupBy == "" {
		req.GroupBy = GroupByLocation
	}
	stats, err := s.statistics.Generate(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Submission Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Submission Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Summary table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	writeSummaryRow(pdf, "Total submissions", fmt.Sprintf("%d", stats.Summary.TotalSubmissions))
	for _, status := range sortedStatusKeys(stats.Summary.StatusCounts) {
		writeSummaryRow(pdf, "  "+status, fmt.Sprintf("%d", stats.Summary.StatusCounts[status]))
	}
	writeSummaryRow(pdf, "Approval rate", fmt.Sprintf("%.2f", stats.Summary.ApprovalRate))
	pdf.Ln(4)

	// Per-group table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "By "+stats.GroupBy, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(60, 7, "Group", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Total", "1", 0, "R", true, 0, "")
	statusKeys := sortedStatusKeys(stats.Summary.StatusCounts)
	for _, status := range statusKeys {
		pdf.CellFormat(22, 7, status, "1", 0, "R", true, 0, "")
	}
	pdf.CellFormat(24, 7, "Submitters", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, group := range stats.Groups {
		pdf.CellFormat(60, 6, group.Key, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", group.Total), "1", 0, "R", false, 0, "")
		for _, status := range statusKeys {
			pdf.CellFormat(22, 6, fmt.Sprintf("%d", group.StatusCounts[status]), "1", 0, "R", false, 0, "")
		}
		pdf.CellFormat(24, 6, fmt.Sprintf("%d", group.UniqueSubmitters), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummaryRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(60, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, value, "", 1, "R", false, 0, "")
}

func sortedStatusKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
