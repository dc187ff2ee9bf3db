package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedExportFormat is returned for formats other than xlsx and pdf.
var ErrUnsupportedExportFormat = errors.New("unsupported export format")

// ExportFormat selects the grade report encoding.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
)

// ParseExportFormat validates a ?formato= value. Empty means xlsx.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(raw) {
	case "", ExportXLSX:
		return ExportXLSX, nil
	case ExportPDF:
		return ExportPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, raw)
	}
}

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ExportFile is a rendered report ready to be sent.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Sheet names of the XLSX report.
const (
	gradesSheet   = "Calificaciones"
	subjectsSheet = "Materias"
)

// ExportService renders the grade report.
type ExportService struct {
	repo     ReportStore
	fontPath string
	log      zerolog.Logger
	now      func() time.Time
}

// NewExportService creates a new ExportService. fontPath is the TTF used by
// the PDF renderer.
func NewExportService(repo ReportStore, fontPath string, log zerolog.Logger) *ExportService {
	return &ExportService{
		repo:     repo,
		fontPath: fontPath,
		log:      log.With().Str("component", "export_service").Logger(),
		now:      time.Now,
	}
}

type reportData struct {
	enrollments []model.EnrollmentDetail
	summaries   []model.SubjectSummary
}

// gather fetches both report sections concurrently.
func (s *ExportService) gather(ctx context.Context) (*reportData, error) {
	var (
		data           reportData
		enrollmentsErr error
		summariesErr   error
		wg             sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		data.enrollments, enrollmentsErr = s.repo.ListEnrollmentDetails(ctx)
	}()
	go func() {
		defer wg.Done()
		data.summaries, summariesErr = s.repo.ListSubjectSummaries(ctx)
	}()
	wg.Wait()

	if err := errors.Join(enrollmentsErr, summariesErr); err != nil {
		return nil, err
	}
	return &data, nil
}

// Render builds the grade report in the requested format.
func (s *ExportService) Render(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	data, err := s.gather(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case ExportXLSX:
		err = writeXLSX(&buf, data)
	case ExportPDF:
		err = s.writePDF(&buf, data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, format)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("format", string(format)).
		Int("enrollments", len(data.enrollments)).
		Int("bytes", buf.Len()).
		Msg("Grade report rendered")

	return &ExportFile{
		Name:        fmt.Sprintf("calificaciones_%s.%s", s.now().Format("20060102"), format),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

var gradeHeaders = []any{"Alumno", "Grado", "Email", "Materia", "Código", "Créditos", "Maestro", "Calificación"}
var subjectHeaders = []any{"Materia", "Código", "Créditos", "Maestro", "Total alumnos", "Promedio"}

func writeXLSX(buf *bytes.Buffer, data *reportData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gradesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(subjectsSheet); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	gradeRows := make([][]any, 0, len(data.enrollments))
	for _, e := range data.enrollments {
		gradeRows = append(gradeRows, []any{
			e.StudentName, e.StudentGrade, e.StudentEmail,
			e.SubjectName, e.SubjectCode, e.SubjectCredits,
			e.TeacherName, gradeCell(e.Grade),
		})
	}
	if err := fillSheet(f, gradesSheet, header, gradeHeaders, gradeRows); err != nil {
		return err
	}

	subjectRows := make([][]any, 0, len(data.summaries))
	for _, m := range data.summaries {
		subjectRows = append(subjectRows, []any{
			m.SubjectName, m.SubjectCode, m.SubjectCredits,
			m.TeacherName, m.TotalStudents, m.AverageGrade,
		})
	}
	if err := fillSheet(f, subjectsSheet, header, subjectHeaders, subjectRows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(buf); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, headerStyle int, headers []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

// gradeCell leaves ungraded enrollments blank.
func gradeCell(g *float64) any {
	if g == nil {
		return ""
	}
	return *g
}

const (
	pdfFont     = "report"
	pdfMargin   = 36.0
	pdfRowH     = 18.0
	pdfPageH    = 842.0
	pdfFontSize = 9
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Alumno", 130}, {"Materia", 120}, {"Código", 60}, {"Maestro", 130}, {"Calificación", 60},
}

func (s *ExportService) writePDF(buf *bytes.Buffer, data *reportData) error {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont(pdfFont, s.fontPath); err != nil {
		return fmt.Errorf("load report font %s: %w", s.fontPath, err)
	}

	newPage := func() error {
		pdf.AddPage()
		if err := pdf.SetFont(pdfFont, "", 14); err != nil {
			return err
		}
		pdf.SetXY(pdfMargin, pdfMargin)
		if err := pdf.Cell(nil, "Reporte de calificaciones "+s.now().Format("02/01/2006")); err != nil {
			return err
		}
		pdf.SetY(pdfMargin + 2*pdfRowH)
		if err := pdf.SetFont(pdfFont, "", pdfFontSize); err != nil {
			return err
		}
		cells := make([]string, len(pdfColumns))
		for i, c := range pdfColumns {
			cells[i] = c.title
		}
		if err := pdfRow(pdf, cells); err != nil {
			return err
		}
		y := pdf.GetY()
		pdf.Line(pdfMargin, y-4, pdfMargin+totalPDFWidth(), y-4)
		return nil
	}

	if err := newPage(); err != nil {
		return fmt.Errorf("pdf page: %w", err)
	}
	for _, e := range data.enrollments {
		if pdf.GetY()+pdfRowH > pdfPageH-pdfMargin {
			if err := newPage(); err != nil {
				return fmt.Errorf("pdf page: %w", err)
			}
		}
		grade := "-"
		if e.Grade != nil {
			grade = strconv.FormatFloat(*e.Grade, 'f', 1, 64)
		}
		if err := pdfRow(pdf, []string{e.StudentName, e.SubjectName, e.SubjectCode, e.TeacherName, grade}); err != nil {
			return fmt.Errorf("pdf row: %w", err)
		}
	}

	if err := pdf.Write(buf); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func pdfRow(pdf *gopdf.GoPdf, cells []string) error {
	y := pdf.GetY()
	x := pdfMargin
	for i, c := range pdfColumns {
		pdf.SetXY(x, y)
		if err := pdf.CellWithOption(&gopdf.Rect{W: c.width - 4, H: pdfRowH}, cells[i], gopdf.CellOption{}); err != nil {
			return err
		}
		x += c.width
	}
	pdf.SetY(y + pdfRowH)
	return nil
}

func totalPDFWidth() float64 {
	var w float64
	for _, c := range pdfColumns {
		w += c.width
	}
	return w
}
