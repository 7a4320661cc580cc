package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/internlink/assessment-service/internal/models"
	"github.com/internlink/assessment-service/internal/repositories"
)

// ImportExportService handles spreadsheet import of question rows and
// export of stored banks.
type ImportExportService interface {
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)

	ExportBankToCSV(ctx context.Context, assessmentID uint, actor Actor) ([]byte, error)
	ExportBankToExcel(ctx context.Context, assessmentID uint, actor Actor) ([]byte, error)
}

// ImportRowError describes why a single spreadsheet row was rejected.
// Rows fail independently; one bad row never aborts the import.
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

type ImportResult struct {
	TotalRows    int               `json:"total_rows"`
	SuccessCount int               `json:"success_count"`
	ErrorCount   int               `json:"error_count"`
	Errors       []ImportRowError  `json:"errors,omitempty"`
	Questions    []models.Question `json:"questions"`
}

type importExportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:   repo,
		logger: logger,
	}
}

// ===== IMPORT OPERATIONS =====

var requiredImportColumns = []string{"question", "option_a", "option_b", "correct_answer"}

var optionColumns = []string{"option_a", "option_b", "option_c", "option_d"}

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error) {
	s.logger.Info("Starting question import", "filename", filename)

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, reader)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.parseRows(records)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return s.parseRows(rows)
}

func (s *importExportService) parseRows(rows [][]string) (*ImportResult, error) {
	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	for _, col := range requiredImportColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &ImportResult{
		TotalRows: len(rows) - 1,
		Questions: make([]models.Question, 0, len(rows)-1),
	}

	for rowIndex, row := range rows[1:] {
		question, rowErrors := parseQuestionRow(row, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		result.Questions = append(result.Questions, *question)
		result.SuccessCount++
	}

	s.logger.Info("Question import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func parseQuestionRow(row []string, headerMap map[string]int, rowNum int) (*models.Question, []ImportRowError) {
	var rowErrors []ImportRowError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	text := getColumn("question")
	if text == "" {
		rowErrors = append(rowErrors, ImportRowError{
			Row: rowNum, Column: "question", Message: "required field", Value: text,
		})
		return nil, rowErrors
	}

	var options []string
	for _, col := range optionColumns {
		if option := getColumn(col); option != "" {
			options = append(options, option)
		}
	}
	if len(options) < 2 {
		rowErrors = append(rowErrors, ImportRowError{
			Row: rowNum, Column: "options", Message: "must have at least 2 options", Value: "",
		})
		return nil, rowErrors
	}

	answerStr := strings.ToUpper(getColumn("correct_answer"))
	correctAnswer := -1
	if len(answerStr) == 1 && answerStr >= "A" && answerStr <= "D" {
		correctAnswer = int(answerStr[0] - 'A')
	}
	if correctAnswer < 0 || correctAnswer >= len(options) {
		rowErrors = append(rowErrors, ImportRowError{
			Row: rowNum, Column: "correct_answer", Message: "must name one of the provided options (A, B, C or D)", Value: answerStr,
		})
		return nil, rowErrors
	}

	difficulty := models.DifficultyMedium
	if difficultyStr := strings.ToLower(getColumn("difficulty")); difficultyStr != "" {
		switch difficultyStr {
		case "easy":
			difficulty = models.DifficultyEasy
		case "medium":
			difficulty = models.DifficultyMedium
		case "hard":
			difficulty = models.DifficultyHard
		default:
			rowErrors = append(rowErrors, ImportRowError{
				Row: rowNum, Column: "difficulty", Message: "must be easy, medium or hard", Value: difficultyStr,
			})
			return nil, rowErrors
		}
	}

	return &models.Question{
		Text:          text,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Difficulty:    difficulty,
	}, nil
}

// ===== EXPORT OPERATIONS =====

var exportHeaders = []string{
	"Question", "Option A", "Option B", "Option C", "Option D", "Correct Answer", "Difficulty",
}

// ExportBankToCSV writes the full bank, answer key included, so only the
// bank's owner or an admin may call it.
func (s *importExportService) ExportBankToCSV(ctx context.Context, assessmentID uint, actor Actor) ([]byte, error) {
	assessment, err := s.getBankForExport(ctx, assessmentID, actor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, question := range assessment.Questions {
		if err := writer.Write(questionToRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *importExportService) ExportBankToExcel(ctx context.Context, assessmentID uint, actor Actor) ([]byte, error) {
	assessment, err := s.getBankForExport(ctx, assessmentID, actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, question := range assessment.Questions {
		for colIndex, value := range questionToRow(question) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *importExportService) getBankForExport(ctx context.Context, assessmentID uint, actor Actor) (*models.Assessment, error) {
	assessment, err := s.repo.Assessment().GetByID(ctx, assessmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}

	if actor.Role != models.RoleAdmin && assessment.CreatedBy != actor.UserID {
		return nil, NewPermissionError(actor.UserID, assessmentID, "assessment", "export", "not owner or insufficient permissions")
	}

	return assessment, nil
}

func questionToRow(question models.Question) []string {
	row := make([]string, len(exportHeaders))
	row[0] = question.Text
	for i, option := range question.Options {
		if i < 4 {
			row[1+i] = option
		}
	}
	if question.CorrectAnswer >= 0 && question.CorrectAnswer < 4 {
		row[5] = string(rune('A' + question.CorrectAnswer))
	}
	row[6] = string(question.Difficulty)
	return row
}
