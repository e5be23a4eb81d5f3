package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flowchartsman/retry"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

const (
	defaultValuesRange   = "A1:Z1000"
	valuesPreviewMaxRows = 50
)

type SheetsService struct {
	sheetsClient *sheets.Service
	driveClient  *drive.Service
}

func NewSheetsService(sheetsClient *sheets.Service, driveClient *drive.Service) *SheetsService {
	return &SheetsService{
		sheetsClient: sheetsClient,
		driveClient:  driveClient,
	}
}

type SpreadsheetInfo struct {
	SpreadsheetID string       `json:"spreadsheetId"`
	Title         string       `json:"title"`
	Link          string       `json:"link"`
	Sheets        []*SheetInfo `json:"sheets"`
}

type SheetInfo struct {
	SheetID int64  `json:"sheetId"`
	Title   string `json:"title"`
	Rows    int64  `json:"rows"`
	Columns int64  `json:"columns"`
}

type RangeValues struct {
	SpreadsheetID string          `json:"spreadsheetId"`
	Range         string          `json:"range"`
	Rows          int             `json:"rows"`
	Values        [][]interface{} `json:"values"`
	Preview       string          `json:"preview"`
}

type UpdateRangeResult struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	Range          string `json:"range"`
	UpdatedCells   int64  `json:"updatedCells"`
	UpdatedRows    int64  `json:"updatedRows"`
	UpdatedColumns int64  `json:"updatedColumns"`
}

func (s *SheetsService) Info(spreadsheetID string) (*SpreadsheetInfo, error) {
	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var spreadsheet *sheets.Spreadsheet
	err := retrier.Run(func() error {
		_spreadsheet, err := s.sheetsClient.Spreadsheets.Get(spreadsheetID).Do()
		if err != nil {
			if IsNotFound(err) {
				return retry.Stop(err)
			}
			return err
		}

		spreadsheet = _spreadsheet
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}

	return spreadsheetInfo(spreadsheet), nil
}

// List returns the most recently modified spreadsheets visible to the
// account.
func (s *SheetsService) List(max int64) ([]*drive.File, error) {
	if max <= 0 {
		max = 25
	}

	res, err := s.driveClient.Files.List().
		Q(`trashed = false and mimeType = 'application/vnd.google-apps.spreadsheet'`).
		Fields("files(id, name, modifiedTime, webViewLink)").
		OrderBy("modifiedTime desc").
		PageSize(max).
		Do()
	if err != nil {
		return nil, err
	}

	return res.Files, nil
}

func (s *SheetsService) ReadRange(spreadsheetID, rangeName string) (*RangeValues, error) {
	if rangeName == "" {
		rangeName = defaultValuesRange
	}

	retrier := retry.NewRetrier(5, 100*time.Millisecond, time.Second)

	var res *sheets.ValueRange
	err := retrier.Run(func() error {
		_res, err := s.sheetsClient.Spreadsheets.Values.Get(spreadsheetID, rangeName).Do()
		if err != nil {
			if IsNotFound(err) {
				return retry.Stop(err)
			}
			return err
		}

		res = _res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rangeName, err)
	}

	return &RangeValues{
		SpreadsheetID: spreadsheetID,
		Range:         res.Range,
		Rows:          len(res.Values),
		Values:        res.Values,
		Preview:       valuesPreview(res.Values),
	}, nil
}

func (s *SheetsService) UpdateRange(spreadsheetID, rangeName string, values [][]interface{}, raw bool) (*UpdateRangeResult, error) {
	if rangeName == "" {
		return nil, errors.New("range is required")
	}
	if len(values) == 0 {
		return nil, errors.New("values are required")
	}

	inputOption := "USER_ENTERED"
	if raw {
		inputOption = "RAW"
	}

	res, err := s.sheetsClient.Spreadsheets.Values.
		Update(spreadsheetID, rangeName, &sheets.ValueRange{Values: values}).
		ValueInputOption(inputOption).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update range %s: %w", rangeName, err)
	}

	return &UpdateRangeResult{
		SpreadsheetID:  spreadsheetID,
		Range:          res.UpdatedRange,
		UpdatedCells:   res.UpdatedCells,
		UpdatedRows:    res.UpdatedRows,
		UpdatedColumns: res.UpdatedColumns,
	}, nil
}

func (s *SheetsService) ClearRange(spreadsheetID, rangeName string) (string, error) {
	if rangeName == "" {
		return "", errors.New("range is required")
	}

	res, err := s.sheetsClient.Spreadsheets.Values.
		Clear(spreadsheetID, rangeName, &sheets.ClearValuesRequest{}).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to clear range %s: %w", rangeName, err)
	}

	return res.ClearedRange, nil
}

func (s *SheetsService) Create(title string, sheetNames []string) (*SpreadsheetInfo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("spreadsheet title is required")
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}
	for _, name := range sheetNames {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: name},
		})
	}

	created, err := s.sheetsClient.Spreadsheets.Create(spreadsheet).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	return spreadsheetInfo(created), nil
}

func (s *SheetsService) AddSheet(spreadsheetID, sheetName string) (*SheetInfo, error) {
	if strings.TrimSpace(sheetName) == "" {
		return nil, errors.New("sheet name is required")
	}

	res, err := s.sheetsClient.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: sheetName}}},
		},
	}).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet to %s: %w", spreadsheetID, err)
	}

	if len(res.Replies) == 0 || res.Replies[0].AddSheet == nil || res.Replies[0].AddSheet.Properties == nil {
		return nil, errors.New("service returned no properties for the created sheet")
	}

	properties := res.Replies[0].AddSheet.Properties
	return &SheetInfo{SheetID: properties.SheetId, Title: properties.Title}, nil
}

func spreadsheetInfo(spreadsheet *sheets.Spreadsheet) *SpreadsheetInfo {
	info := &SpreadsheetInfo{
		SpreadsheetID: spreadsheet.SpreadsheetId,
		Link:          spreadsheet.SpreadsheetUrl,
	}
	if spreadsheet.Properties != nil {
		info.Title = spreadsheet.Properties.Title
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet == nil || sheet.Properties == nil {
			continue
		}
		sheetInfo := &SheetInfo{
			SheetID: sheet.Properties.SheetId,
			Title:   sheet.Properties.Title,
		}
		if grid := sheet.Properties.GridProperties; grid != nil {
			sheetInfo.Rows = grid.RowCount
			sheetInfo.Columns = grid.ColumnCount
		}
		info.Sheets = append(info.Sheets, sheetInfo)
	}

	return info
}

// valuesPreview renders rows "Row  n: a | b | c", each row padded to the
// first row's width, capped at valuesPreviewMaxRows.
func valuesPreview(values [][]interface{}) string {
	if len(values) == 0 {
		return ""
	}

	width := len(values[0])
	lines := make([]string, 0, len(values)+1)
	for i, row := range values {
		if i == valuesPreviewMaxRows {
			lines = append(lines, fmt.Sprintf("... and %d more rows", len(values)-valuesPreviewMaxRows))
			break
		}

		cells := make([]string, 0, width)
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		for len(cells) < width {
			cells = append(cells, "")
		}
		lines = append(lines, fmt.Sprintf("Row %2d: %s", i+1, strings.Join(cells, " | ")))
	}

	return strings.Join(lines, "\n")
}
