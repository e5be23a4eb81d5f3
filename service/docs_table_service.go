package service

import (
	"fmt"
	"strings"

	"github.com/scribahq/scriba/entity"
	"google.golang.org/api/docs/v1"
)

type CreateTableParams struct {
	Index       *int64     `json:"index,omitempty"`
	Rows        int64      `json:"rows,omitempty"`
	Columns     int64      `json:"columns,omitempty"`
	Data        [][]string `json:"data,omitempty"`
	BoldHeaders *bool      `json:"boldHeaders,omitempty"`
}

type CreateTableResult struct {
	DocumentID string `json:"documentId"`
	Index      int64  `json:"index"`
	Rows       int64  `json:"rows"`
	Columns    int64  `json:"columns"`
	Retried    bool   `json:"retried,omitempty"`
	Summary    string `json:"summary"`
	Requests   int    `json:"requests"`
	Replies    int    `json:"replies"`
	Link       string `json:"link"`
}

type TableData struct {
	TableIndex int        `json:"tableIndex"`
	Rows       int64      `json:"rows"`
	Columns    int64      `json:"columns"`
	StartIndex int64      `json:"startIndex"`
	EndIndex   int64      `json:"endIndex"`
	Data       [][]string `json:"data"`
}

type TableRowParams struct {
	TableIndex int   `json:"tableIndex"`
	RowIndex   int64 `json:"rowIndex"`
	Count      int   `json:"count,omitempty"`
	Below      bool  `json:"below,omitempty"`
}

type TableColumnParams struct {
	TableIndex  int   `json:"tableIndex"`
	ColumnIndex int64 `json:"columnIndex"`
	Count       int   `json:"count,omitempty"`
	Right       bool  `json:"right,omitempty"`
}

type MergeCellsParams struct {
	TableIndex  int   `json:"tableIndex"`
	RowIndex    int64 `json:"rowIndex"`
	ColumnIndex int64 `json:"columnIndex"`
	RowSpan     int64 `json:"rowSpan"`
	ColumnSpan  int64 `json:"columnSpan"`
}

type TableMutationResult struct {
	DocumentID string `json:"documentId"`
	TableIndex int    `json:"tableIndex"`
	Operation  string `json:"operation"`
	Requests   int    `json:"requests"`
	Replies    int    `json:"replies"`
	Link       string `json:"link"`
}

// tableGeometry holds the layout facts of a table the caller just created.
// A freshly inserted R x C table has a fully known shape, so every cell's
// position can be derived without re-reading the document.
type tableGeometry struct {
	insertIndex int64
	rows        int64
	columns     int64
}

// tableStart is one past the insertion point because the service writes a
// newline before the table element.
func (g tableGeometry) tableStart() int64 {
	return g.insertIndex + 1
}

// cellInsertionIndex returns where text must be inserted to land inside
// cell (row, column) of the still-empty table. The table and each row
// occupy one structural position, each empty cell two (cell marker plus
// its empty paragraph).
func (g tableGeometry) cellInsertionIndex(row, column int64) int64 {
	return g.tableStart() + 3 + row*(2*g.columns+1) + 2*column
}

// compileCellPopulation builds the insert requests for every non-empty
// cell, in descending index order. Each insert shifts everything after it,
// so writing back-to-front keeps every remaining target index valid.
func compileCellPopulation(g tableGeometry, data [][]string) []*docs.Request {
	var requests []*docs.Request
	for r := len(data) - 1; r >= 0; r-- {
		for c := len(data[r]) - 1; c >= 0; c-- {
			if data[r][c] == "" {
				continue
			}
			requests = append(requests, newInsertTextRequest(data[r][c], g.cellInsertionIndex(int64(r), int64(c)), ""))
		}
	}
	return requests
}

// compileHeaderBold covers the first row's populated span with one bold
// request. Ordered after every cell insert in the same batch, so the span
// already accounts for the inserted texts' lengths.
func compileHeaderBold(g tableGeometry, firstRow []string) *docs.Request {
	var rowLen int64
	for _, text := range firstRow {
		rowLen += utf16Len(text)
	}
	if rowLen == 0 {
		return nil
	}

	start := g.cellInsertionIndex(0, 0)
	end := g.cellInsertionIndex(0, int64(len(firstRow)-1)) + rowLen

	bold := true
	style, fields := newTextStyleFromParams(&TextStyleParams{Bold: &bold})
	return newUpdateTextStyleRequest(style, fields, start, end, "")
}

func validateTableData(data [][]string, rows, columns int64) error {
	if int64(len(data)) > rows {
		return fmt.Errorf("data has %d rows but the table only %d", len(data), rows)
	}
	for i, row := range data {
		if int64(len(row)) != int64(len(data[0])) {
			return fmt.Errorf("data row %d has %d columns, row 0 has %d", i, len(row), len(data[0]))
		}
		if int64(len(row)) > columns {
			return fmt.Errorf("data row %d has %d columns but the table only %d", i, len(row), columns)
		}
	}
	return nil
}

// CreateTableWithData creates a table and fills it in two batches: one for
// the empty table, one for cell contents plus optional header bolding.
//
// Inserting at the document's very end is rejected by the service because
// the insertion index must be strictly below the end index. That rejection
// is retried exactly once at index-1; if the retry fails too, the original
// boundary error is surfaced unchanged.
func (s *DocsService) CreateTableWithData(documentID string, p CreateTableParams) (*CreateTableResult, error) {
	rows, columns := p.Rows, p.Columns
	if rows == 0 && len(p.Data) > 0 {
		rows = int64(len(p.Data))
	}
	if columns == 0 && len(p.Data) > 0 {
		columns = int64(len(p.Data[0]))
	}
	if rows < 1 || columns < 1 {
		return nil, fmt.Errorf("table needs at least one row and one column")
	}
	if err := validateTableData(p.Data, rows, columns); err != nil {
		return nil, err
	}
	if p.Index == nil {
		return nil, fmt.Errorf("index is required for table creation")
	}
	index := *p.Index
	if index < 0 {
		return nil, fmt.Errorf("index must not be negative")
	}
	if index == 0 {
		index = 1
	}

	createRes, err := s.backend.BatchUpdate(documentID, []*docs.Request{newInsertTableRequest(index, rows, columns)})
	retried := false
	if err != nil && isBoundaryError(err) && index > 1 {
		boundaryErr := err
		createRes, err = s.backend.BatchUpdate(documentID, []*docs.Request{newInsertTableRequest(index-1, rows, columns)})
		if err != nil {
			return nil, fmt.Errorf("failed to create table: %w", boundaryErr)
		}
		index--
		retried = true
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	geom := tableGeometry{insertIndex: index, rows: rows, columns: columns}
	fill := compileCellPopulation(geom, p.Data)
	if (p.BoldHeaders == nil || *p.BoldHeaders) && len(p.Data) > 0 {
		if req := compileHeaderBold(geom, p.Data[0]); req != nil {
			fill = append(fill, req)
		}
	}

	var fillRes *docs.BatchUpdateDocumentResponse
	if len(fill) > 0 {
		fillRes, err = s.backend.BatchUpdate(documentID, fill)
		if err != nil {
			return nil, fmt.Errorf("failed to populate table: %w", err)
		}
	}

	requests := 1 + len(fill)
	s.audit(documentID, "create_table", requests, fillRes)

	result := &CreateTableResult{
		DocumentID: documentID,
		Index:      index,
		Rows:       rows,
		Columns:    columns,
		Retried:    retried,
		Summary:    fmt.Sprintf("created %dx%d table at index %d", rows, columns, index),
		Requests:   requests,
		Link:       documentLink(documentID),
	}
	if createRes != nil {
		result.Replies += len(createRes.Replies)
	}
	if fillRes != nil {
		result.Replies += len(fillRes.Replies)
	}
	return result, nil
}

// ExtractTable reads the document and returns the nth table's contents as
// a row-major grid of cell texts, without the structural trailing newlines.
func (s *DocsService) ExtractTable(documentID string, tableIndex int) (*TableData, error) {
	table, err := s.tableByIndex(documentID, tableIndex)
	if err != nil {
		return nil, err
	}

	data := make([][]string, 0, len(table.Table.Cells))
	for _, row := range table.Table.Cells {
		texts := make([]string, 0, len(row))
		for _, cell := range row {
			texts = append(texts, strings.TrimRight(cell.Text, "\n"))
		}
		data = append(data, texts)
	}

	return &TableData{
		TableIndex: tableIndex,
		Rows:       table.Table.Rows,
		Columns:    table.Table.Columns,
		StartIndex: table.StartIndex,
		EndIndex:   table.EndIndex,
		Data:       data,
	}, nil
}

func (s *DocsService) InsertTableRows(documentID string, p TableRowParams) (*TableMutationResult, error) {
	table, err := s.tableByIndex(documentID, p.TableIndex)
	if err != nil {
		return nil, err
	}
	if p.RowIndex < 0 || p.RowIndex >= table.Table.Rows {
		return nil, fmt.Errorf("rowIndex %d out of range for a %d-row table", p.RowIndex, table.Table.Rows)
	}

	count := p.Count
	if count < 1 {
		count = 1
	}
	requests := make([]*docs.Request, 0, count)
	for i := 0; i < count; i++ {
		requests = append(requests, newInsertTableRowRequest(table.StartIndex, p.RowIndex, p.Below))
	}
	return s.mutateTable(documentID, p.TableIndex, "table_insert_rows", requests)
}

func (s *DocsService) InsertTableColumns(documentID string, p TableColumnParams) (*TableMutationResult, error) {
	table, err := s.tableByIndex(documentID, p.TableIndex)
	if err != nil {
		return nil, err
	}
	if p.ColumnIndex < 0 || p.ColumnIndex >= table.Table.Columns {
		return nil, fmt.Errorf("columnIndex %d out of range for a %d-column table", p.ColumnIndex, table.Table.Columns)
	}

	count := p.Count
	if count < 1 {
		count = 1
	}
	requests := make([]*docs.Request, 0, count)
	for i := 0; i < count; i++ {
		requests = append(requests, newInsertTableColumnRequest(table.StartIndex, p.ColumnIndex, p.Right))
	}
	return s.mutateTable(documentID, p.TableIndex, "table_insert_columns", requests)
}

// DeleteTableRows removes count rows starting at rowIndex. Each delete
// closes the gap, so repeating the same location removes consecutive rows.
func (s *DocsService) DeleteTableRows(documentID string, p TableRowParams) (*TableMutationResult, error) {
	table, err := s.tableByIndex(documentID, p.TableIndex)
	if err != nil {
		return nil, err
	}
	count := p.Count
	if count < 1 {
		count = 1
	}
	if p.RowIndex < 0 || p.RowIndex+int64(count) > table.Table.Rows {
		return nil, fmt.Errorf("cannot delete rows [%d, %d) of a %d-row table", p.RowIndex, p.RowIndex+int64(count), table.Table.Rows)
	}
	if int64(count) == table.Table.Rows {
		return nil, fmt.Errorf("cannot delete every row; delete the table instead")
	}

	requests := make([]*docs.Request, 0, count)
	for i := 0; i < count; i++ {
		requests = append(requests, newDeleteTableRowRequest(table.StartIndex, p.RowIndex))
	}
	return s.mutateTable(documentID, p.TableIndex, "table_delete_rows", requests)
}

func (s *DocsService) DeleteTableColumns(documentID string, p TableColumnParams) (*TableMutationResult, error) {
	table, err := s.tableByIndex(documentID, p.TableIndex)
	if err != nil {
		return nil, err
	}
	count := p.Count
	if count < 1 {
		count = 1
	}
	if p.ColumnIndex < 0 || p.ColumnIndex+int64(count) > table.Table.Columns {
		return nil, fmt.Errorf("cannot delete columns [%d, %d) of a %d-column table", p.ColumnIndex, p.ColumnIndex+int64(count), table.Table.Columns)
	}
	if int64(count) == table.Table.Columns {
		return nil, fmt.Errorf("cannot delete every column; delete the table instead")
	}

	requests := make([]*docs.Request, 0, count)
	for i := 0; i < count; i++ {
		requests = append(requests, newDeleteTableColumnRequest(table.StartIndex, p.ColumnIndex))
	}
	return s.mutateTable(documentID, p.TableIndex, "table_delete_columns", requests)
}

func (s *DocsService) MergeTableCells(documentID string, p MergeCellsParams) (*TableMutationResult, error) {
	table, err := s.tableByIndex(documentID, p.TableIndex)
	if err != nil {
		return nil, err
	}
	if p.RowSpan < 1 || p.ColumnSpan < 1 {
		return nil, fmt.Errorf("rowSpan and columnSpan must be at least 1")
	}
	if p.RowIndex < 0 || p.RowIndex+p.RowSpan > table.Table.Rows ||
		p.ColumnIndex < 0 || p.ColumnIndex+p.ColumnSpan > table.Table.Columns {
		return nil, fmt.Errorf("merge range exceeds the %dx%d table", table.Table.Rows, table.Table.Columns)
	}

	requests := []*docs.Request{
		newMergeTableCellsRequest(table.StartIndex, p.RowIndex, p.ColumnIndex, p.RowSpan, p.ColumnSpan),
	}
	return s.mutateTable(documentID, p.TableIndex, "table_merge_cells", requests)
}

func (s *DocsService) mutateTable(documentID string, tableIndex int, kind string, requests []*docs.Request) (*TableMutationResult, error) {
	res, err := s.backend.BatchUpdate(documentID, requests)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", kind, err)
	}
	s.audit(documentID, kind, len(requests), res)

	result := &TableMutationResult{
		DocumentID: documentID,
		TableIndex: tableIndex,
		Operation:  kind,
		Requests:   len(requests),
		Link:       documentLink(documentID),
	}
	if res != nil {
		result.Replies = len(res.Replies)
	}
	return result, nil
}

// tableByIndex re-parses the document and returns its nth table. Indices
// go stale after any mutation, so nothing here is cached.
func (s *DocsService) tableByIndex(documentID string, tableIndex int) (*entity.DocumentElement, error) {
	if tableIndex < 0 {
		return nil, fmt.Errorf("tableIndex must not be negative")
	}
	doc, err := s.backend.GetDocument(documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	structure := parseDocument(doc)
	seen := 0
	for _, element := range structure.Elements {
		if element.Kind != ElementKindTable || element.Table == nil {
			continue
		}
		if seen == tableIndex {
			return element, nil
		}
		seen++
	}
	return nil, fmt.Errorf("document %s has %d table(s), no table %d", documentID, seen, tableIndex)
}
