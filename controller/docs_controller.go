package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/scribahq/scriba/service"
)

type DocsController struct {
	DocsService *service.DocsService
}

type CreateDocumentData struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

func (h *DocsController) CreateDocument(ctx *gin.Context) {

	var data *CreateDocumentData
	err := ctx.ShouldBindJSON(&data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	document, err := h.DocsService.CreateDocument(data.Title, data.Content)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": document})
}

func (h *DocsController) Text(ctx *gin.Context) {

	documentID := ctx.Param("id")
	includeTabs := ctx.DefaultQuery("tabs", "true") != "false"

	text, err := h.DocsService.ExtractText(documentID, includeTabs)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": text})
}

func (h *DocsController) Texts(ctx *gin.Context) {

	var documentIDs []string
	for _, id := range strings.Split(ctx.Query("ids"), ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			documentIDs = append(documentIDs, id)
		}
	}
	if len(documentIDs) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}

	texts, err := h.DocsService.ExtractMany(documentIDs)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": texts})
}

func (h *DocsController) Structure(ctx *gin.Context) {

	documentID := ctx.Param("id")
	detailed := ctx.Query("detailed") == "true"

	structure, err := h.DocsService.ParseStructure(documentID, detailed)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	maxElements, err := strconv.Atoi(ctx.Query("maxElements"))
	if err == nil && maxElements > 0 && len(structure.Elements) > maxElements {
		structure.Elements = structure.Elements[:maxElements]
		structure.Truncated = true
	}

	ctx.JSON(http.StatusOK, gin.H{"data": structure})
}

func (h *DocsController) Complexity(ctx *gin.Context) {

	complexity, err := h.DocsService.Complexity(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": complexity})
}

func (h *DocsController) TableDetails(ctx *gin.Context) {

	documentID := ctx.Param("id")
	tableIndex, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	if ctx.Query("view") == "data" {
		table, err := h.DocsService.ExtractTable(documentID, tableIndex)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			log.Error().Err(err).Msgf("Error:")
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"data": table})
		return
	}

	debug, err := h.DocsService.TableDetails(documentID, tableIndex)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": debug})
}

func (h *DocsController) ModifyText(ctx *gin.Context) {

	var params *service.ModifyTextParams
	err := ctx.ShouldBindJSON(&params)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	result, err := h.DocsService.ModifyText(ctx.Param("id"), *params)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *DocsController) InsertElements(ctx *gin.Context) {

	var items []service.InsertElementParams
	err := ctx.ShouldBindJSON(&items)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	results, err := h.DocsService.InsertElements(ctx.Param("id"), items)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": results})
}

func (h *DocsController) CreateTable(ctx *gin.Context) {

	var params *service.CreateTableParams
	err := ctx.ShouldBindJSON(&params)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	result, err := h.DocsService.CreateTableWithData(ctx.Param("id"), *params)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

type TableRowsData struct {
	Operation string `json:"operation,omitempty"`
	RowIndex  int64  `json:"rowIndex"`
	Count     int    `json:"count,omitempty"`
	Below     bool   `json:"below,omitempty"`
}

func (h *DocsController) TableRows(ctx *gin.Context) {

	documentID := ctx.Param("id")
	tableIndex, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	var data *TableRowsData
	err = ctx.ShouldBindJSON(&data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	params := service.TableRowParams{
		TableIndex: tableIndex,
		RowIndex:   data.RowIndex,
		Count:      data.Count,
		Below:      data.Below,
	}

	var result *service.TableMutationResult
	switch data.Operation {
	case "", "insert":
		result, err = h.DocsService.InsertTableRows(documentID, params)
	case "delete":
		result, err = h.DocsService.DeleteTableRows(documentID, params)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported rows operation %q", data.Operation)})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

type TableColumnsData struct {
	Operation   string `json:"operation,omitempty"`
	ColumnIndex int64  `json:"columnIndex"`
	Count       int    `json:"count,omitempty"`
	Right       bool   `json:"right,omitempty"`
}

func (h *DocsController) TableColumns(ctx *gin.Context) {

	documentID := ctx.Param("id")
	tableIndex, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	var data *TableColumnsData
	err = ctx.ShouldBindJSON(&data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	params := service.TableColumnParams{
		TableIndex:  tableIndex,
		ColumnIndex: data.ColumnIndex,
		Count:       data.Count,
		Right:       data.Right,
	}

	var result *service.TableMutationResult
	switch data.Operation {
	case "", "insert":
		result, err = h.DocsService.InsertTableColumns(documentID, params)
	case "delete":
		result, err = h.DocsService.DeleteTableColumns(documentID, params)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported columns operation %q", data.Operation)})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *DocsController) MergeTableCells(ctx *gin.Context) {

	documentID := ctx.Param("id")
	tableIndex, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	var params *service.MergeCellsParams
	err = ctx.ShouldBindJSON(&params)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}
	params.TableIndex = tableIndex

	result, err := h.DocsService.MergeTableCells(documentID, *params)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *DocsController) WriteHeaderFooter(ctx *gin.Context) {

	var params *service.WriteSectionParams
	err := ctx.ShouldBindJSON(&params)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	result, err := h.DocsService.WriteHeaderFooter(ctx.Param("id"), *params)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *DocsController) RemoveHeaderFooter(ctx *gin.Context) {

	params := service.RemoveSectionParams{
		Section: ctx.DefaultQuery("section", service.SectionKindHeader),
		Variant: ctx.Query("variant"),
	}

	result, err := h.DocsService.RemoveHeaderFooter(ctx.Param("id"), params)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *DocsController) ExecuteBatch(ctx *gin.Context) {

	var operations []json.RawMessage
	err := ctx.ShouldBindJSON(&operations)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	result, err := h.DocsService.ExecuteBatch(ctx.Param("id"), operations)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *DocsController) Operations(ctx *gin.Context) {

	documentID := ctx.Param("id")
	limit, _ := strconv.ParseInt(ctx.Query("limit"), 10, 64)

	operations, err := h.DocsService.RecentOperations(documentID, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": operations})
}
