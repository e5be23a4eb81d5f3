package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/scribahq/scriba/service"
)

type SheetsController struct {
	SheetsService *service.SheetsService
}

func (h *SheetsController) Spreadsheets(ctx *gin.Context) {

	max, _ := strconv.ParseInt(ctx.Query("max"), 10, 64)

	files, err := h.SheetsService.List(max)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"files": files}})
}

func (h *SheetsController) SpreadsheetData(ctx *gin.Context) {

	info, err := h.SheetsService.Info(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": info})
}

func (h *SheetsController) Values(ctx *gin.Context) {

	values, err := h.SheetsService.ReadRange(ctx.Param("id"), ctx.Query("range"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": values})
}

type SheetValuesData struct {
	Range  string          `json:"range"`
	Values [][]interface{} `json:"values,omitempty"`
	Raw    bool            `json:"raw,omitempty"`
	Clear  bool            `json:"clear,omitempty"`
}

func (h *SheetsController) ModifyValues(ctx *gin.Context) {

	spreadsheetID := ctx.Param("id")

	var data *SheetValuesData
	err := ctx.ShouldBindJSON(&data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	if data.Clear {
		clearedRange, err := h.SheetsService.ClearRange(spreadsheetID, data.Range)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			log.Error().Err(err).Msgf("Error:")
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
			"spreadsheetId": spreadsheetID,
			"clearedRange":  clearedRange,
		}})
		return
	}

	result, err := h.SheetsService.UpdateRange(spreadsheetID, data.Range, data.Values, data.Raw)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": result})
}

type SpreadsheetData struct {
	Operation string `json:"operation,omitempty"`

	Title      string   `json:"title,omitempty"`
	SheetNames []string `json:"sheetNames,omitempty"`

	SpreadsheetID string `json:"spreadsheetId,omitempty"`
	SheetName     string `json:"sheetName,omitempty"`
}

func (h *SheetsController) ManageSpreadsheet(ctx *gin.Context) {

	var data *SpreadsheetData
	err := ctx.ShouldBindJSON(&data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	switch data.Operation {
	case "", "create":
		info, err := h.SheetsService.Create(data.Title, data.SheetNames)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			log.Error().Err(err).Msgf("Error:")
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"data": info})

	case "add_sheet":
		sheet, err := h.SheetsService.AddSheet(data.SpreadsheetID, data.SheetName)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			log.Error().Err(err).Msgf("Error:")
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"data": sheet})

	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported spreadsheet operation %q", data.Operation)})
	}
}
