package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/klauspost/lctime"
	"github.com/rs/zerolog/log"
	"github.com/scribahq/scriba/service"
	"github.com/scribahq/scriba/util"
	"google.golang.org/api/drive/v3"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type DriveController struct {
	DriveService *service.DriveService
}

type DriveFile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType,omitempty"`
	Size          int64  `json:"size,omitempty"`
	ModifiedTime  string `json:"modifiedTime,omitempty"`
	ModifiedLocal string `json:"modifiedLocal,omitempty"`
	Link          string `json:"link,omitempty"`
}

func driveFileViews(files []*drive.File, lang string) []*DriveFile {
	views := make([]*DriveFile, 0, len(files))
	for _, file := range files {
		if file == nil {
			continue
		}
		view := &DriveFile{
			ID:           file.Id,
			Name:         file.Name,
			MimeType:     file.MimeType,
			Size:         file.Size,
			ModifiedTime: file.ModifiedTime,
			Link:         file.WebViewLink,
		}
		if t, err := time.Parse(time.RFC3339, file.ModifiedTime); err == nil {
			view.ModifiedLocal, _ = lctime.StrftimeLoc(util.IetfToIsoLangCode(lang), "%A, %d.%m.%Y", t)
		}
		views = append(views, view)
	}

	return views
}

func (h *DriveController) Files(ctx *gin.Context) {

	var query service.SearchQuery
	err := decoder.Decode(&query, ctx.Request.URL.Query())
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	if query.Query == "" && query.FolderID != "" {
		files, nextPageToken, err := h.DriveService.FindAllByFolderID(query.FolderID, query.PageToken)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			log.Error().Err(err).Msgf("Error:")
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
			"files":         driveFileViews(files, query.Lang),
			"nextPageToken": nextPageToken,
		}})
		return
	}

	result, err := h.DriveService.Search(query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
		"files":         driveFileViews(result.Files, query.Lang),
		"nextPageToken": result.NextPageToken,
		"query":         result.Query,
		"freeText":      result.FreeText,
	}})
}

func (h *DriveController) FileData(ctx *gin.Context) {

	file, err := h.DriveService.FindOneByID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": file})
}

func (h *DriveController) FileContent(ctx *gin.Context) {

	fileID := ctx.Param("id")

	content, err := h.DriveService.ExportPlainText(fileID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
		"fileId":  fileID,
		"content": content,
	}})
}

type DriveFileData struct {
	Operation string `json:"operation"`

	FileID   string `json:"fileId,omitempty"`
	Name     string `json:"name,omitempty"`
	Content  string `json:"content,omitempty"`
	FolderID string `json:"folderId,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

func (h *DriveController) ManageFile(ctx *gin.Context) {

	var data *DriveFileData
	err := ctx.ShouldBindJSON(&data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	var file *drive.File
	switch data.Operation {
	case "create":
		file, err = h.DriveService.CreateFile(service.CreateFileParams{
			Name:     data.Name,
			Content:  data.Content,
			FolderID: data.FolderID,
			MimeType: data.MimeType,
		})
	case "create_folder":
		file, err = h.DriveService.CreateFolder(data.Name, data.FolderID)
	case "copy":
		file, err = h.DriveService.CopyFile(data.FileID, data.Name, data.FolderID)
	case "rename":
		err = h.DriveService.Rename(data.FileID, data.Name)
	case "move":
		file, err = h.DriveService.Move(data.FileID, data.FolderID)
	case "trash":
		file, err = h.DriveService.Trash(data.FileID)
	case "delete":
		err = h.DriveService.Delete(data.FileID)
	case "export_pdf":
		file, err = h.DriveService.ExportPDF(data.FileID, data.Name, data.FolderID)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported drive operation %q", data.Operation)})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	if file != nil {
		ctx.JSON(http.StatusOK, gin.H{"data": file})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{})
}
