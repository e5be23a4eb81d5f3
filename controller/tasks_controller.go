package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/lctime"
	"github.com/rs/zerolog/log"
	"github.com/scribahq/scriba/entity"
	"github.com/scribahq/scriba/service"
	"github.com/scribahq/scriba/util"
)

type TasksController struct {
	TasksService *service.TasksService
}

func localizeDueDates(nodes []*entity.TaskNode, lang string) {
	for _, node := range nodes {
		if node.Due != "" {
			if t, err := time.Parse(time.RFC3339, node.Due); err == nil {
				node.DueLocal, _ = lctime.StrftimeLoc(util.IetfToIsoLangCode(lang), "%A, %d.%m.%Y", t)
			}
		}
		localizeDueDates(node.Subtasks, lang)
	}
}

func (h *TasksController) TaskLists(ctx *gin.Context) {

	max, _ := strconv.ParseInt(ctx.Query("max"), 10, 64)

	taskLists, nextPageToken, err := h.TasksService.ListTaskLists(max, ctx.Query("pageToken"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
		"taskLists":     taskLists,
		"nextPageToken": nextPageToken,
	}})
}

type TaskListTitleData struct {
	Title string `json:"title"`
}

func (h *TasksController) CreateTaskList(ctx *gin.Context) {

	var data *TaskListTitleData
	err := ctx.ShouldBindJSON(&data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	taskList, err := h.TasksService.CreateTaskList(data.Title)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": taskList})
}

func (h *TasksController) TaskListData(ctx *gin.Context) {

	taskList, err := h.TasksService.GetTaskList(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": taskList})
}

func (h *TasksController) RenameTaskList(ctx *gin.Context) {

	var data *TaskListTitleData
	err := ctx.ShouldBindJSON(&data)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	taskList, err := h.TasksService.RenameTaskList(ctx.Param("id"), data.Title)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": taskList})
}

func (h *TasksController) DeleteTaskList(ctx *gin.Context) {

	err := h.TasksService.DeleteTaskList(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{})
}

func (h *TasksController) Tasks(ctx *gin.Context) {

	var filters service.TaskFilters
	err := decoder.Decode(&filters, ctx.Request.URL.Query())
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	page, err := h.TasksService.ListTasks(ctx.Param("id"), filters)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	localizeDueDates(page.Tree, filters.Lang)

	ctx.JSON(http.StatusOK, gin.H{"data": page})
}

func (h *TasksController) CreateTask(ctx *gin.Context) {

	var params *service.CreateTaskParams
	err := ctx.ShouldBindJSON(&params)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	task, err := h.TasksService.CreateTask(ctx.Param("id"), *params)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *TasksController) TaskData(ctx *gin.Context) {

	task, err := h.TasksService.GetTask(ctx.Param("id"), ctx.Param("taskId"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *TasksController) UpdateTask(ctx *gin.Context) {

	var params *service.UpdateTaskParams
	err := ctx.ShouldBindJSON(&params)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	task, err := h.TasksService.UpdateTask(ctx.Param("id"), ctx.Param("taskId"), *params)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *TasksController) DeleteTask(ctx *gin.Context) {

	err := h.TasksService.DeleteTask(ctx.Param("id"), ctx.Param("taskId"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{})
}

func (h *TasksController) MoveTask(ctx *gin.Context) {

	var params *service.MoveTaskParams
	err := ctx.ShouldBindJSON(&params)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	task, err := h.TasksService.MoveTask(ctx.Param("id"), ctx.Param("taskId"), *params)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": task})
}

func (h *TasksController) ClearCompleted(ctx *gin.Context) {

	err := h.TasksService.ClearCompleted(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		log.Error().Err(err).Msgf("Error:")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{})
}
