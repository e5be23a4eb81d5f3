package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/scribahq/scriba/controller"
	"github.com/scribahq/scriba/migrations"
	"github.com/scribahq/scriba/repository"
	"github.com/scribahq/scriba/service"
	"github.com/scribahq/scriba/util"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/tasks/v1"
	htransport "google.golang.org/api/transport/http"
)

func main() {
	level, err := zerolog.ParseLevel(os.Getenv("SCRIBA_LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	mongoClient, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(os.Getenv("SCRIBA_MONGODB_URI")))
	if err != nil {
		panic(fmt.Sprintf("failed to connect mongo: %v", err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		panic(fmt.Sprintf("failed to ping mongo: %v", err))
	}

	if err := migrations.EnsureOperationIndexes(mongoClient); err != nil {
		panic(fmt.Sprintf("failed to ensure operation indexes: %v", err))
	}

	// One authed client for every Google service, with request logging on its
	// transport.
	googleClient, _, err := htransport.NewClient(context.TODO(),
		option.WithCredentialsJSON([]byte(os.Getenv("SCRIBA_GOOGLEAPIS_KEY"))),
		option.WithScopes(docs.DocumentsScope, drive.DriveScope, sheets.SpreadsheetsScope, tasks.TasksScope),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to init google http client: %v", err))
	}
	googleClient.Transport = util.NewTransportWithLogger(googleClient.Transport)

	docsRepository, err := docs.NewService(context.TODO(), option.WithHTTPClient(googleClient))
	if err != nil {
		panic(fmt.Sprintf("failed to init docs: %v", err))
	}
	driveRepository, err := drive.NewService(context.TODO(), option.WithHTTPClient(googleClient))
	if err != nil {
		panic(fmt.Sprintf("failed to init drive: %v", err))
	}
	sheetsRepository, err := sheets.NewService(context.TODO(), option.WithHTTPClient(googleClient))
	if err != nil {
		panic(fmt.Sprintf("failed to init sheets: %v", err))
	}
	tasksRepository, err := tasks.NewService(context.TODO(), option.WithHTTPClient(googleClient))
	if err != nil {
		panic(fmt.Sprintf("failed to init tasks: %v", err))
	}

	operationRepository := repository.NewOperationRepository(mongoClient)

	driveService := service.NewDriveService(driveRepository)
	docsService := service.NewDocsService(service.NewDocsGateway(docsRepository), operationRepository, driveService)
	sheetsService := service.NewSheetsService(sheetsRepository, driveRepository)
	tasksService := service.NewTasksService(tasksRepository)

	docsController := &controller.DocsController{DocsService: docsService}
	driveController := &controller.DriveController{DriveService: driveService}
	sheetsController := &controller.SheetsController{SheetsService: sheetsService}
	tasksController := &controller.TasksController{TasksService: tasksService}

	r := gin.Default()
	r.Use(controller.Pause())

	r.GET("/health", controller.Health)

	api := r.Group("/api")

	api.POST("/docs", docsController.CreateDocument)
	api.GET("/docs/text", docsController.Texts)
	api.GET("/docs/:id/text", docsController.Text)
	api.GET("/docs/:id/structure", docsController.Structure)
	api.GET("/docs/:id/complexity", docsController.Complexity)
	api.GET("/docs/:id/tables/:index", docsController.TableDetails)
	api.POST("/docs/:id/edits", docsController.ModifyText)
	api.POST("/docs/:id/elements", docsController.InsertElements)
	api.POST("/docs/:id/tables", docsController.CreateTable)
	api.POST("/docs/:id/tables/:index/rows", docsController.TableRows)
	api.POST("/docs/:id/tables/:index/columns", docsController.TableColumns)
	api.POST("/docs/:id/tables/:index/merge", docsController.MergeTableCells)
	api.POST("/docs/:id/headers", docsController.WriteHeaderFooter)
	api.DELETE("/docs/:id/headers", docsController.RemoveHeaderFooter)
	api.POST("/docs/:id/batch", docsController.ExecuteBatch)
	api.GET("/docs/:id/operations", docsController.Operations)

	api.GET("/drive/files", driveController.Files)
	api.POST("/drive/files", driveController.ManageFile)
	api.GET("/drive/files/:id", driveController.FileData)
	api.GET("/drive/files/:id/content", driveController.FileContent)

	api.GET("/sheets", sheetsController.Spreadsheets)
	api.POST("/sheets", sheetsController.ManageSpreadsheet)
	api.GET("/sheets/:id", sheetsController.SpreadsheetData)
	api.GET("/sheets/:id/values", sheetsController.Values)
	api.POST("/sheets/:id/values", sheetsController.ModifyValues)

	api.GET("/tasklists", tasksController.TaskLists)
	api.POST("/tasklists", tasksController.CreateTaskList)
	api.GET("/tasklists/:id", tasksController.TaskListData)
	api.PATCH("/tasklists/:id", tasksController.RenameTaskList)
	api.DELETE("/tasklists/:id", tasksController.DeleteTaskList)
	api.GET("/tasklists/:id/tasks", tasksController.Tasks)
	api.POST("/tasklists/:id/tasks", tasksController.CreateTask)
	api.GET("/tasklists/:id/tasks/:taskId", tasksController.TaskData)
	api.PATCH("/tasklists/:id/tasks/:taskId", tasksController.UpdateTask)
	api.DELETE("/tasklists/:id/tasks/:taskId", tasksController.DeleteTask)
	api.POST("/tasklists/:id/tasks/:taskId/move", tasksController.MoveTask)
	api.POST("/tasklists/:id/clear", tasksController.ClearCompleted)

	r.Run(":" + os.Getenv("SCRIBA_PORT"))
}
