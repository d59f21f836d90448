// @title           Lift Audit API
// @version         1.0
// @description     Lift inspection management backend - project data capture and report generation.

// @host      localhost:9000

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	"backend/handlers"
	"backend/repository"
	"backend/services"
	"backend/storage"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	if extra := os.Getenv("CORS_ALLOWED_ORIGIN"); extra != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, extra)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "X-XSRF-TOKEN",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

var cronRunning int32

func safeGo(
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	fn func(context.Context) error,
	cronLogger *log.Logger,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				if cronLogger != nil {
					cronLogger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				}
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("%s failed: %v", name, err)
			if cronLogger != nil {
				cronLogger.Printf("%s failed: %v", name, err)
			}
		} else {
			log.Printf("%s completed successfully", name)
			if cronLogger != nil {
				cronLogger.Printf("%s completed successfully", name)
			}
		}
	}()
}

func main() {
	db := storage.InitDB()
	gormDB := storage.InitGormDB()

	blobRoot := os.Getenv("BLOB_ROOT")
	if blobRoot == "" {
		blobRoot = "./data/blobs"
	}
	blobs := storage.NewBlobStore(blobRoot)

	repo := repository.NewReportRepository(db, gormDB)
	reportCache := services.NewReportCache(32, 5*time.Minute)
	emailService := services.NewEmailService()

	if lookupPath := os.Getenv("CAR_INTERIOR_LOOKUP_PATH"); lookupPath != "" {
		if err := services.LoadInteriorLookup(lookupPath); err != nil {
			log.Printf("Warning: failed to load car interior lookup from %s: %v", lookupPath, err)
		}
	}

	embedder := services.NewImageEmbedder(blobs.Fetch, services.ImageFetchLimitFromEnv())
	renderer := &services.DocumentRenderer{
		Embedder: embedder,
		// Read lazily so the template can be swapped without a restart.
		ReadTemplate: func() ([]byte, error) {
			path := os.Getenv("REPORT_TEMPLATE_PATH")
			if path == "" {
				path = "./templates/audit_report_template.docx"
			}
			return os.ReadFile(path)
		},
	}

	// Nightly maintenance at 02:30.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)

	cronLogFile, err := os.OpenFile("cron_errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Failed to open cron error log file: %v", err)
	}
	cronLogger := log.New(cronLogFile, "CRON_ERROR: ", log.LstdFlags)

	_, err = c.AddFunc("30 2 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			if cronLogger != nil {
				cronLogger.Println("Previous cron still running. Skipping this run.")
			}
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting nightly maintenance cron job")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		var wg sync.WaitGroup

		safeGo(ctx, &wg, "CleanupExpiredSessions", func(ctx context.Context) error {
			return storage.CleanupExpiredSessions(db)
		}, cronLogger)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Println("All cron jobs finished")
		case <-ctx.Done():
			log.Println("Cron timeout reached, jobs cancelled")
			if cronLogger != nil {
				cronLogger.Println("Cron timeout reached, jobs cancelled")
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule nightly maintenance cron job: %v", err)
	}

	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== AUTH ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/logout", handlers.LogoutHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))

	// ==================== USERS ====================
	r.GET("/api/users", handlers.GetAllUsers(db))
	r.POST("/api/users", handlers.CreateUser(db))
	r.GET("/api/users/:id", handlers.GetUser(db))
	r.PUT("/api/user/password", handlers.ChangePassword(db))
	r.PUT("/api/users/:id/suspend", handlers.SuspendUser(db))

	// ==================== ACCOUNTS ====================
	r.GET("/api/accounts", handlers.GetAccountsHandler(db))
	r.POST("/api/accounts", handlers.CreateAccountHandler(db))

	// ==================== PROJECTS ====================
	r.GET("/api/projects", handlers.GetProjectsHandler(db))
	r.POST("/api/projects", handlers.CreateProjectHandler(db))
	r.GET("/api/projects/:id", handlers.GetProjectHandler(db))
	r.PUT("/api/projects/:id", handlers.UpdateProjectHandler(db, reportCache))
	r.DELETE("/api/projects/:id", handlers.DeleteProjectHandler(db, reportCache))

	// ==================== EQUIPMENT ====================
	r.GET("/api/projects/:id/equipment", handlers.GetEquipmentByProjectHandler(db))
	r.POST("/api/equipment", handlers.CreateEquipmentHandler(db, reportCache))
	r.GET("/api/equipment/:id", handlers.GetEquipmentHandler(db))
	r.PUT("/api/equipment/:id", handlers.UpdateEquipmentHandler(db, reportCache))
	r.PUT("/api/equipment/:id/answers", handlers.UpdateEquipmentAnswersHandler(db, reportCache))
	r.DELETE("/api/equipment/:id", handlers.DeleteEquipmentHandler(db, reportCache))
	r.GET("/api/equipment/:id/tag", handlers.GenerateEquipmentTagJPEG(db))

	// ==================== FLOORS ====================
	r.GET("/api/equipment/:id/floors", handlers.GetFloorsByEquipmentHandler(db))
	r.POST("/api/floors", handlers.CreateFloorHandler(db, reportCache))
	r.PUT("/api/floors/:id", handlers.UpdateFloorHandler(db, reportCache))
	r.DELETE("/api/floors/:id", handlers.DeleteFloorHandler(db, reportCache))

	// ==================== CHECKLIST ====================
	r.GET("/api/checklist", handlers.GetChecklistCatalogHandler(db, gormDB))
	r.POST("/api/checklist", handlers.CreateChecklistItemHandler(db, gormDB))
	r.PUT("/api/checklist/:id", handlers.UpdateChecklistItemHandler(db, gormDB))
	r.DELETE("/api/checklist/:id", handlers.DeleteChecklistItemHandler(db, gormDB))

	// ==================== ATTACHMENTS ====================
	r.POST("/api/equipment/:id/attachments", handlers.UploadAttachmentHandler(db, blobs, reportCache))
	r.GET("/api/equipment/:id/attachments", handlers.GetAttachmentsByEquipmentHandler(db))
	r.GET("/api/attachments/:id/download", handlers.DownloadAttachmentHandler(db, blobs))
	r.DELETE("/api/attachments/:id", handlers.DeleteAttachmentHandler(db, reportCache))

	// ==================== REPORTS ====================
	r.GET("/api/projects/:id/reports/spreadsheet", handlers.GenerateInspectionSpreadsheetHandler(db, repo, reportCache))
	r.GET("/api/projects/:id/reports/document", handlers.GenerateAuditDocumentHandler(db, repo, reportCache, renderer, emailService))
	r.GET("/api/projects/:id/reports/defects", handlers.GenerateDefectSummaryPDFHandler(db, repo, reportCache))
	r.GET("/api/reports/template", handlers.DownloadReportTemplateHandler(db))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", portInt),
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
