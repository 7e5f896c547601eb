package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"insight/internal/attendance"
	"insight/internal/catalog"
	"insight/internal/cloudinary"
	"insight/internal/config"
	"insight/internal/faceclient"
	"insight/internal/facematch"
	"insight/internal/handler"
	"insight/internal/httpmiddleware"
	"insight/internal/mailer"
	"insight/internal/people"
	"insight/internal/queue"
	"insight/internal/report"
	"insight/internal/store"
	"insight/internal/theme"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: db not reachable: %v", err)
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "insight:jobs")
	}

	peopleSvc := people.NewService(people.NewRepository(db.Client))
	attSvc := attendance.NewService(attendance.NewRepository(db.Client))
	catalogRepo := catalog.NewRepository(db.Client)
	themeStore := theme.NewStore(db.Client, redisClient.Client)

	face := faceclient.New(cfg.FaceServiceURL, cfg.FaceSkip)
	faceStore := facematch.NewFaceStore(db.Client)
	enroller := facematch.NewEnroller(face, faceStore)

	// Each recognize request is one short-lived session over the submitted frame.
	recognize := func(ctx context.Context, image string) (facematch.Result, error) {
		sess := facematch.NewSession(&facematch.StillFrame{Image: image}, face, peopleSvc, faceStore, q)
		if err := sess.Start(ctx); err != nil {
			return facematch.Result{}, err
		}
		return sess.CaptureAndRecognize(ctx)
	}

	var transport mailer.Transport
	if cfg.SendgridAPIKey != "" {
		transport = mailer.NewSendgridTransport(cfg.SendgridAPIKey)
		log.Println("sendgrid transport configured")
	} else {
		transport = mailer.NewConsoleTransport()
		log.Println("SENDGRID_API_KEY not set, email goes to the log")
	}
	mail := mailer.NewService(transport, cfg.EmailFrom, cfg.EmailFromName)

	var uploads handler.Uploader
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryUploadPreset != "" {
		uploads = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, cfg.CloudinaryFolder)
		log.Println("cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("cloudinary not configured (CLOUDINARY_CLOUD_NAME / UPLOAD_PRESET not set)")
	}

	h := &handler.Handler{
		Cfg:        cfg,
		People:     peopleSvc,
		Attendance: attSvc,
		Catalog:    catalogRepo,
		Theme:      themeStore,
		Mail:       mail,
		Uploads:    uploads,
		Renderer:   report.NewRenderer(cfg.SchoolName),
		Enroller:   enroller,
		FaceHealth: face,
		Recognize:  recognize,
		Jobs:       q,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.CORS())
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db != nil && db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}
