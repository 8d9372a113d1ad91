package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"file-storage-server/config"
	_ "file-storage-server/docs"
	"file-storage-server/internal/handler"
	"file-storage-server/internal/repository"
	"file-storage-server/internal/security"
	"file-storage-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title File-storage-server
// @version 1.0
// @description REST API файлового хранилища: файлы, коллекции, корзина и публичные ссылки

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Не удалось применить миграции: %v", err)
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	fileRepo := repository.NewFileRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	shareRepo := repository.NewShareRepository(db)
	backlogRepo := repository.NewPurgeBacklogRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.S3AndRedis)*time.Second)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	resolver := service.NewNameResolver(fileRepo, collectionRepo)
	fileService := service.NewFileService(fileRepo, collectionRepo, cacheRepo, s3Service, resolver, time.Duration(cfg.TTL.S3AndRedis)*time.Second)
	collectionService := service.NewCollectionService(fileRepo, collectionRepo, membershipRepo, cacheRepo, resolver)
	lifecycleService := service.NewLifecycleService(fileRepo, collectionRepo, membershipRepo, shareRepo, backlogRepo, cacheRepo, s3Service, resolver)
	shareService := service.NewShareService(fileRepo, shareRepo, s3Service, &cfg.TTL)

	jwtService := security.NewJWTService(&cfg.JWT)

	fileHandler := handler.NewFileHandler(fileService, &cfg.TTL)
	collectionHandler := handler.NewCollectionHandler(collectionService)
	trashHandler := handler.NewTrashHandler(lifecycleService)
	shareHandler := handler.NewShareHandler(shareService)

	router.Use(config.DBMiddleware(db))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupFileRoutes(router, fileHandler, collectionHandler, trashHandler, shareHandler, jwtService, cfg)
	setupCollectionRoutes(router, collectionHandler, trashHandler, jwtService, cfg)
	setupTrashRoutes(router, trashHandler, jwtService, cfg)
	setupShareRoutes(router, shareHandler, jwtService, cfg)

	sweepInterval, err := time.ParseDuration(cfg.Sweep.Interval)
	if err != nil {
		log.Fatalf("Неверный интервал sweep: %v", err)
	}
	sweeper := service.NewPurgeSweeper(fileRepo, backlogRepo, s3Service, sweepInterval, cfg.Sweep.BatchSize)
	go sweeper.Run(ctx)

	runServer(ctx, srv)
}

func setupFileRoutes(r chi.Router, fh *handler.FileHandler, ch *handler.CollectionHandler, th *handler.TrashHandler, sh *handler.ShareHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/files", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))

		r.Get("/", fh.ListFiles)
		r.Post("/", fh.UploadFile)

		r.Route("/{file_id}", func(r chi.Router) {
			r.Get("/", fh.GetFile)
			r.Head("/", fh.GetFileHead)
			r.Put("/rename", fh.RenameFile)
			r.Delete("/", th.TrashFile)
			r.Post("/share", sh.IssueShare)

			r.Get("/collections", ch.ListFileCollections)
			r.Post("/collections", ch.AddFileToCollection)
			r.Delete("/collections/{collection_id}", ch.RemoveFileFromCollection)
		})
	})
}

func setupCollectionRoutes(r chi.Router, ch *handler.CollectionHandler, th *handler.TrashHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/collections", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))

		r.Get("/", ch.ListCollections)
		r.Post("/", ch.CreateCollection)

		r.Route("/{collection_id}", func(r chi.Router) {
			r.Get("/", ch.GetCollection)
			r.Put("/", ch.RenameCollection)
			r.Delete("/", th.TrashCollection)
		})
	})
}

func setupTrashRoutes(r chi.Router, th *handler.TrashHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/trash", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))

		r.Get("/", th.ListTrash)
		r.Post("/file/{file_id}/restore", th.RestoreFile)
		r.Post("/collection/{collection_id}/restore", th.RestoreCollection)
		r.Delete("/{item_id}", th.PurgeItem)
	})
}

func setupShareRoutes(r chi.Router, sh *handler.ShareHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/shares", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))
		r.Delete("/{token}", sh.RevokeShare)
	})

	// публичный доступ по токену, авторизация не требуется
	r.Route("/public/files", func(r chi.Router) {
		r.Get("/{token}", sh.ResolveShare)
		r.Head("/{token}", sh.ResolveShareHead)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
