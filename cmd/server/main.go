package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nikhilv/blogfeed/internal/auth"
	"github.com/nikhilv/blogfeed/internal/config"
	"github.com/nikhilv/blogfeed/internal/feed"
	"github.com/nikhilv/blogfeed/internal/gql"
	"github.com/nikhilv/blogfeed/internal/images"
	"github.com/nikhilv/blogfeed/internal/middleware"
	"github.com/nikhilv/blogfeed/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	cache := store.NewFeedCache(rdb)

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}
	imageMgr := images.NewManager(minioStore)

	// ── Services ─────────────────────────────────────────────
	codec := auth.NewTokenCodec(cfg.JWTSecret)
	authSvc := auth.NewService(userStore, codec)
	feedSvc := feed.NewService(postStore, userStore, imageMgr, cache)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(authSvc)
	feedHandler := feed.NewHandler(feedSvc)
	imageHandler := images.NewHandler(imageMgr)

	schema, err := gql.NewSchema(authSvc, feedSvc, userStore)
	if err != nil {
		log.Fatalf("graphql schema: %v", err)
	}
	gqlHandler := gql.NewHandler(schema)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Identity(codec))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	// Feed routes; handlers enforce authentication where required
	r.Route("/feed", func(r chi.Router) {
		r.Get("/posts", feedHandler.GetPosts)
		r.Post("/post", feedHandler.CreatePost)
		r.Get("/post/{postId}", feedHandler.GetPost)
		r.Put("/post/{postId}", feedHandler.UpdatePost)
		r.Delete("/post/{postId}", feedHandler.DeletePost)
	})

	// Images
	r.Put("/post-image", imageHandler.Upload)
	r.Get("/images/*", imageHandler.Serve)

	// GraphQL
	r.Post("/graphql", gqlHandler.ServeHTTP)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
