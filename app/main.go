package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/config"
	"github.com/Guyuepp/go-article-service/internal/event"
	"github.com/Guyuepp/go-article-service/internal/metrics"
	"github.com/Guyuepp/go-article-service/internal/repository"
	mongoRepo "github.com/Guyuepp/go-article-service/internal/repository/mongo"
	mysqlRepo "github.com/Guyuepp/go-article-service/internal/repository/mysql"
	myRedisCache "github.com/Guyuepp/go-article-service/internal/repository/redis"
	"github.com/Guyuepp/go-article-service/internal/rest"
	"github.com/Guyuepp/go-article-service/internal/rest/middleware"
	"github.com/Guyuepp/go-article-service/internal/upload"
	"github.com/Guyuepp/go-article-service/internal/usecase/article"
	"github.com/Guyuepp/go-article-service/internal/usecase/comment"
	"github.com/Guyuepp/go-article-service/internal/workers"
)

const (
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
	connectTimeout     = 10 * time.Second
	shutdownTimeout    = 5 * time.Second
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// prepare store
	articleDBRepo, userRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer closeStore()

	// prepare cache
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr(),
		Password: cfg.Cache.Pass,
		DB:       cfg.Cache.DB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("got error when closing the cache connection: %v", err)
		}
	}()
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	err = client.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		logrus.Fatalf("failed to open connection to cache: %v", err)
	}

	// Article相关的三层架构
	// 1. DB层 2. Cache层 3. Repository协调层
	articleCache := myRedisCache.NewArticleCache(client)
	bloomRepo := repository.NewBloomGuard(myRedisCache.NewRedisBloomRepo(client, cfg.Bloom.FilterSize))
	articleRepo := repository.NewArticleRepository(articleDBRepo, articleCache, bloomRepo, cfg.Cache.ArticleTTL)

	uploadCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	uploader, err := upload.New(uploadCtx, cfg)
	cancel()
	if err != nil {
		logrus.Fatalf("failed to prepare upload gateway: %v", err)
	}

	// events: dispatcher -> redis channel -> subscriber -> websocket hub
	base := logrus.StandardLogger()
	hub := event.NewHub(base, cfg.CORS.Origins())
	defer hub.Close()
	publisher := event.NewPublisher(client, cfg.Event.Channel)
	subscriber := event.NewSubscriber(client, cfg.Event.Channel, hub, base)
	dispatcher := workers.NewEventDispatcher(publisher, cfg.Event.Buffer, base)

	// Build service Layer
	articleSvc := article.NewService(articleRepo, userRepo, uploader, dispatcher, bloomRepo, cfg.Article.RequireImage)
	commentSvc := comment.NewService(articleRepo, userRepo, bloomRepo, dispatcher)

	// Prepare bloom filter
	if err := articleSvc.InitBloomFilter(ctx); err != nil {
		logrus.Fatalf("failed to init bloom filter: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newRouter(cfg, articleSvc, commentSvc, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		logrus.Fatalf("failed to listen on %s: %v", cfg.Server.Address, err)
	}
	logrus.Infof("Server is running on %s", cfg.Server.Address)

	if err := serve(ctx, srv, ln, dispatcher, subscriber.Start); err != nil {
		logrus.Errorf("server stopped with error: %v", err)
	}
	logrus.Info("Server exiting")
}

// serve runs srv on ln together with the background loops until ctx is done or one
// of them fails. The dispatcher outlives srv.Shutdown: requests still in flight
// during shutdown may enqueue events, and those are published before serve returns.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, dispatcher domain.EventDispatcher, background ...func(context.Context) error) error {
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		dispatcher.Start(dispatchCtx)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, run := range background {
		g.Go(func() error {
			return run(gctx)
		})
	}
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	stopDispatch()
	<-dispatched
	return err
}

func newRouter(cfg config.Config, articleSvc domain.ArticleUsecase, commentSvc domain.CommentUsecase, hub *event.Hub) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	route := gin.New()
	route.Use(gin.Recovery())
	route.Use(middleware.RequestLogger(logrus.StandardLogger()))
	route.Use(middleware.CORS(cfg.CORS.Origins()))
	route.Use(middleware.SetRequestContextWithTimeout(cfg.Context.Timeout))

	articleHandler := rest.NewArticleHandler(articleSvc, cfg.Upload.MaxBytes)
	commentHandler := rest.NewCommentHandler(commentSvc)
	authMiddleware := middleware.AuthMiddleware(cfg.JWT.Secret)

	rest.RegisterArticleRoutes(route.Group("/api/articles"), articleHandler, commentHandler, authMiddleware)

	route.GET("/ws", gin.WrapF(hub.ServeWS))
	route.GET("/metrics", gin.WrapH(metrics.Handler()))
	route.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return route
}

func setupLogger(cfg config.LogConfig) {
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

// openStore connects the configured driver and returns its article and user repositories.
func openStore(ctx context.Context, cfg config.Config) (domain.ArticleRepository, domain.UserRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMySQL:
		db, err := openMySQL(cfg.Database.DSN())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := mysqlRepo.Migrate(db); err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			sqlDB, err := db.DB()
			if err != nil {
				logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
				return
			}
			if err := sqlDB.Close(); err != nil {
				logrus.Errorf("got error when closing the DB connection: %v", err)
			}
		}
		return mysqlRepo.NewArticleRepository(db), mysqlRepo.NewUserRepository(db), closeFn, nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		m, err := mongoRepo.New(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := m.Close(ctx); err != nil {
				logrus.Errorf("got error when closing the mongo connection: %v", err)
			}
		}
		return m.Articles(), m.Users(), closeFn, nil
	}
}

// openMySQL retries until the database accepts connections.
func openMySQL(dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			} else if err = sqlDB.Ping(); err == nil {
				return db, nil
			} else {
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			}
		}
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, err
}
