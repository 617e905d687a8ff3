package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"tedbus_server/server/api"
	"tedbus_server/server/common/infra/cache"
	"tedbus_server/server/common/infra/docdb"
	"tedbus_server/server/common/infra/mq"
	"tedbus_server/server/common/infra/object"
	"tedbus_server/server/repository"
	"tedbus_server/server/service"
)

type Server struct {
	HTTPServer *http.Server
	Mongo      *mongo.Client
	Redis      *redis.Client
	MQConn     *amqp.Connection

	publisher *service.AMQPPublisher
}

func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := docdb.NewClient(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("initialize mongo: %w", err)
	}
	if err := docdb.Ping(ctx, mongoClient); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	// Close whatever already connected if a later init step fails.
	var (
		redisClient *redis.Client
		mqConn      *amqp.Connection
		amqpPub     *service.AMQPPublisher
	)
	initialized := false
	defer func() {
		if initialized {
			return
		}
		if amqpPub != nil {
			amqpPub.Close()
		}
		if mqConn != nil {
			_ = mqConn.Close()
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		_ = mongoClient.Disconnect(ctx)
	}()

	minioClient, err := object.NewClient(cfg.StorageS3Endpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageUseSSL)
	if err != nil {
		return nil, fmt.Errorf("initialize object storage: %w", err)
	}
	if cfg.StorageEnsureBucket {
		if err := object.EnsureBucket(ctx, minioClient, cfg.StorageBucket); err != nil {
			return nil, fmt.Errorf("ensure storage bucket: %w", err)
		}
	}
	objectStore := object.NewStore(minioClient, cfg.StorageBucket, cfg.StoragePublicBaseURL)

	var postCache service.Cache
	if cfg.UseCache {
		redisClient = cache.NewClient(cfg.RedisAddr)
		if err := cache.Ping(ctx, redisClient); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		postCache = cache.NewStore(redisClient)
	}

	var publisher service.Publisher
	if cfg.UseMQ {
		mqConn, err = mq.NewConnection(cfg.AMQPURL)
		if err != nil {
			return nil, fmt.Errorf("initialize amqp: %w", err)
		}
		amqpPub, err = service.NewAMQPPublisher(mqConn)
		if err != nil {
			return nil, fmt.Errorf("initialize amqp publisher: %w", err)
		}
		publisher = amqpPub
	}

	uploadSvc := service.NewUploadService(objectStore, repository.NewFileRepository(db), publisher)
	postSvc := service.NewPostService(repository.NewPostRepository(db), postCache)
	orgSvc := service.NewOrgService(repository.NewOrgRepository(db))

	h := api.NewHandler(uploadSvc, postSvc, orgSvc)
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))
	h.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	initialized = true
	return &Server{
		HTTPServer: httpServer,
		Mongo:      mongoClient,
		Redis:      redisClient,
		MQConn:     mqConn,
		publisher:  amqpPub,
	}, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.MQConn != nil {
		_ = s.MQConn.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.Mongo != nil {
		_ = s.Mongo.Disconnect(ctx)
	}
	return s.HTTPServer.Shutdown(ctx)
}
