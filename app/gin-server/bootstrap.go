package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/yoockh/skillproctor/config"
	"github.com/yoockh/skillproctor/internal/logger"
)

// infra is the set of live connections a subcommand asked for.
type infra struct {
	log        *logrus.Logger
	assessment config.Assessment

	db    *gorm.DB
	mongo *mongo.Database
	redis *redis.Client // nil when not configured
}

type needs struct {
	mongo bool
	redis bool
}

func connect(n needs) (*infra, error) {
	log := logger.New()

	a, err := config.LoadAssessment()
	if err != nil {
		return nil, fmt.Errorf("assessment config: %w", err)
	}

	if err := config.InitPostgres(); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	log.Info("PostgreSQL connected")

	in := &infra{log: log, assessment: a, db: config.PostgresDB}

	if n.mongo {
		if err := config.InitMongo(); err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		in.mongo = config.MongoDatabase()
		log.Info("MongoDB connected")
	}

	if n.redis {
		switch err := config.InitRedis(); {
		case errors.Is(err, config.ErrRedisNotConfigured):
			log.Warn("redis not configured; using in-process cache and locks, live proctoring feed disabled")
		case err != nil:
			return nil, fmt.Errorf("redis: %w", err)
		default:
			in.redis = config.RedisClient
			log.Info("Redis connected")
		}
	}

	return in, nil
}

func (in *infra) close() {
	if sqlDB, err := in.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if in.mongo != nil {
		_ = in.mongo.Client().Disconnect(context.Background())
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
}
