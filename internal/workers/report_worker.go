// Package workers runs background jobs off a redis stream.
package workers

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/services"
)

const (
	ReportStream = "report:jobs"
	reportGroup  = "report-workers"
)

// RedisReportQueue schedules report generation on ReportStream.
type RedisReportQueue struct {
	Redis  *redis.Client
	Stream string
}

func (q *RedisReportQueue) Enqueue(ctx context.Context, candidateID string) error {
	stream := q.Stream
	if stream == "" {
		stream = ReportStream
	}
	return q.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"candidate_id": candidateID,
			"ts_unix":      strconv.FormatInt(time.Now().UTC().Unix(), 10),
		},
	}).Err()
}

// ReportWorkerPool consumes report jobs with a consumer group so each job is
// handled by one replica.
type ReportWorkerPool struct {
	Redis      *redis.Client
	Reports    services.ReportService
	NumWorkers int
	Timeout    time.Duration // per job; narrative generation dominates

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string

	wg sync.WaitGroup
}

func (p *ReportWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Reports == nil {
		return errors.New("ReportWorkerPool missing dependency: Redis/Reports must be set")
	}
	if p.Stream == "" {
		p.Stream = ReportStream
	}
	if p.Group == "" {
		p.Group = reportGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Timeout <= 0 {
		p.Timeout = 3 * time.Minute
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		p.wg.Add(1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

// Wait blocks until every consumer has returned after ctx was cancelled.
func (p *ReportWorkerPool) Wait() { p.wg.Wait() }

func (p *ReportWorkerPool) runConsumer(ctx context.Context, consumer string) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    5,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			p.Logger.WithError(err).Warn("report stream read failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

// handleMsg never retries: a failed job is logged and acknowledged, and the
// admin can regenerate the report on demand.
func (p *ReportWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	candidateID, _ := msg.Values["candidate_id"].(string)
	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":     msg.ID,
		"candidate_id": candidateID,
	})
	if candidateID == "" {
		log.Warn("report job without candidate_id dropped")
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	rep, err := p.Reports.Generate(jobCtx, candidateID)
	if err != nil {
		log.WithError(err).Error("report generation failed")
		return
	}
	log.WithFields(logrus.Fields{
		"overall_status": rep.OverallStatus,
		"took_ms":        time.Since(start).Milliseconds(),
	}).Info("report generated")
}
