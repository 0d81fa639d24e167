package tasks

import (
	"brandvault/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient handles task enqueuing and holds the shared Redis connection
// used by the finalize rate limiter.
type TaskClient struct {
	client      *asynq.Client
	logger      *logger.Logger
	redisClient *redis.Client
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	})

	return &TaskClient{
		client:      asynq.NewClient(redisOpt),
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

// RedisClient exposes the underlying connection for rate limiting.
func (c *TaskClient) RedisClient() *redis.Client {
	return c.redisClient
}

// EnqueueTempSweep queues an immediate sweep, outside the hourly schedule.
func (c *TaskClient) EnqueueTempSweep() error {
	task := asynq.NewTask(TaskTypeTempSweep, nil,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryMin),
		asynq.Timeout(TimeoutMedium),
	)
	info, err := c.client.Enqueue(task)
	if err != nil {
		return err
	}
	c.logger.Info("enqueued temp sweep %s", info.ID)
	return nil
}

// EnqueueTempSweepAt defers a sweep to the next occurrence of the cron
// expression instead of running it immediately.
func (c *TaskClient) EnqueueTempSweepAt(spec string) error {
	task := asynq.NewTask(TaskTypeTempSweep, nil,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryMin),
		asynq.Timeout(TimeoutMedium),
		CronSchedule(spec),
	)
	info, err := c.client.Enqueue(task)
	if err != nil {
		return err
	}
	c.logger.Info("scheduled temp sweep %s for %s", info.ID, spec)
	return nil
}

// Close closes the underlying clients
func (c *TaskClient) Close() error {
	if err := c.client.Close(); err != nil {
		return err
	}
	return c.redisClient.Close()
}
