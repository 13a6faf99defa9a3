package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/internal/infrastructure/buffer"
	"github.com/fastygo/progression/repository"
)

// BrokerHealth reports whether the notification broker is reachable.
type BrokerHealth interface {
	BrokerOnline() bool
}

// ProcessorConfig controls how the notification buffer is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	MaxAge     time.Duration
}

// BufferProcessor delivers notifications and parks the ones the broker
// rejects in the bbolt buffer until a later drain succeeds.
type BufferProcessor struct {
	store   *buffer.Store
	sink    repository.NotificationSink
	monitor BrokerHealth
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewBufferProcessor(
	store *buffer.Store,
	sink repository.NotificationSink,
	monitor BrokerHealth,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:   store,
		sink:    sink,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(int(cfg.Interval.Seconds()), 1))
	_, _ = bp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("notification buffer drain failed", zap.Error(err))
		}
	})

	return bp
}

func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("notification buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for a running drain to finish or ctx to expire.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("notification buffer processor stopped")
}

// Deliver sends n straight to the broker and buffers it when that fails.
// An error means the notification is lost.
func (bp *BufferProcessor) Deliver(ctx context.Context, n *domain.Notification) error {
	if bp == nil || n == nil {
		return domain.ErrInvalidPayload
	}

	if bp.online() {
		err := bp.sink.Append(ctx, n)
		if err == nil {
			return nil
		}
		bp.logger.Warn("notification publish failed, buffering",
			zap.String("customer_id", n.CustomerID),
			zap.String("employment_progression_id", n.EmploymentProgressionID),
			zap.Error(err))
	}

	if bp.store == nil {
		return errors.New("notification buffer not configured")
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return bp.store.Enqueue(buffer.Item{
		Kind:       buffer.KindNotification,
		CustomerID: n.CustomerID,
		Data:       payload,
	})
}

// Drain re-publishes one batch of buffered notifications.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if !bp.online() {
		bp.logger.Debug("skipping notification drain (broker offline)")
		return nil
	}

	if bp.cfg.MaxAge > 0 {
		dropped, err := bp.store.Expire(time.Now().UTC().Add(-bp.cfg.MaxAge))
		if err != nil {
			return err
		}
		if dropped > 0 {
			bp.logger.Warn("expired buffered notifications", zap.Int("count", dropped))
		}
	}

	items, err := bp.store.Peek(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := bp.publishItem(ctx, item); err != nil {
			bp.logger.Error("failed to publish buffered notification",
				zap.String("item_id", item.ID),
				zap.Int("retries", item.Retries),
				zap.Error(err))

			if item.Retries+1 >= bp.cfg.MaxRetries {
				bp.logger.Warn("dropping buffered notification (max retries reached)", zap.String("item_id", item.ID))
				if err := bp.store.Remove(item); err != nil {
					bp.logger.Warn("failed to remove buffered notification", zap.Error(err))
				}
				continue
			}
			if err := bp.store.Retry(item); err != nil {
				bp.logger.Error("failed to requeue buffered notification", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item); err != nil {
			bp.logger.Warn("failed to purge delivered notification", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of buffered notifications.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (bp *BufferProcessor) online() bool {
	return bp.monitor == nil || bp.monitor.BrokerOnline()
}

func (bp *BufferProcessor) publishItem(ctx context.Context, item buffer.Item) error {
	if item.Kind != buffer.KindNotification {
		return fmt.Errorf("unsupported buffer item kind %q", item.Kind)
	}
	var n domain.Notification
	if err := json.Unmarshal(item.Data, &n); err != nil {
		return err
	}
	return bp.sink.Append(ctx, &n)
}
