package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"vendorvault/internal/model"
	"vendorvault/internal/repository"
	"vendorvault/pkg/logger"
)

// PaymentDueTask 平台费逾期巡检：每小时扫一次，
// 把到期日已过且仍在营业的店铺置为逾期状态
type PaymentDueTask struct {
	storeRepo repository.StoreRepository
	cron      *cron.Cron
}

// NewPaymentDueTask 创建巡检任务
func NewPaymentDueTask(storeRepo repository.StoreRepository) *PaymentDueTask {
	return &PaymentDueTask{
		storeRepo: storeRepo,
		cron:      cron.New(),
	}
}

// Start 注册并启动定时任务
func (t *PaymentDueTask) Start() error {
	if _, err := t.cron.AddFunc("0 * * * *", t.run); err != nil {
		return err
	}
	t.cron.Start()
	logger.Infof("平台费逾期巡检任务已启动")
	return nil
}

// Stop 停止定时任务，等待在跑的任务结束
func (t *PaymentDueTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
}

func (t *PaymentDueTask) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores, err := t.storeRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		logger.Errorf("查询逾期店铺失败: %v", err)
		return
	}
	for _, store := range stores {
		if err := t.storeRepo.UpdateFields(ctx, store.ID, map[string]interface{}{
			"store_disable": model.StoreOverdue,
		}); err != nil {
			logger.Errorf("标记店铺逾期失败: storeId=%d err=%v", store.ID, err)
			continue
		}
		logger.Warnf("店铺平台费逾期，已暂停营业: storeId=%d name=%s", store.ID, store.StoreName)
	}
	if len(stores) > 0 {
		logger.Infof("逾期巡检完成，共处理 %d 家店铺", len(stores))
	}
}
