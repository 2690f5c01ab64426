package workers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"pybbm/dao/kafka"
	"pybbm/logger"
	"pybbm/logic"

	"github.com/pkg/errors"
)

// 消费侧的消息信封，data 延迟解码，按 type 分发
type notifyEnvelope struct {
	Type int8            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ConsumeNotify 消费帖子保存事件，解析出该主题的订阅者
// 实际投递（邮件、站内信）由下游系统负责，这里只做解析和交接日志
func ConsumeNotify(wg *sync.WaitGroup) {
	reader := kafka.NewNotifyReader()

	go func() {
		for {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			msg, err := reader.ReadMessage(ctx)
			cancel()
			if err != nil {
				if !errors.Is(err, context.DeadlineExceeded) {
					logger.Errorf("workers:ConsumeNotify: ReadMessage failed, reason: %v", err.Error())
					time.Sleep(time.Second * 10)
				}
				continue
			}

			wg.Add(1)

			var envelope notifyEnvelope
			if err := json.Unmarshal(msg.Value, &envelope); err != nil {
				logger.Errorf("workers:ConsumeNotify: unmarshal envelope failed, reason: %v", err.Error())
				wg.Done()
				continue
			}
			if envelope.Type != kafka.TypePostSaved {
				logger.Warnf("workers:ConsumeNotify: unexpected message type: %d", envelope.Type)
				wg.Done()
				continue
			}

			var event kafka.PostSavedEvent
			if err := json.Unmarshal(envelope.Data, &event); err != nil {
				logger.Errorf("workers:ConsumeNotify: unmarshal event failed, reason: %v", err.Error())
				wg.Done()
				continue
			}

			subscriberIDs, err := logic.GetTopicSubscriberIDs(event.TopicID)
			if err != nil {
				logger.ErrorWithStack(err)
				wg.Done()
				continue
			}

			// 发帖人自己不用通知
			notified := 0
			for _, userID := range subscriberIDs {
				if userID == event.UserID {
					continue
				}
				notified++
			}
			logger.Infof("workers:ConsumeNotify: post %d in topic %d, handed off to %d subscribers", event.PostID, event.TopicID, notified)

			wg.Done()
		}
	}()
}
