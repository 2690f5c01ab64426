package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

func writeMessage(writer *kafka.Writer, topic, key string, _type int8, content any) (err error) {
	metadata := Message{
		Type: _type,
		Data: content,
	}
	val, _ := json.Marshal(metadata)

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: val,
	}

	// 投递消息到 kafka
	for i := 0; i < KafkaProducerRetryTime; i++ {
		err = writer.WriteMessages(context.TODO(), msg)
		if err == nil {
			return
		}
	}
	return errors.Wrap(err, "kafka-producer:writeMessage: WriteMessages")
}

// NotifyPostSaved 投递帖子保存事件，消费侧负责找到订阅者并转交外部投递渠道
func NotifyPostSaved(event PostSavedEvent) error {
	key := strconv.FormatInt(event.TopicID, 10)
	err := writeMessage(notifyWriter, TopicNotify, key, TypePostSaved, event)
	return errors.Wrap(err, "kafka-producer:NotifyPostSaved: writeMessage")
}
