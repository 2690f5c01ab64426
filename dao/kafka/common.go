package kafka

import (
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

const (
	TypePostSaved = iota + 1
)

const (
	TopicNotify = "topic-notify"
	GroupNotify = "group-notify"
)

var addr []string

var (
	PartitionNumOfNotify      = 2
	ReplicationFactorOfNotify = 1
	KafkaProducerRetryTime    = 5 // 发送失败，重试次数
)

type Message struct {
	Type int8 `json:"type"`
	Data any  `json:"data"`
}

// 帖子保存后的订阅通知载荷
type PostSavedEvent struct {
	PostID  int64  `json:"post_id"`
	TopicID int64  `json:"topic_id"`
	UserID  int64  `json:"user_id"`
	Summary string `json:"summary"`
}

var notifyWriter *kafka.Writer

func InitKafka() {
	initConfig()

	// 初始化 producer
	notifyWriter = &kafka.Writer{
		Addr:     kafka.TCP(addr...),
		Balancer: &kafka.Hash{}, // 哈希，同一主题的通知落到同一个 partition
	}

	createTopic(TopicNotify, PartitionNumOfNotify, ReplicationFactorOfNotify)
}

func initConfig() {
	addr = viper.GetStringSlice("kafka.addr")
	PartitionNumOfNotify = viper.GetInt("kafka.partition.notify")
	ReplicationFactorOfNotify = viper.GetInt("kafka.replication_factor.notify")
	KafkaProducerRetryTime = viper.GetInt("kafka.retry.producer")
}

func createTopic(topicName string, partitionNum, replicationFactor int) {
	// 连接至任意kafka节点
	if len(addr) == 0 {
		panic("kafka address length should not be zero")
	}
	conn, err := kafka.Dial("tcp", addr[0])
	if err != nil {
		panic(err.Error())
	}
	defer conn.Close()

	// 获取当前控制节点信息
	controller, err := conn.Controller()
	if err != nil {
		panic(err.Error())
	}
	var controllerConn *kafka.Conn
	// 连接至leader节点
	controllerConn, err = kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		panic(err.Error())
	}
	defer controllerConn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topicName,
			NumPartitions:     partitionNum,
			ReplicationFactor: replicationFactor,
		},
	}

	err = controllerConn.CreateTopics(topicConfigs...)
	if err != nil {
		panic(err.Error())
	}
}

func NewNotifyReader() *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: addr,
		Topic:   TopicNotify,
		GroupID: GroupNotify,
	})
}
