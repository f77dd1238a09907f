package order

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNo 生成订单号
// 格式：ORD + 时间戳(秒) + 6位随机数
// 全局唯一由orders.order_no唯一索引兜底，时间有序便于分库分表
func GenerateOrderNo() string {
	timestamp := time.Now().Unix()
	random := rand.Intn(1000000)
	return fmt.Sprintf("ORD%d%06d", timestamp, random)
}
