package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateReference 生成支付流水号（幂等键）
// 格式：PAY + YYYYMMDDHHMMSS + uuid前8位
// 示例：PAY20260828123456-1a2b3c4d
// 时间前缀便于排序排查，uuid片段保证不可预测；全局唯一由唯一索引兜底
func GenerateReference() string {
	timePart := time.Now().Format("20060102150405")
	return fmt.Sprintf("PAY%s-%s", timePart, uuid.NewString()[:8])
}
