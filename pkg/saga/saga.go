// Package saga 实现通用的Saga补偿事务框架
//
// 将长事务拆分为多个本地短事务，每个短事务有对应的补偿操作；
// 任一步骤失败时按逆序执行已完成步骤的补偿操作。
package saga

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Step 表示Saga中的一个步骤
//
// Action是正向操作（如预占库存），Compensate是补偿操作（如释放库存）。
// Action和Compensate都必须支持幂等，补偿可能因重试被多次调用。
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// CompensationHook 补偿完成后的回调（用于打点）
// failed为补偿失败的步骤名列表，空表示全部补偿成功
type CompensationHook func(failed []string)

// Saga 表示一个Saga事务
type Saga struct {
	steps    []Step
	executed []Step
	timeout  time.Duration
	onComp   CompensationHook
}

// NewSaga 创建一个新的Saga事务
//
// timeout为整体超时时间，超时会立即触发补偿流程
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// OnCompensation 注册补偿回调
func (s *Saga) OnCompensation(hook CompensationHook) {
	s.onComp = hook
}

// AddStep 添加一个Saga步骤
//
// 步骤按添加顺序执行，按逆序补偿。
// Action和Compensate都可以为nil（最后一步通常无需补偿）。
// 补偿操作必须完全独立，不依赖后续步骤的结果。
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga事务
//
// 按顺序执行每个步骤的Action；某步失败时逆序执行已完成步骤的
// Compensate，然后返回失败步骤的错误。
// Saga保证最终一致性而非强一致性，补偿期间数据可能处于中间状态。
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 补偿使用新Context，避免补偿也被超时打断
			s.compensate(context.Background())
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿操作
//
// 某个Compensate失败时继续执行后续补偿（尽最大努力），
// 失败步骤记入日志并通过回调上报，需人工介入处理。
func (s *Saga) compensate(ctx context.Context) {
	var failed []string

	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]

		if step.Compensate != nil {
			if err := step.Compensate(ctx); err != nil {
				failed = append(failed, step.Name)
				log.Printf("saga补偿失败[步骤:%s]: %v", step.Name, err)
			}
		}
	}

	if s.onComp != nil {
		s.onComp(failed)
	}

	s.executed = nil
}
