package saga

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSaga_Execute_Success 测试所有步骤成功的场景
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	saga := NewSaga(5 * time.Second)

	saga.AddStep("预占库存",
		func(ctx context.Context) error {
			executed = append(executed, "预占库存")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "释放库存")
			return nil
		},
	)

	saga.AddStep("落库订单",
		func(ctx context.Context) error {
			executed = append(executed, "落库订单")
			return nil
		},
		nil, // 最后一步无需补偿
	)

	err := saga.Execute(context.Background())
	if err != nil {
		t.Fatalf("Saga执行失败: %v", err)
	}

	if len(executed) != 2 {
		t.Errorf("期望执行2个步骤，实际执行%d个", len(executed))
	}

	if executed[0] != "预占库存" || executed[1] != "落库订单" {
		t.Errorf("执行顺序错误: %v", executed)
	}
}

// TestSaga_Execute_FailureAndCompensate 测试步骤失败触发逆序补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)

	saga := NewSaga(5 * time.Second)

	saga.AddStep("预占商品A库存",
		func(ctx context.Context) error {
			executed = append(executed, "预占A")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "释放A")
			return nil
		},
	)

	saga.AddStep("预占商品B库存",
		func(ctx context.Context) error {
			executed = append(executed, "预占B")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "释放B")
			return nil
		},
	)

	saga.AddStep("预占商品C库存",
		func(ctx context.Context) error {
			executed = append(executed, "预占C")
			return errors.New("库存不足")
		},
		func(ctx context.Context) error {
			executed = append(executed, "释放C")
			return nil
		},
	)

	err := saga.Execute(context.Background())
	if err == nil {
		t.Fatal("期望Saga执行失败")
	}

	// 失败步骤未进入executed列表，不应被补偿；已完成步骤逆序补偿
	want := []string{"预占A", "预占B", "预占C", "释放B", "释放A"}
	if len(executed) != len(want) {
		t.Fatalf("执行轨迹错误: %v", executed)
	}
	for i := range want {
		if executed[i] != want[i] {
			t.Errorf("执行轨迹错误: %v", executed)
			break
		}
	}
}

// TestSaga_CompensationHook 测试补偿回调上报失败步骤
func TestSaga_CompensationHook(t *testing.T) {
	var reported []string

	saga := NewSaga(5 * time.Second)
	saga.OnCompensation(func(failed []string) {
		reported = failed
	})

	saga.AddStep("步骤1",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return errors.New("补偿失败") },
	)
	saga.AddStep("步骤2",
		func(ctx context.Context) error { return errors.New("执行失败") },
		nil,
	)

	err := saga.Execute(context.Background())
	if err == nil {
		t.Fatal("期望Saga执行失败")
	}

	if len(reported) != 1 || reported[0] != "步骤1" {
		t.Errorf("期望上报补偿失败步骤[步骤1]，实际%v", reported)
	}
}
