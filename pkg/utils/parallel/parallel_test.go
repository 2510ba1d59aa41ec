package parallel_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/zsol/python-dotslash/pkg/utils/parallel"
)

func TestMap_PreservesOrder(t *testing.T) {
	items := []int{5, 3, 8, 1, 9, 2}

	results, err := parallel.Map(context.Background(), 3, items, func(ctx context.Context, n int) (string, error) {
		return strconv.Itoa(n * 10), nil
	})

	gt.NoError(t, err)
	gt.Value(t, results).Equal([]string{"50", "30", "80", "10", "90", "20"})
}

func TestMap_RespectsLimit(t *testing.T) {
	var current, peak int32
	var mu sync.Mutex

	items := make([]int, 20)
	_, err := parallel.Map(context.Background(), 2, items, func(ctx context.Context, n int) (int, error) {
		v := atomic.AddInt32(&current, 1)
		mu.Lock()
		if v > peak {
			peak = v
		}
		mu.Unlock()
		defer atomic.AddInt32(&current, -1)
		return n, nil
	})

	gt.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	gt.Value(t, peak <= 2).Equal(true)
}

func TestMap_ReturnsFirstError(t *testing.T) {
	items := []int{0, 1, 2, 3}

	results, err := parallel.Map(context.Background(), 4, items, func(ctx context.Context, n int) (int, error) {
		if n >= 2 {
			return 0, errors.New("item " + strconv.Itoa(n) + " failed")
		}
		return n, nil
	})

	gt.Error(t, err)
	gt.Value(t, results).Nil()
	gt.String(t, err.Error()).Contains("item 2 failed")
}

func TestMap_RecoversPanic(t *testing.T) {
	items := []int{1, 2}

	_, err := parallel.Map(context.Background(), 2, items, func(ctx context.Context, n int) (int, error) {
		if n == 2 {
			panic("boom")
		}
		return n, nil
	})

	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("panic")
}

func TestMap_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parallel.Map(ctx, 2, []int{1, 2, 3}, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})

	gt.Error(t, err)
}

func TestMap_EmptyInput(t *testing.T) {
	results, err := parallel.Map(context.Background(), 2, []int{}, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})

	gt.NoError(t, err)
	gt.Value(t, len(results)).Equal(0)
}

func TestMap_DefaultLimit(t *testing.T) {
	results, err := parallel.Map(context.Background(), 0, []int{1, 2, 3}, func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	gt.NoError(t, err)
	gt.Value(t, results).Equal([]int{2, 4, 6})
}
