package fake

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/BearBump/ReviewBox/internal/models"
)

// FakeClient: заглушка API ревью для локального запуска без токена Практикума.
// Первый ответ отдаёт все работы в статусе reviewing, дальше каждая работа
// детерминированно (по хэшу имени) переходит в approved или rejected.
type FakeClient struct {
	names []string
	calls atomic.Int64
}

func New(names ...string) *FakeClient {
	if len(names) == 0 {
		names = []string{"hw_python_oop", "hw_api", "hw_bot"}
	}
	return &FakeClient{names: names}
}

func (f *FakeClient) GetStatuses(ctx context.Context, from time.Time) (any, error) {
	n := f.calls.Add(1)

	homeworks := make([]any, 0, len(f.names))
	for i, name := range f.names {
		homeworks = append(homeworks, map[string]any{
			"id":            json.Number(strconv.Itoa(i + 1)),
			"homework_name": name,
			"status":        statusFor(name, n),
		})
	}
	return map[string]any{
		"homeworks":    homeworks,
		"current_date": json.Number(strconv.FormatInt(from.Unix(), 10)),
	}, nil
}

func statusFor(name string, call int64) string {
	if call <= 1 {
		return models.HomeworkStatusReviewing
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	if h.Sum32()%2 == 0 {
		return models.HomeworkStatusApproved
	}
	return models.HomeworkStatusRejected
}
