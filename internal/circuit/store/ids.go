package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================
// ID generation
// ============================================================

// IDGenerator выдает ID вида "<тип>-<unix ms>". Метка времени монотонна в пределах
// генератора, поэтому два вызова в одну миллисекунду не дают одинаковых ID.
type IDGenerator struct {
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) stamp() int64 {
	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	return ts
}

// Next: ID для компонента или провода, созданного в редакторе.
func (g *IDGenerator) Next(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, g.stamp())
}

// Batch возвращает функцию для перевыдачи ID при загрузке файла:
// "<тип>-<ms>-<индекс>-<случайный суффикс>". Все ID пакета делят одну метку времени.
func (g *IDGenerator) Batch() func(prefix string, index int) string {
	ts := g.stamp()
	return func(prefix string, index int) string {
		return fmt.Sprintf("%s-%d-%d-%s", prefix, ts, index, randomSuffix())
	}
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
