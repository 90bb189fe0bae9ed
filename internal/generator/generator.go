package generator

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/geo_event_pump/internal/models"
)

// Step - шаг между CreatedAt соседних записей
const Step = time.Second

// Epoch - CreatedAt первой записи в пачке
var Epoch = time.Date(2014, time.July, 1, 0, 0, 0, 0, time.UTC)

var ErrNegativeCount = errors.New("generator: count must be non-negative")

// Generator создает пачки синтетических геолокаций.
// Не безопасен для конкурентного использования: источник случайных чисел общий.
type Generator struct {
	rnd *rand.Rand
}

// New создает генератор поверх переданного источника случайных чисел
func New(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Generate возвращает ровно count записей в порядке создания
func (g *Generator) Generate(count int) ([]models.Location, error) {
	if count < 0 {
		return nil, ErrNegativeCount
	}

	locations := make([]models.Location, 0, count)
	createdAt := Epoch
	for i := 0; i < count; i++ {
		locations = append(locations, models.Location{
			// rand.Rand.Read никогда не возвращает ошибку
			ID:        uuid.Must(uuid.NewRandomFromReader(g.rnd)),
			Latitude:  (g.rnd.Float64()*2 - 1) * 90,
			Longitude: (g.rnd.Float64()*2 - 1) * 180,
			CreatedAt: createdAt,
		})
		createdAt = createdAt.Add(Step)
	}
	return locations, nil
}
