package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"fx_terminal/internal/models"
	"fx_terminal/internal/modules/config"
)

// spreadFactor: 1bp of mid, half above, half below.
const spreadFactor = 0.0001

// RandomWalk — симулированный фид: случайное блуждание вокруг дефолтных цен.
type RandomWalk struct {
	cfg *config.Config

	mu   sync.Mutex
	last map[int]float64
	rnd  *rand.Rand
}

func NewRandomWalk(cfg *config.Config) *RandomWalk {
	last := make(map[int]float64, len(cfg.DefaultPrices))
	for uic, px := range cfg.DefaultPrices {
		last[uic] = px
	}
	return &RandomWalk{
		cfg:  cfg,
		last: last,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *RandomWalk) Connected() bool { return true }

func (f *RandomWalk) GetPrices(_ context.Context, uics []int) (map[int]models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	out := make(map[int]models.Quote, len(uics))
	for _, uic := range uics {
		inst, ok := f.cfg.Instrument(uic)
		if !ok {
			continue
		}
		px, ok := f.last[uic]
		if !ok {
			px = 1.0
		}

		// шаг до ±5bp
		px = px * (1 + (f.rnd.Float64()*2-1)*0.0005)
		f.last[uic] = px

		spread := px * spreadFactor
		out[uic] = models.Quote{
			UIC:    uic,
			Symbol: inst.Symbol,
			Mid:    px,
			Bid:    px - spread/2,
			Ask:    px + spread/2,
			Time:   now,
		}
	}
	return out, nil
}
