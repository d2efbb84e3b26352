package oracle

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

// StalenessTimeout is how old a feed answer may be before the guard
// rejects it. Feeds that stop updating do not error on their own, so a
// frozen answer has to be turned into an explicit failure here.
const StalenessTimeout = 3 * time.Hour

var (
	ErrStalePrice  = errors.New("stale price")
	ErrNoRoundData = errors.New("no round data")
)

// RoundData is a single price-feed answer.
type RoundData struct {
	RoundID         uint64
	Price           *uint256.Int
	StartedAt       time.Time
	UpdatedAt       time.Time
	AnsweredInRound uint64
}

// Feed is the read-only price-feed capability consumed by the engine.
type Feed interface {
	LatestRoundData() (RoundData, error)
}

// Guard wraps a Feed and rejects answers older than StalenessTimeout.
type Guard struct {
	feed Feed
	now  func() time.Time
}

func NewGuard(feed Feed) *Guard {
	return &Guard{feed: feed, now: time.Now}
}

// FreshRoundData returns the feed's latest answer, or ErrStalePrice if
// the answer is older than the staleness window.
func (g *Guard) FreshRoundData() (RoundData, error) {
	data, err := g.feed.LatestRoundData()
	if err != nil {
		return RoundData{}, err
	}

	if g.now().Sub(data.UpdatedAt) > StalenessTimeout {
		return RoundData{}, fmt.Errorf("%w: last update %s", ErrStalePrice, data.UpdatedAt.Format(time.RFC3339))
	}
	return data, nil
}

// ManualFeed is an in-memory Feed whose answer is pushed by an operator.
type ManualFeed struct {
	asset string

	mu    sync.RWMutex
	round RoundData
	now   func() time.Time
}

func NewManualFeed(asset string) *ManualFeed {
	return &ManualFeed{asset: asset, now: time.Now}
}

func (f *ManualFeed) Asset() string {
	return f.asset
}

// UpdateAnswer records a new price and stamps the round as updated now.
func (f *ManualFeed) UpdateAnswer(price *uint256.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	f.round = RoundData{
		RoundID:         f.round.RoundID + 1,
		Price:           new(uint256.Int).Set(price),
		StartedAt:       now,
		UpdatedAt:       now,
		AnsweredInRound: f.round.RoundID + 1,
	}
}

func (f *ManualFeed) LatestRoundData() (RoundData, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.round.RoundID == 0 {
		return RoundData{}, fmt.Errorf("%w: feed %s has never answered", ErrNoRoundData, f.asset)
	}
	return f.round, nil
}
