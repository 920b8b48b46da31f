package services

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:points"

// Community points earned per action.
const (
	PointsSubmitted = 10
	PointsApproved  = 25
)

// Entry is one ranked row of the community leaderboard.
type Entry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

// Leaderboard tracks community points in a Redis sorted set.
type Leaderboard struct {
	rdb *redis.Client
}

// NewLeaderboard returns nil when Redis is not configured; callers treat a
// nil leaderboard as disabled.
func NewLeaderboard(rdb *redis.Client) *Leaderboard {
	if rdb == nil {
		return nil
	}
	return &Leaderboard{rdb: rdb}
}

// Award adds points to a contributor's score.
func (l *Leaderboard) Award(ctx context.Context, name string, points int64) error {
	return l.rdb.ZIncrBy(ctx, leaderboardKey, float64(points), name).Err()
}

// Top returns the highest-scoring contributors, best first.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 10
	}
	scores, err := l.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(scores))
	for i, z := range scores {
		name, _ := z.Member.(string)
		entries = append(entries, Entry{
			Rank:   i + 1,
			Name:   name,
			Points: int64(z.Score),
		})
	}
	return entries, nil
}
