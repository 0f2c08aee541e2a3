package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roomtalk/roomtalk-server/internal/store"
)

// HistoryAggregator reconstructs a room's message history as a sequence
// of date groups, sorted ascending by date key. The history is rebuilt
// from the store on every call; nothing is cached.
type HistoryAggregator struct {
	messages store.MessageStore
	log      *zerolog.Logger
}

// NewHistoryAggregator builds an aggregator over the given message store.
func NewHistoryAggregator(messages store.MessageStore, logger *zerolog.Logger) *HistoryAggregator {
	return &HistoryAggregator{messages: messages, log: logger}
}

// RoomHistory returns the full history of a room grouped by date string.
// A room with no messages yields an empty slice. Groups whose date does
// not split into three "/"-separated components are dropped with a
// warning instead of failing the whole request.
func (a *HistoryAggregator) RoomHistory(ctx context.Context, room string) ([]DateGroup, error) {
	stored, err := a.messages.GroupRoomMessagesByDate(ctx, room)
	if err != nil {
		return nil, fmt.Errorf("group room messages: %w", err)
	}

	groups := make([]DateGroup, 0, len(stored))
	for _, g := range stored {
		if _, ok := dateSortKey(g.Date); !ok {
			a.log.Warn().Str("room", room).Str("date", g.Date).Msg("skipping group with malformed date")
			continue
		}
		msgs := make([]Message, 0, len(g.Messages))
		for _, m := range g.Messages {
			msgs = append(msgs, Message{
				ID:      m.ID,
				Content: m.Content,
				From:    m.From,
				To:      m.To,
				Time:    m.Time,
				Date:    m.Date,
			})
		}
		groups = append(groups, DateGroup{Date: g.Date, Messages: msgs})
	}

	SortDateGroups(groups)
	return groups, nil
}

// SortDateGroups orders groups ascending by the concatenated
// year+month+day key. Components are compared as strings without zero
// padding, so single-digit months and days do not order chronologically
// against double-digit ones; clients depend on this exact ordering.
func SortDateGroups(groups []DateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		ki, _ := dateSortKey(groups[i].Date)
		kj, _ := dateSortKey(groups[j].Date)
		return ki < kj
	})
}

// dateSortKey rebuilds "M/D/YYYY" as "YYYY" + "M" + "D". Reports false
// when the date does not have exactly three components.
func dateSortKey(date string) (string, bool) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return "", false
	}
	return parts[2] + parts[0] + parts[1], true
}
