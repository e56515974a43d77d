package services

import "sync"

// BadgeCounts is the live badge payload: how many active alerts and
// unredeemed vouchers currently point at a user.
type BadgeCounts struct {
	ActiveAlerts       int64 `json:"active_alerts"`
	UnredeemedVouchers int64 `json:"unredeemed_vouchers"`
}

// ChangePublisher is what the lifecycle services see of the feed. Keeping
// the dependency on this interface rather than the hub itself lets a
// polling implementation stand in.
type ChangePublisher interface {
	Publish(userIDs ...uint)
}

// ChangeFeed is an in-process observer hub. Alert and voucher transitions
// publish the affected user ids; subscribers get a non-blocking nudge and
// re-read their badge counts. It deliberately carries no payload so a
// missed notification only delays a refresh, never loses data.
type ChangeFeed struct {
	mu          sync.Mutex
	subscribers map[uint]map[chan struct{}]struct{}
}

func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{
		subscribers: make(map[uint]map[chan struct{}]struct{}),
	}
}

// Subscribe registers interest in changes affecting a user. The returned
// cancel func must be called when the consumer goes away.
func (feed *ChangeFeed) Subscribe(userID uint) (<-chan struct{}, func()) {
	notify := make(chan struct{}, 1)

	feed.mu.Lock()
	channels, ok := feed.subscribers[userID]
	if !ok {
		channels = make(map[chan struct{}]struct{})
		feed.subscribers[userID] = channels
	}
	channels[notify] = struct{}{}
	feed.mu.Unlock()

	cancel := func() {
		feed.mu.Lock()
		if channels, ok := feed.subscribers[userID]; ok {
			delete(channels, notify)
			if len(channels) == 0 {
				delete(feed.subscribers, userID)
			}
		}
		feed.mu.Unlock()
	}
	return notify, cancel
}

// Publish nudges every subscriber of the given users without blocking; a
// subscriber that already has a pending nudge is skipped.
func (feed *ChangeFeed) Publish(userIDs ...uint) {
	feed.mu.Lock()
	defer feed.mu.Unlock()

	for _, userID := range userIDs {
		for notify := range feed.subscribers[userID] {
			select {
			case notify <- struct{}{}:
			default:
			}
		}
	}
}
