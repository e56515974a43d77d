package services

import "testing"

func TestChangeFeedPublishNudgesSubscriber(t *testing.T) {
	t.Parallel()

	feed := NewChangeFeed()
	nudges, cancel := feed.Subscribe(1)
	defer cancel()

	feed.Publish(1)

	select {
	case <-nudges:
	default:
		t.Fatal("expected a pending nudge after publish")
	}
}

func TestChangeFeedPublishSkipsOtherUsers(t *testing.T) {
	t.Parallel()

	feed := NewChangeFeed()
	nudges, cancel := feed.Subscribe(1)
	defer cancel()

	feed.Publish(2)

	select {
	case <-nudges:
		t.Fatal("publish for another user must not nudge this subscriber")
	default:
	}
}

func TestChangeFeedPublishNeverBlocks(t *testing.T) {
	t.Parallel()

	feed := NewChangeFeed()
	nudges, cancel := feed.Subscribe(1)
	defer cancel()

	// The nudge channel has capacity one; repeated publishes with no
	// reader must coalesce rather than block.
	for i := 0; i < 10; i++ {
		feed.Publish(1)
	}

	select {
	case <-nudges:
	default:
		t.Fatal("expected a pending nudge")
	}
}

func TestChangeFeedCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	feed := NewChangeFeed()
	nudges, cancel := feed.Subscribe(1)
	cancel()

	feed.Publish(1)

	select {
	case <-nudges:
		t.Fatal("cancelled subscriber must not receive nudges")
	default:
	}
}
