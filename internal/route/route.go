// Package route decides which channels receive an alert.
package route

import "whalecaster/internal/domain"

// Channels holds the configured endpoint per channel. An empty endpoint
// disables that channel.
type Channels struct {
	WhaleURL string
	WatchURL string
}

// Route returns the channels eligible for one classification, in dispatch
// order (watch first). Policy:
//   - watch channel iff the subject is watchlisted and the channel is configured
//   - whale channel iff the event is a whale, or a non-native zero-SOL swap
//     that is not already routed via the watch channel
//
// An empty result is a valid outcome, not an error.
func Route(c domain.Classification, channels Channels) []domain.Channel {
	var out []domain.Channel

	if c.IsWatch && channels.WatchURL != "" {
		out = append(out, domain.ChannelWatch)
	}

	if (c.IsWhale || (c.IsNonNativeSwap && !c.IsWatch)) && channels.WhaleURL != "" {
		out = append(out, domain.ChannelWhale)
	}

	return out
}

// EndpointFor returns the configured endpoint for a channel, empty when the
// channel is disabled.
func (ch Channels) EndpointFor(channel domain.Channel) string {
	switch channel {
	case domain.ChannelWhale:
		return ch.WhaleURL
	case domain.ChannelWatch:
		return ch.WatchURL
	default:
		return ""
	}
}
