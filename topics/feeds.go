// Package topics suggests shorts topics from news feeds.
package topics

// FeedConfig names one RSS source.
type FeedConfig struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FeedPresets maps friendly keys to the feeds the generate form offers.
var FeedPresets = map[string]FeedConfig{
	"cna": {
		Name: "Channel News Asia",
		URL:  "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml",
	},
	"st": {
		Name: "Straits Times",
		URL:  "https://www.straitstimes.com/news/singapore/rss.xml",
	},
	"hn": {
		Name: "Hacker News",
		URL:  "https://hnrss.org/newest",
	},
	"tr": {
		Name: "Technology Review",
		URL:  "https://www.technologyreview.com/feed/",
	},
}

const (
	DefaultFeedPreset = "st"
	DefaultCount      = 10
)

// ResolveFeed maps a preset key onto its feed. Any other input is treated
// as a direct feed URL.
func ResolveFeed(input string) FeedConfig {
	if cfg, ok := FeedPresets[input]; ok {
		return cfg
	}
	return FeedConfig{Name: input, URL: input}
}
