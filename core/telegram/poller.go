package telegram

import (
	"net"
	"strconv"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/buylist/core/config"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10

// AllowedUpdates are the update types the bot subscribes to: text commands,
// reply keyboard labels and inline button presses.
var AllowedUpdates = []string{"message", "callback_query"}

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller returns a webhook for run_mode "webhook" and a long poller otherwise.
func BuildPoller(opts PollerOptions) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(opts.RunMode), coreconfig.RunModeWebhook) {
		return &tele.Webhook{
			Listen:         net.JoinHostPort(opts.Webhook.Listen, strconv.Itoa(opts.Webhook.Port)),
			AllowedUpdates: AllowedUpdates,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}
	return &tele.LongPoller{
		Timeout:        time.Duration(longPollTimeout(opts.LongPollTimeoutSeconds)) * time.Second,
		AllowedUpdates: AllowedUpdates,
	}
}

func longPollTimeout(sec int) int {
	if sec <= 0 {
		return defaultLongPollTimeout
	}
	return sec
}
