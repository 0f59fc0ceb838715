package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"propertyfinder-monitor/models"
	"propertyfinder-monitor/utils"
)

const telegramAPIBase = "https://api.telegram.org"

// EmptyRunMessage is sent when a check finds nothing new and the monitor
// is configured to say so.
const EmptyRunMessage = "🏠 Проверка Creek Harbour: новых предложений не найдено."

// commas renders integers with thousands separators ("1,750,000").
var commas = message.NewPrinter(language.English)

// FormatNotification renders the Telegram message for one new listing.
// Price and size display strings from the page are embedded verbatim when
// present, else a computed "value unit" form is used. Deterministic given
// the listing and now; no I/O.
func FormatNotification(l models.Listing, now time.Time) string {
	price := l.PriceDisplay
	if price == "" {
		price = commas.Sprintf("%d AED", l.Price)
	}
	size := l.SizeDisplay
	if size == "" {
		size = fmt.Sprintf("%d sqft", l.Size)
	}

	return fmt.Sprintf(`🏠 **Новое предложение в Creek Harbour!**

💰 **Цена:** %s
📐 **Площадь:** %s
🏢 **Здание:** %s
🛏️ **Комнаты:** %d BR | 🛁 %d BA
📍 **Локация:** %s

🔗 [Открыть на PropertyFinder](%s)

⏰ Проверено: %s
`, price, size, l.Building, l.Bedrooms, l.Bathrooms, l.Location, l.URL,
		now.Format("2006-01-02 15:04"))
}

// ErrorMessage renders the alert sent when a run fails, with the error
// text clipped to keep the chat message short.
func ErrorMessage(err error) string {
	runes := []rune(err.Error())
	if len(runes) > 200 {
		runes = runes[:200]
	}
	return "⚠️ Ошибка при проверке PropertyFinder: " + string(runes)
}

// TelegramNotifier delivers messages through the Bot API.
type TelegramNotifier struct {
	client  *http.Client
	apiBase string
	token   string
	chatID  string
	retries int
}

func NewTelegramNotifier(token, chatID string, retries int) *TelegramNotifier {
	return &TelegramNotifier{
		client:  &http.Client{Timeout: 15 * time.Second},
		apiBase: telegramAPIBase,
		token:   token,
		chatID:  chatID,
		retries: retries,
	}
}

// Enabled reports whether credentials are configured. A disabled notifier
// accepts Send calls and does nothing.
func (t *TelegramNotifier) Enabled() bool {
	return t != nil && t.token != "" && t.chatID != ""
}

type telegramPayload struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Send posts one message, retrying transient failures with backoff.
func (t *TelegramNotifier) Send(text string) error {
	if !t.Enabled() {
		return nil
	}
	return utils.Retry(t.retries, func() error {
		return t.post(text)
	})
}

func (t *TelegramNotifier) post(text string) error {
	body, err := json.Marshal(telegramPayload{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: false,
	})
	if err != nil {
		return fmt.Errorf("could not encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	resp, err := t.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
