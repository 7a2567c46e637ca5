package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

var (
	apiBase string
	bot     *tgbotapi.BotAPI

	// Track active analyses per chat (chatID → cancel func)
	activeMu sync.Mutex
	active   = map[int64]context.CancelFunc{}

	// For re-scan (msgID -> payload)
	historyMu sync.Mutex
	history   = map[string]map[string]any{}
)

func main() {
	// In Docker env vars are injected via env_file, so godotenv is a no-op.
	// Locally: try the root project .env first, then a local one.
	if os.Getenv("TELEGRAM_BOT_TOKEN") == "" {
		if err := godotenv.Load("../.env"); err != nil {
			_ = godotenv.Load()
		}
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("[bot] TELEGRAM_BOT_TOKEN is not set")
	}

	apiBase = os.Getenv("BACKEND_URL")
	if apiBase == "" {
		apiBase = "http://localhost:8080"
	}

	var err error
	bot, err = tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("[bot] Initialization error: %v", err)
	}

	log.Printf("[bot] Running as @%s | API: %s", bot.Self.UserName, apiBase)

	if webhookURL := os.Getenv("WEBHOOK_URL"); webhookURL != "" {
		runWebhook(webhookURL)
	} else {
		runPolling()
	}
}

// ── Polling mode (dev / no public URL) ───────────────────────────

func runPolling() {
	// Remove any previously registered webhook
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}); err != nil {
		log.Printf("[bot] DeleteWebhook: %v", err)
	}

	log.Println("[bot] Mode: POLLING")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			go handleMessage(update.Message)
		} else if update.CallbackQuery != nil {
			go handleCallback(update.CallbackQuery)
		}
	}
}

// ── Webhook mode (production) ─────────────────────────────────────

func runWebhook(baseURL string) {
	port := os.Getenv("WEBHOOK_PORT")
	if port == "" {
		port = "8443"
	}

	// Path contains the bot token, which acts as a secret
	path := "/" + bot.Token
	fullURL := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(fullURL)
	if err != nil {
		log.Fatalf("[bot] NewWebhook: %v", err)
	}

	if _, err := bot.Request(wh); err != nil {
		log.Fatalf("[bot] Webhook registration error: %v", err)
	}

	info, err := bot.GetWebhookInfo()
	if err != nil {
		log.Fatalf("[bot] GetWebhookInfo: %v", err)
	}
	if info.LastErrorDate != 0 {
		log.Printf("[bot] ⚠ Last webhook error: %s", info.LastErrorMessage)
	}

	log.Printf("[bot] Mode: WEBHOOK")
	log.Printf("[bot] URL:  %s", fullURL)
	log.Printf("[bot] Port: :%s", port)

	updates := bot.ListenForWebhook(path)

	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Fatalf("[bot] HTTP server died: %v", err)
		}
	}()

	log.Printf("[bot] Webhook server listening on :%s", port)

	for update := range updates {
		if update.Message != nil {
			go handleMessage(update.Message)
		} else if update.CallbackQuery != nil {
			go handleCallback(update.CallbackQuery)
		}
	}
}

// ── Message handler ──────────────────────────────────────────────

func handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.ForwardFromChat != nil || msg.ForwardFrom != nil {
		handleForwarded(msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	switch {
	case text == "/start":
		send(chatID, startText())
		return

	case text == "/help":
		send(chatID, helpText())
		return

	case text == "/cancel":
		cancelAnalysis(chatID)
		send(chatID, "⛔ Analysis cancelled.")
		return
	}

	payload := map[string]any{"content": text, "user_id": fmt.Sprintf("tg:%d", chatID)}
	if isURL(text) {
		payload["type"] = "url"
	} else {
		payload["type"] = "text"
	}
	startAnalysisForChat(chatID, payload, "")
}

// ── Forwarded message handler ─────────────────────────────────────

func handleForwarded(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	sourceName := ""
	sourceLink := ""

	switch {
	case msg.ForwardFromChat != nil:
		chat := msg.ForwardFromChat
		if chat.Title != "" {
			sourceName = chat.Title
		}
		if chat.UserName != "" {
			sourceLink = "https://t.me/" + chat.UserName
		}
	case msg.ForwardFrom != nil:
		u := msg.ForwardFrom
		if u.UserName != "" {
			sourceName = "@" + u.UserName
			sourceLink = "https://t.me/" + u.UserName
		} else {
			sourceName = strings.TrimSpace(u.FirstName + " " + u.LastName)
		}
	default:
		if msg.ForwardSenderName != "" {
			sourceName = msg.ForwardSenderName
		}
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		text = strings.TrimSpace(msg.Caption)
	}

	// A URL in the entities wins over the plain text.
	var detectedURL string
	for _, e := range append(msg.Entities, msg.CaptionEntities...) {
		if e.Type == "url" || e.Type == "text_link" {
			if e.URL != "" {
				detectedURL = e.URL
			} else {
				runes := []rune(text)
				if e.Offset+e.Length <= len(runes) {
					detectedURL = string(runes[e.Offset : e.Offset+e.Length])
				}
			}
			break
		}
	}

	userID := fmt.Sprintf("tg:%d", chatID)
	var payload map[string]any
	switch {
	case detectedURL != "" && isURL(detectedURL):
		payload = map[string]any{"type": "url", "content": detectedURL, "user_id": userID}
	case isURL(text):
		payload = map[string]any{"type": "url", "content": text, "user_id": userID}
	case text != "":
		payload = map[string]any{"type": "text", "content": text, "user_id": userID}
	default:
		send(chatID, "🔄 <b>Forwarded message received</b>, but it contains no text or link to check.")
		return
	}

	sourceLabel := ""
	if sourceName != "" {
		if sourceLink != "" {
			sourceLabel = fmt.Sprintf("<a href=\"%s\">%s</a>", sourceLink, escHTML(sourceName))
		} else {
			sourceLabel = escHTML(sourceName)
		}
	}

	startAnalysisForChat(chatID, payload, sourceLabel)
}

// ── Shared analysis starter ───────────────────────────────────────

func startAnalysisForChat(chatID int64, payload map[string]any, sourceLabel string) {
	cancelAnalysis(chatID)

	initText := "⏳ <b>Analyzing...</b>\n\n<code>Submitting content...</code>"
	if sourceLabel != "" {
		initText = fmt.Sprintf("⏳ <b>Analyzing...</b>\n📢 Source: %s\n\n<code>Submitting content...</code>", sourceLabel)
	}

	initMsg := sendAndGet(chatID, initText)
	if initMsg == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	registerAnalysis(chatID, cancel)

	go func() {
		defer func() {
			cancel()
			unregisterAnalysis(chatID)
		}()
		runAnalysis(ctx, chatID, initMsg.MessageID, payload, sourceLabel)
	}()
}

// ── Analysis runner ──────────────────────────────────────────────

var stageLabels = map[string]string{
	"started":         "Starting analysis...",
	"fetching":        "Fetching content...",
	"ml_analysis":     "Running ML classifiers...",
	"fact_checking":   "Checking claims against fact-check databases...",
	"source_analysis": "Assessing source reputation...",
	"scoring":         "Computing credibility score...",
	"complete":        "Done",
}

func progressLine(data string) string {
	var ev struct {
		Stage string `json:"stage"`
		Pct   int    `json:"pct"`
	}
	if err := json.Unmarshal([]byte(data), &ev); err == nil && ev.Stage != "" {
		if label, ok := stageLabels[ev.Stage]; ok {
			return fmt.Sprintf("%s (%d%%)", label, ev.Pct)
		}
		return fmt.Sprintf("%s (%d%%)", ev.Stage, ev.Pct)
	}
	return data
}

func runAnalysis(ctx context.Context, chatID int64, msgID int, payload map[string]any, sourceLabel string) {
	var (
		progressLines []string
		lastEdit      time.Time
		finalJSON     string
		analysisErr   string
	)

	// Build re-scan data
	var reScanData string
	payloadJSON, _ := json.Marshal(payload)
	if len(payloadJSON) < 60 {
		reScanData = string(payloadJSON)
	} else {
		key := fmt.Sprintf("%d:%d", chatID, msgID)
		historyMu.Lock()
		history[key] = payload
		historyMu.Unlock()
		reScanData = "key:" + key
	}

	err := StreamAnalyze(ctx, apiBase, payload, func(ev SSEEvent) {
		switch ev.Type {
		case "start", "progress":
			progressLines = append(progressLines, progressLine(ev.Data))
			// Throttle edits: max 1 per 2s
			if time.Since(lastEdit) >= 2*time.Second {
				edit(chatID, msgID, FormatProgress(progressLines))
				lastEdit = time.Now()
			}

		case "result":
			finalJSON = ev.Data

		case "error":
			analysisErr = ev.Data
		}
	})

	var finalText string
	if finalJSON != "" {
		if result, parseErr := ParseResult(finalJSON); parseErr == nil {
			finalText = FormatResult(result, sourceLabel)
		}
	}

	switch {
	case ctx.Err() == context.Canceled:
		// User cancelled, message already updated by the /cancel handler
		return

	case finalText != "":
		editWithKeyboard(chatID, msgID, finalText, GetResultKeyboard(reScanData))

	case analysisErr != "":
		edit(chatID, msgID, "❌ <b>Analysis error:</b>\n<code>"+escHTML(analysisErr)+"</code>")

	case err != nil:
		edit(chatID, msgID, "❌ <b>API connection error:</b>\n<code>"+escHTML(err.Error())+"</code>")

	default:
		edit(chatID, msgID, "⚠️ Analysis finished without a result.")
	}
}

// ── Telegram helpers ─────────────────────────────────────────────

func send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	bot.Send(msg) //nolint:errcheck
}

func sendAndGet(chatID int64, text string) *tgbotapi.Message {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	sent, err := bot.Send(msg)
	if err != nil {
		log.Printf("[bot] send error: %v", err)
		return nil
	}
	return &sent
}

func edit(chatID int64, msgID int, text string) {
	cfg := tgbotapi.NewEditMessageText(chatID, msgID, text)
	cfg.ParseMode = "HTML"
	cfg.DisableWebPagePreview = true
	if _, err := bot.Send(cfg); err != nil {
		log.Printf("[bot] edit error: %v", err)
	}
}

func editWithKeyboard(chatID int64, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	cfg := tgbotapi.NewEditMessageText(chatID, msgID, text)
	cfg.ParseMode = "HTML"
	cfg.DisableWebPagePreview = true
	cfg.ReplyMarkup = &kb
	if _, err := bot.Send(cfg); err != nil {
		log.Printf("[bot] edit error: %v", err)
	}
}

// ── Active analysis tracking ─────────────────────────────────────

func registerAnalysis(chatID int64, cancel context.CancelFunc) {
	activeMu.Lock()
	defer activeMu.Unlock()
	active[chatID] = cancel
}

func unregisterAnalysis(chatID int64) {
	activeMu.Lock()
	defer activeMu.Unlock()
	delete(active, chatID)
}

func cancelAnalysis(chatID int64) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if cancel, ok := active[chatID]; ok {
		cancel()
		delete(active, chatID)
	}
}

// ── Callback handler ─────────────────────────────────────────────

func handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Data == "" || !strings.HasPrefix(cb.Data, "rescan:") {
		return
	}
	// Callbacks on messages past Telegram's retention window carry no
	// message reference, so there is nothing to edit.
	if cb.Message == nil {
		return
	}

	data := strings.TrimPrefix(cb.Data, "rescan:")
	var payload map[string]any

	if strings.HasPrefix(data, "key:") {
		key := strings.TrimPrefix(data, "key:")
		historyMu.Lock()
		payload = history[key]
		historyMu.Unlock()
	} else {
		_ = json.Unmarshal([]byte(data), &payload)
	}

	if payload == nil {
		bot.Send(tgbotapi.NewCallback(cb.ID, "❌ Nothing to re-check for this message"))
		return
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	bot.Send(tgbotapi.NewCallback(cb.ID, "🔄 Running the analysis again..."))

	edit(chatID, msgID, "⏳ <b>Analyzing... (re-check)</b>\n\n<code>Submitting content...</code>")

	cancelAnalysis(chatID)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	registerAnalysis(chatID, cancel)

	go func() {
		defer func() {
			cancel()
			unregisterAnalysis(chatID)
		}()
		runAnalysis(ctx, chatID, msgID, payload, "")
	}()
}

// ── Misc ─────────────────────────────────────────────────────────

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func startText() string {
	return `🔍 <b>CrediNews Bot</b>

I check articles, links and plain text for <b>misinformation</b> using an ML ensemble, fact-check databases and source reputation.

<b>How to use:</b>
• Send a news <b>URL</b> and I will analyze the article
• Send <b>plain text</b> to check a claim or a paragraph
• <b>Forward</b> a message from a channel or chat

<b>Commands:</b>
/cancel — stop the current analysis
/help — help`
}

func helpText() string {
	return `📖 <b>Help</b>

<b>Send an article URL:</b>
<code>https://example.com/article</code>

<b>Send plain text:</b>
Paste a claim or a paragraph and the bot will classify it.

<b>Forward a channel message:</b>
The bot detects the source and checks the content automatically.

<b>The result includes:</b>
• Credibility score (0–100) with confidence
• Verdict and recommendation
• Fact-check reviews with links
• Account-risk flags for social media sources
• Source reputation

<b>Commands:</b>
/cancel — stop the analysis
/start — main menu`
}
