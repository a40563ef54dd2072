package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientDisabled(t *testing.T) {
	c := NewClient("", "")
	if c.Enabled() {
		t.Fatalf("empty token must disable the client")
	}
	if err := c.SendMessage(context.Background(), "1", "hi", nil); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatalf("nil client must report disabled")
	}
}

func TestSendMessage_PayloadAndEnvelope(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("TOKEN", srv.URL)
	kb := &InlineKeyboardMarkup{InlineKeyboard: Row(InlineKeyboardButton{Text: "English", CallbackData: "lang:en"})}
	if err := c.SendMessage(context.Background(), "555", "Pick a language", kb); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotPath != "/botTOKEN/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotBody["chat_id"] != "555" || gotBody["text"] != "Pick a language" {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
	if _, ok := gotBody["reply_markup"]; !ok {
		t.Fatalf("keyboard not serialized: %+v", gotBody)
	}
}

func TestCall_APIErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	c := NewClient("TOKEN", srv.URL)
	err := c.SendMessage(context.Background(), "0", "x", nil)
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected api error with description, got %v", err)
	}
}

func TestAnswerCallbackAndSetWebhook(t *testing.T) {
	var methods []string
	var lastBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.URL.Path)
		lastBody = nil
		_ = json.NewDecoder(r.Body).Decode(&lastBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("TOKEN", srv.URL)
	if err := c.AnswerCallbackQuery(context.Background(), "cb-1"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := c.SetWebhook(context.Background(), "https://example.org/telegram/webhook", "s3cret"); err != nil {
		t.Fatalf("set webhook: %v", err)
	}

	if len(methods) != 2 || methods[0] != "/botTOKEN/answerCallbackQuery" || methods[1] != "/botTOKEN/setWebhook" {
		t.Fatalf("unexpected methods: %v", methods)
	}
	if lastBody["secret_token"] != "s3cret" {
		t.Fatalf("secret not attached: %+v", lastBody)
	}
}

func TestUpdateHelpers(t *testing.T) {
	u := &Update{Message: &Message{Chat: Chat{ID: 555}, From: &User{ID: 9, FirstName: "Asha"}}}
	if u.ChatID() != "555" {
		t.Fatalf("ChatID() = %q", u.ChatID())
	}
	if u.From() == nil || u.From().FirstName != "Asha" {
		t.Fatalf("From() = %+v", u.From())
	}

	cb := &Update{CallbackQuery: &CallbackQuery{ID: "x", From: &User{ID: 9}, Message: &Message{Chat: Chat{ID: 777}}}}
	if cb.ChatID() != "777" {
		t.Fatalf("callback ChatID() = %q", cb.ChatID())
	}

	empty := &Update{}
	if empty.ChatID() != "" || empty.From() != nil {
		t.Fatalf("empty update must have no chat or user")
	}
}
