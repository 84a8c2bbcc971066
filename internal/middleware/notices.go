package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const noticesCookieName = "notices"

// Уровни уведомлений.
const (
	NoticeInfo    = "info"
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice: одноразовое сообщение пользователю, показывается после редиректа.
type Notice struct {
	Level   string `json:"level"` // NoticeInfo | NoticeSuccess | NoticeError
	Message string `json:"message"`
}

// AddNotices дописывает уведомления к уже накопленным в cookie запроса.
func AddNotices(w http.ResponseWriter, r *http.Request, notices ...Notice) {
	all := append(readNotices(r), notices...)
	raw, err := json.Marshal(all)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticesCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopNotices возвращает накопленные уведомления и очищает cookie.
func PopNotices(w http.ResponseWriter, r *http.Request) []Notice {
	notices := readNotices(r)
	if len(notices) == 0 {
		return []Notice{}
	}
	http.SetCookie(w, &http.Cookie{
		Name:   noticesCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return notices
}

func readNotices(r *http.Request) []Notice {
	c, err := r.Cookie(noticesCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var notices []Notice
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil
	}
	return notices
}
