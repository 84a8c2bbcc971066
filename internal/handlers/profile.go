package handlers

import (
	"Classifieds/internal/middleware"
	"Classifieds/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// ProfileHandler — настройки профиля пользователя.
type ProfileHandler struct {
	Users  *service.UserService
	Logger *zap.SugaredLogger
}

func NewProfileHandler(users *service.UserService, logger *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{Users: users, Logger: logger}
}

type profileResponse struct {
	Login       string              `json:"login"`
	Email       string              `json:"email"`
	Phone       *string             `json:"phone"`
	ReceiveNews bool                `json:"receive_news"`
	Notices     []middleware.Notice `json:"notices"`
}

func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	user, err := h.Users.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Login:       user.Login,
		Email:       user.Email,
		Phone:       user.Profile.Phone,
		ReceiveNews: user.Profile.ReceiveNews,
		Notices:     middleware.PopNotices(w, r),
	})
}

// Update сохраняет профиль и перенаправляет обратно на /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	receive, _ := parseBool(r.PostFormValue("receive_news"))
	notices, err := h.Users.UpdateProfile(r.Context(), userID, service.ProfileForm{
		Phone:       r.PostFormValue("phone"),
		ReceiveNews: receive,
		Email:       r.PostFormValue("email"),
	})
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	out := make([]middleware.Notice, 0, len(notices))
	for _, n := range notices {
		out = append(out, middleware.Notice{Level: middleware.NoticeSuccess, Message: n})
	}
	middleware.AddNotices(w, r, out...)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// parseBool читает значение чекбокса формы; отсутствие поля означает false.
func parseBool(raw string) (bool, bool) {
	switch raw {
	case "", "off", "false", "0", "no":
		return false, true
	case "on", "true", "1", "yes":
		return true, true
	}
	return false, false
}
