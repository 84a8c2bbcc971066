package handlers

import (
	"Classifieds/internal/config"
	"Classifieds/internal/middleware"
	"Classifieds/internal/model"
	"Classifieds/internal/service"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler — регистрация, вход и выход.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// readCredentials принимает JSON или обычную форму.
func readCredentials(r *http.Request) (credentials, error) {
	var c credentials
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&c)
		return c, err
	}
	if err := parseForm(r); err != nil {
		return c, err
	}
	c.Login = r.PostFormValue("login")
	c.Password = r.PostFormValue("password")
	c.Email = r.PostFormValue("email")
	return c, nil
}

// Register регистрирует пользователя и сразу авторизует его.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), c.Login, c.Password, c.Email)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	h.Logger.Infow("user registered", "user_id", user.ID, "login", user.Login)
	h.authorize(w, r, user)
}

// Login проверяет логин и пароль и выставляет cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Login(r.Context(), c.Login, c.Password)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	h.authorize(w, r, user)
}

func (h *UserHandler) authorize(w http.ResponseWriter, r *http.Request, user *model.User) {
	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		writeError(w, r, h.Logger, fmt.Errorf("set login cookie: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": user.ID, "login": user.Login})
}

// Logout удаляет cookie авторизации.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Status показывает, авторизован ли запрос.
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	result := "anonymous"
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		result = fmt.Sprintf("User ID = %d", userID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}
