package handlers

import (
	"Classifieds/internal/middleware"
	"Classifieds/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const quotaNotice = "You have reached limit!"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError переводит ошибки сервисов в HTTP-ответы.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, verr)
	case errors.Is(err, service.ErrQuotaExceeded):
		middleware.AddNotices(w, r, middleware.Notice{Level: middleware.NoticeError, Message: quotaNotice})
		http.Redirect(w, r, "/my", http.StatusSeeOther)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, service.ErrLoginTaken):
		http.Error(w, "login already taken", http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "invalid login or password", http.StatusUnauthorized)
	default:
		logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// urlID читает числовой параметр маршрута.
func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// actor возвращает текущего пользователя; если его нет, пишет 401.
func actor(w http.ResponseWriter, r *http.Request, users *service.UserService, logger *zap.SugaredLogger) (service.Actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return service.Actor{}, false
	}
	a, err := users.Actor(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return service.Actor{}, false
		}
		writeError(w, r, logger, err)
		return service.Actor{}, false
	}
	return a, true
}
