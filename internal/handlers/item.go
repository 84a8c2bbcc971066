package handlers

import (
	"Classifieds/internal/config"
	"Classifieds/internal/middleware"
	"Classifieds/internal/model"
	"Classifieds/internal/repo"
	"Classifieds/internal/search"
	"Classifieds/internal/service"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ItemHandler — жизненный цикл объявлений и поиск.
type ItemHandler struct {
	ItemService *service.ItemService
	Users       *service.UserService
	Taxonomy    *service.TaxonomyService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewItemHandler создаёт хендлер items
func NewItemHandler(
	itemService *service.ItemService,
	users *service.UserService,
	taxonomy *service.TaxonomyService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *ItemHandler {
	return &ItemHandler{ItemService: itemService, Users: users, Taxonomy: taxonomy, Logger: logger, Config: cfg}
}

type searchResponse struct {
	repo.ItemPage
	Errors map[string]string `json:"errors,omitempty"`
}

type formResponse struct {
	Item       *model.Item   `json:"item,omitempty"`
	Groups     []model.Group `json:"groups"`
	ImageSlots int           `json:"image_slots"`
}

type myResponse struct {
	Items   []model.Item        `json:"items"`
	Notices []middleware.Notice `json:"notices"`
}

func itemURL(it *model.Item) string {
	return fmt.Sprintf("/item/%d/%s", it.ID, it.Slug)
}

// Search выполняет постраничный поиск по активным объявлениям.
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter := search.Parse(r.URL.Query())
	page, err := h.ItemService.Search(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{ItemPage: page, Errors: filter.Errors})
}

// Detail отдаёт активное объявление с похожими.
func (h *ItemHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	detail, err := h.ItemService.Detail(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// New отдаёт данные для формы нового объявления после проверки лимита.
func (h *ItemHandler) New(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r, h.Users, h.Logger)
	if !ok {
		return
	}
	if err := h.ItemService.PrepareCreate(r.Context(), a); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	h.writeForm(w, r, nil)
}

// Create создаёт объявление вместе с изображениями.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r, h.Users, h.Logger)
	if !ok {
		return
	}
	// лимит проверяется до чтения тела
	if err := h.ItemService.PrepareCreate(r.Context(), a); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	uploads, ok := h.readUploads(w, r)
	if !ok {
		return
	}

	item, err := h.ItemService.Create(r.Context(), a, itemForm(r), uploads)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Location", itemURL(item))
	writeJSON(w, http.StatusCreated, item)
}

// Edit отдаёт данные для формы правки; только владелец или администратор.
func (h *ItemHandler) Edit(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r, h.Users, h.Logger)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, err := h.ItemService.PrepareEdit(r.Context(), a, id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	h.writeForm(w, r, item)
}

// Update сохраняет правку объявления.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r, h.Users, h.Logger)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	// чужое объявление: 403 независимо от содержимого формы
	if _, err := h.ItemService.PrepareEdit(r.Context(), a, id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	uploads, ok := h.readUploads(w, r)
	if !ok {
		return
	}

	item, err := h.ItemService.Update(r.Context(), a, id, itemForm(r), uploads, removeIDs(r))
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Location", itemURL(item))
	writeJSON(w, http.StatusOK, item)
}

// Delete удаляет объявление и перенаправляет на /my с уведомлением.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r, h.Users, h.Logger)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	notice, err := h.ItemService.Delete(r.Context(), a, id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	middleware.AddNotices(w, r, middleware.Notice{Level: middleware.NoticeInfo, Message: notice})
	http.Redirect(w, r, "/my", http.StatusSeeOther)
}

// My отдаёт все объявления пользователя и накопленные уведомления.
func (h *ItemHandler) My(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r, h.Users, h.Logger)
	if !ok {
		return
	}
	items, err := h.ItemService.ListMine(r.Context(), a)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, myResponse{Items: items, Notices: middleware.PopNotices(w, r)})
}

func (h *ItemHandler) writeForm(w http.ResponseWriter, r *http.Request, item *model.Item) {
	groups, err := h.Taxonomy.ListGroups(r.Context())
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, formResponse{Item: item, Groups: groups, ImageSlots: h.ItemService.ImageSlots()})
}

func (h *ItemHandler) readUploads(w http.ResponseWriter, r *http.Request) ([]service.ImageUpload, bool) {
	maxBytes := int64(h.Config.ImageMaxSizeMB) * 1024 * 1024

	// Лимит общего тела запроса: все слоты плюс поля формы
	maxBody := int64(h.ItemService.ImageSlots())*maxBytes + 1*1024*1024
	if r.ContentLength > maxBody {
		h.Logger.Warnw("item form too large", "length", r.ContentLength, "limit", maxBody)
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := parseForm(r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Logger.Warnw("item form too large", "limit", tooLarge.Limit)
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		h.Logger.Warnw("invalid item form", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return nil, false
	}
	uploads, err := imageUploads(r, h.ItemService.ImageSlots(), maxBytes)
	if err != nil {
		h.Logger.Warnw("invalid image upload", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return nil, false
	}
	return uploads, true
}
