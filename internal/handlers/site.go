package handlers

import (
	"Classifieds/internal/config"
	"fmt"
	"net/http"
)

// SiteHandler отдаёт служебные страницы сайта.
type SiteHandler struct {
	Config *config.Config
}

func NewSiteHandler(cfg *config.Config) *SiteHandler {
	return &SiteHandler{Config: cfg}
}

// Robots отдаёт robots.txt для домена сайта.
func (h *SiteHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "User-agent: *\nDisallow: /my\nDisallow: /profile\nDisallow: /item/new\nDisallow: /user/\n\nHost: %s\n", h.Config.SiteDomain)
}
