package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"articlehub.org/internal/articles"
	"articlehub.org/internal/audit"
	"articlehub.org/internal/auth"
)

type createArticleRequest struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Slug      string `json:"slug"`
	Published bool   `json:"published"`
}

type publishRequest struct {
	Published *bool `json:"published"`
}

func (a *API) handleArticles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listArticles(w, r)
	case http.MethodPost:
		RequireRole(auth.RoleAdmin)(http.HandlerFunc(a.createArticle)).ServeHTTP(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listArticles(w http.ResponseWriter, r *http.Request) {
	list, err := a.articles.List(r.Context())
	if err != nil {
		handleArticleError(w, r, err)
		return
	}
	if list == nil {
		list = []articles.Article{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) createArticle(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req createArticleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Title == "" || req.Content == "" || req.Slug == "" {
		writeError(w, r, http.StatusBadRequest, "title, content and slug are required")
		return
	}

	article := &articles.Article{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Slug:      req.Slug,
		Published: req.Published,
		AuthorID:  identity.ID,
	}
	if err := a.articles.Create(r.Context(), article); err != nil {
		handleArticleError(w, r, err)
		return
	}
	article.AuthorName = identity.Name
	article.AuthorEmail = identity.Email

	_ = audit.LogEvent(r.Context(), "article.created", map[string]any{
		"article_id": article.ID,
		"slug":       article.Slug,
	})
	writeJSON(w, http.StatusCreated, article)
}

// handleArticleBySlug dispatches /api/articles/{slug} and
// /api/articles/{slug}/publish.
func (a *API) handleArticleBySlug(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/articles/")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		writeError(w, r, http.StatusNotFound, "article not found")
		return
	}

	if slug, ok := strings.CutSuffix(rest, "/publish"); ok {
		RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.publishArticle(w, r, slug)
		})).ServeHTTP(w, r)
		return
	}
	if strings.Contains(rest, "/") {
		writeError(w, r, http.StatusNotFound, "article not found")
		return
	}
	a.getArticle(w, r, rest)
}

func (a *API) getArticle(w http.ResponseWriter, r *http.Request, slug string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	article, err := a.articles.FindBySlug(r.Context(), slug)
	if err != nil {
		handleArticleError(w, r, err)
		return
	}
	if !article.Published {
		// Drafts are only visible to administrators; everyone else sees the
		// same 404 as a missing article.
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok || !identity.IsAdmin() {
			writeError(w, r, http.StatusNotFound, "article not found")
			return
		}
	}
	writeJSON(w, http.StatusOK, article)
}

func (a *API) publishArticle(w http.ResponseWriter, r *http.Request, slug string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	published := true
	var req publishRequest
	if err := decodeJSON(w, r, &req); err == nil && req.Published != nil {
		published = *req.Published
	}

	article, err := a.articles.FindBySlug(r.Context(), slug)
	if err != nil {
		handleArticleError(w, r, err)
		return
	}
	if err := a.articles.SetPublished(r.Context(), article.ID, published); err != nil {
		handleArticleError(w, r, err)
		return
	}
	article.Published = published

	_ = audit.LogEvent(r.Context(), "article.published", map[string]any{
		"article_id": article.ID,
		"slug":       article.Slug,
		"published":  published,
	})
	writeJSON(w, http.StatusOK, article)
}

func handleArticleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, articles.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "article not found")
	case errors.Is(err, articles.ErrSlugTaken):
		writeError(w, r, http.StatusConflict, "slug already exists")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
