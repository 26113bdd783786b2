package post

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/gophertalk/internal/auth"
	"github.com/ovaphlow/gophertalk/internal/monitoring"
	"github.com/ovaphlow/gophertalk/internal/post/entity"
	"github.com/ovaphlow/gophertalk/pkg/utilities"
)

// DefaultFeedLimit applies when the limit query parameter is absent.
const DefaultFeedLimit = 100

// Handler exposes posts over HTTP. Every route expects auth.RequireToken
// in front of it; the token subject is the viewer.
type Handler struct {
	svc     *Service
	metrics *monitoring.Metrics
	logger  *zap.SugaredLogger
}

func NewHandler(svc *Service, metrics *monitoring.Metrics, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, metrics: metrics, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.ViewerFrom(r.Context())
	f := entity.Filter{ViewerID: viewer}
	var err error
	if f.Limit, err = utilities.QueryInt(r, "limit", DefaultFeedLimit); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if f.Offset, err = utilities.QueryInt(r, "offset", 0); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if f.ReplyToID, err = utilities.OptionalInt64(r, "reply_to_id"); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if f.OwnerID, err = utilities.OptionalInt64(r, "owner_id"); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if q := r.URL.Query(); q.Has("search") {
		search := q.Get("search")
		f.Search = &search
	}
	rows, err := h.svc.List(r.Context(), f)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateInput
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	req.UserID, _ = auth.ViewerFrom(r.Context())
	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	h.metrics.PostsCreated.Inc()
	utilities.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utilities.PathInt64(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	viewer, _ := auth.ViewerFrom(r.Context())
	row, err := h.svc.Get(r.Context(), id, viewer)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, "delete", h.svc.Delete)
}

func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, "view", h.svc.View)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, "like", h.svc.Like)
}

func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, "dislike", h.svc.Dislike)
}

// interact runs a (post id, viewer id) action and answers 204 on success.
func (h *Handler) interact(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, postID, viewerID int64) error) {
	id, err := utilities.PathInt64(r, "id")
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	viewer, _ := auth.ViewerFrom(r.Context())
	if err := fn(r.Context(), id, viewer); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	h.metrics.Interactions.WithLabelValues(action).Inc()
	w.WriteHeader(http.StatusNoContent)
}
