package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lberndt/gatehouse/internal/register/domain"
	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/pkg/httpx"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

// AdminTokensHandler exposes invitation token management to authenticated
// admins: mint, list with stats, delete.
type AdminTokensHandler struct {
	Invites *service.InviteService
}

// TokenView is the JSON shape of an invitation token in admin listings.
type TokenView struct {
	ID        int64   `json:"id"`
	Value     string  `json:"token"`
	Used      bool    `json:"used"`
	CreatedAt string  `json:"created_at"`
	UsedAt    *string `json:"used_at,omitempty"`
	UsedBy    *string `json:"used_by,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
}

// TokenListResponse bundles the filtered listing with table-wide stats.
type TokenListResponse struct {
	Tokens []TokenView `json:"tokens"`
	Filter string      `json:"filter"`
	Stats  struct {
		Total  int `json:"total"`
		Used   int `json:"used"`
		Unused int `json:"unused"`
	} `json:"stats"`
}

func newTokenView(t domain.InviteToken) TokenView {
	v := TokenView{
		ID:        t.ID,
		Value:     t.Value,
		Used:      t.Used,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UsedBy:    t.UsedBy,
		IPAddress: t.IPAddress,
	}
	if t.UsedAt != nil {
		s := t.UsedAt.Format(time.RFC3339)
		v.UsedAt = &s
	}
	return v
}

// HandleMint creates a new invitation token, recording the admin's IP as its
// origin.
func (h *AdminTokensHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ip := httpx.IPKeyExtractor(r)
	var originIP *string
	if ip != "" {
		originIP = &ip
	}

	value, err := h.Invites.Mint(ctx, originIP)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to mint token", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to mint invitation token")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"token": value})
}

// HandleList returns tokens matching the filter query parameter (all, used,
// unused; default all), newest first, plus table stats.
func (h *AdminTokensHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := domain.ParseTokenFilter(r.URL.Query().Get("filter"))

	tokens, err := h.Invites.List(ctx, filter)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list tokens", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to list invitation tokens")
		return
	}

	stats, err := h.Invites.Stats(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to count tokens", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to count invitation tokens")
		return
	}

	resp := TokenListResponse{
		Tokens: make([]TokenView, 0, len(tokens)),
		Filter: string(filter),
	}
	for _, t := range tokens {
		resp.Tokens = append(resp.Tokens, newTokenView(t))
	}
	resp.Stats.Total = stats.Total
	resp.Stats.Used = stats.Used
	resp.Stats.Unused = stats.Unused

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleDelete removes a token by id.
func (h *AdminTokensHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Token id must be an integer")
		return
	}

	ok, err := h.Invites.Delete(ctx, id)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to delete token", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Unable to delete invitation token")
		return
	}
	if !ok {
		httpx.WriteError(w, http.StatusNotFound,
			"not_found", "No invitation token with that id")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
