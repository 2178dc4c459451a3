package httpx

import (
	"net/http"

	"github.com/opsdesk/opsdesk-api/internal/service"
)

// ViewHandlers serves the guarded view descriptors the frontend renders
// from. Resolve is the page-level authority boundary: unlike the edge
// guard it runs full session revalidation and the menu permission check,
// and every view route must pass through it.
type ViewHandlers struct {
	Auth *service.MenuAuthService
}

// viewDescriptor is what the frontend receives for an allowed view.
type viewDescriptor struct {
	Path    string `json:"path"`
	MenuKey string `json:"menu_key,omitempty"`
	Kind    string `json:"kind"`
}

// Resolve handles GET on guarded view paths. Denials never produce an
// error page: the caller is redirected — to login when anonymous, to the
// portal for clients on staff views, to the dashboard with an error
// indicator on a missing menu grant.
func (h *ViewHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	decision := h.Auth.Authorize(r.Context(), id, r.URL.RequestURI())
	if !decision.Allowed {
		http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
		return
	}

	desc := viewDescriptor{Path: r.URL.Path, Kind: string(id.IdentityKind())}
	if key, ok := h.Auth.KeyMap().KeyFor(r.URL.Path); ok {
		desc.MenuKey = key
	}
	WriteJSON(w, http.StatusOK, desc)
}
