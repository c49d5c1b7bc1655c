// Package action serves wiki pages as reStructuredText over HTTP, in the
// manner of wiki actions: "?action=rst" on a page redirects to
// "?action=format&mimetype=text/x-rst", which serves the converted page.
package action

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/jcorbin/moin2rst/internal/convert"
	"github.com/jcorbin/moin2rst/internal/wikipage"
)

// MimeType is the media type of reStructuredText.
const MimeType = "text/x-rst"

// PageURL returns the address of page: the single '%' of tmpl replaced by
// the escaped page name, or the name appended when tmpl has none. Relative
// addresses are rooted.
func PageURL(tmpl, page string) string {
	name := strings.ReplaceAll(url.PathEscape(page), "%2F", "/")
	if !strings.Contains(tmpl, "%") {
		tmpl += "%"
	}
	addr := strings.Replace(tmpl, "%", name, 1)
	if !strings.HasPrefix(addr, "/") && !strings.Contains(addr, "://") {
		addr = "/" + addr
	}
	return addr
}

// RedirectURL returns the address of the format action rendering page as
// reStructuredText.
func RedirectURL(tmpl, page string) (string, error) {
	u, err := url.Parse(PageURL(tmpl, page))
	if err != nil {
		return "", fmt.Errorf("invalid url for page %q: %w", page, err)
	}
	q := u.Query()
	q.Set("action", "format")
	q.Set("mimetype", MimeType)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Handler serves the pages of Store.
type Handler struct {
	Store wikipage.Store

	// URLTemplate addresses pages, see PageURL.
	URLTemplate string

	Options convert.Options
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	page := strings.Trim(r.URL.Path, "/")
	if page == "" {
		http.Error(w, "no page given", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	switch action := q.Get("action"); action {
	case "rst":
		h.redirect(w, r, page)
	case "format":
		if mt := q.Get("mimetype"); mt != MimeType {
			http.Error(w, fmt.Sprintf("unsupported mimetype %q", mt), http.StatusBadRequest)
			return
		}
		h.format(w, r, page)
	default:
		http.Error(w, fmt.Sprintf("unsupported action %q", action), http.StatusBadRequest)
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, page string) {
	addr, err := RedirectURL(h.URLTemplate, page)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("redirect failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, addr, http.StatusFound)
}

func (h *Handler) format(w http.ResponseWriter, r *http.Request, page string) {
	log := hlog.FromRequest(r)

	rev := 0
	if s := r.URL.Query().Get("rev"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, fmt.Sprintf("invalid revision %q", s), http.StatusBadRequest)
			return
		}
		rev = n
	}

	pg, err := h.Store.Open(page, rev)
	if errors.Is(err, wikipage.ErrNotExist) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	} else if err != nil {
		log.Error().Err(err).Str("page", page).Msg("open failed")
		http.Error(w, "cannot read page", http.StatusInternalServerError)
		return
	}

	opts := h.Options
	opts.Logger = log
	var buf bytes.Buffer
	if err := convert.Convert(&buf, pg, opts); err != nil {
		log.Error().Err(err).Str("page", page).Msg("conversion failed")
		http.Error(w, "cannot convert page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", MimeType+"; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if r.Method != http.MethodHead {
		buf.WriteTo(w)
	}
}

// Routes wraps h with request logging to log.
func Routes(log zerolog.Logger, h http.Handler) http.Handler {
	chain := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	chain = hlog.RequestIDHandler("req_id", "Request-Id")(chain)
	chain = hlog.RemoteAddrHandler("ip")(chain)
	return hlog.NewHandler(log)(chain)
}

// Serve serves h on addr until ctx is done.
func Serve(ctx context.Context, log zerolog.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      Routes(log, h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("serving")

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
