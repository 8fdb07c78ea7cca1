package site

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/csheth/appsimple/internal/showcase"
	"github.com/csheth/appsimple/internal/typewriter"
)

const indexTitle = "Applied AI Engineer"

// simplePages are served from <slug>.html or content/<slug>.md.
var simplePages = []string{
	"about",
	"services",
	"process",
	"portfolio",
	"contact",
	"mobile/terms",
	"mobile/privacy",
}

// staticFiles are the icon and manifest files served from the static dir.
var staticFiles = []string{
	"favicon.ico",
	"apple-touch-icon.png",
	"favicon.svg",
	"favicon-96x96.png",
	"site.webmanifest",
	"web-app-manifest-192x192.png",
	"web-app-manifest-512x512.png",
}

type pageData struct {
	Title  string
	Slug   string
	Path   string
	Body   template.HTML
	Typing *typingData
}

type typingData struct {
	Target     string
	NoScript   template.HTML
	PageConfig pageConfig
	Items      []itemJSON
}

// pageConfig is window.PAGE_CONFIG. The typing* and *Duration keys are the
// ones assets/js/main.js hands to TypingModule.init, in milliseconds; the
// rest carry the precomputed plan for clients that replay it.
type pageConfig struct {
	TypingText           string  `json:"typingText"`
	TypingSpeed          int     `json:"typingSpeed"`
	SpeedVariation       float64 `json:"speedVariation"`
	InitialDelay         int     `json:"initialDelay"`
	LongPauseDuration    int     `json:"longPauseDuration"`
	ShortPauseDuration   int     `json:"shortPauseDuration"`
	WordPauseProbability float64 `json:"wordPauseProbability"`
	ThinkingDuration     [2]int  `json:"thinkingDuration"`

	Target         string                      `json:"target"`
	Text           string                      `json:"text"`
	InitialDelayMS int                         `json:"initialDelayMs"`
	StaggerMS      int                         `json:"staggerMs"`
	Segments       []typewriter.PlannedSegment `json:"segments"`
	Links          []typewriter.Link           `json:"links"`
	Items          []itemJSON                  `json:"items"`
}

type itemJSON struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

func toItemJSON(items []showcase.Item) []itemJSON {
	out := make([]itemJSON, len(items))
	for i, item := range items {
		out[i] = itemJSON{Title: item.Title, Description: item.Description, URL: item.URL}
	}
	return out
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	for _, slug := range simplePages {
		mux.HandleFunc("GET /"+slug, s.handlePage(slug))
	}
	mux.HandleFunc("GET /portfolio/{name}", s.handleCaseStudy)
	mux.HandleFunc("GET /api/typing", s.handleTyping)
	mux.HandleFunc("GET /assets/", s.handleAsset)
	for _, name := range staticFiles {
		mux.HandleFunc("GET /"+name, s.serveFile(filepath.Join(s.cfg.Server.StaticDir, name)))
	}
	mux.HandleFunc("GET /robots.txt", s.serveFile(filepath.Join(s.cfg.Server.RootDir, "robots.txt")))
	mux.HandleFunc("/", s.notFound)

	return s.logRequests(noCache(mux))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: indexTitle, Slug: "index", Path: r.URL.Path, Typing: s.typingData(nil)}
	body, err := s.pages.execute("index.html", data)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

func (s *Server) handlePage(slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, slug)
	}
}

func (s *Server) handleCaseStudy(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !s.caseStudies[name] {
		s.notFound(w, r)
		return
	}
	s.renderPage(w, r, "portfolio/"+name)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, slug string) {
	body, err := s.pages.render(slug, pageData{Title: titleFor(slug), Slug: slug, Path: r.URL.Path})
	if errors.Is(err, errPageNotFound) {
		s.notFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// handleTyping returns the hero animation plan as JSON. A seed query
// parameter makes the timing jitter repeatable.
func (s *Server) handleTyping(w http.ResponseWriter, r *http.Request) {
	var rnd typewriter.Rand
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "seed must be an unsigned integer"})
			return
		}
		rnd = typewriter.NewRand(seed)
	}
	writeJSON(w, http.StatusOK, s.typingData(rnd).PageConfig)
}

func (s *Server) typingData(rnd typewriter.Rand) *typingData {
	opts := s.cfg.Typing.Options(s.registry)
	opts.Rand = rnd

	buf := typewriter.NewBuffer()
	typewriter.Render(buf, typewriter.Split(opts.Text, s.registry.Tokens()), s.registry)

	items := toItemJSON(s.items)
	return &typingData{
		Target:   opts.Target,
		NoScript: template.HTML(buf.HTML()),
		Items:    items,
		PageConfig: pageConfig{
			TypingText:           opts.Text,
			TypingSpeed:          s.cfg.Typing.BaseSpeedMS,
			SpeedVariation:       opts.SpeedVariation,
			InitialDelay:         s.cfg.Typing.InitialDelayMS,
			LongPauseDuration:    s.cfg.Typing.LongPauseMS,
			ShortPauseDuration:   s.cfg.Typing.ShortPauseMS,
			WordPauseProbability: opts.WordPauseProbability,
			ThinkingDuration:     s.cfg.Typing.ThinkingMS,

			Target:         opts.Target,
			Text:           opts.Text,
			InitialDelayMS: s.cfg.Typing.InitialDelayMS,
			StaggerMS:      s.cfg.Typing.StaggerMS,
			Segments:       typewriter.Plan(opts),
			Links:          s.registry.Links(),
			Items:          items,
		},
	}
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/assets/")
	if rel == "" || strings.Contains(rel, "..") {
		s.notFound(w, r)
		return
	}
	s.serveFile(filepath.Join(s.cfg.Server.AssetsDir, filepath.FromSlash(rel)))(w, r)
}

func (s *Server) serveFile(file string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			s.notFound(w, r)
			return
		}
		http.ServeFile(w, r, file)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	body, err := s.pages.execute(notFoundTemplate, pageData{Title: "Page not found", Path: r.URL.Path})
	if err != nil {
		s.logger.Error("render 404 page", zap.Error(err))
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, body)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("render page", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
