package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

const (
	layoutTemplate   = "layout.html"
	notFoundTemplate = "404.html"
)

// errPageNotFound is returned when neither a template nor markdown content
// exists for a page.
var errPageNotFound = errors.New("page not found")

// pageSet renders pages from html templates, falling back to markdown
// content wrapped in the layout template. Templates in templatesDir override
// the embedded defaults of the same name.
type pageSet struct {
	templatesDir string
	contentDir   string
	markdown     goldmark.Markdown
	logger       *zap.Logger

	mu        sync.RWMutex
	templates *template.Template
}

func newPageSet(templatesDir, contentDir string, logger *zap.Logger) (*pageSet, error) {
	p := &pageSet{
		templatesDir: templatesDir,
		contentDir:   contentDir,
		markdown:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:       logger,
	}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// reload reparses every template. On failure the previous set stays active.
func (p *pageSet) reload() error {
	set := template.New("site")
	err := fs.WalkDir(defaultTemplates, "templates", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := defaultTemplates.ReadFile(name)
		if err != nil {
			return err
		}
		_, err = set.New(strings.TrimPrefix(name, "templates/")).Parse(string(data))
		return err
	})
	if err != nil {
		return fmt.Errorf("parse embedded templates: %w", err)
	}

	if p.templatesDir != "" {
		err = filepath.WalkDir(p.templatesDir, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(file) != ".html" {
				return nil
			}
			rel, err := filepath.Rel(p.templatesDir, file)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			if _, err := set.New(filepath.ToSlash(rel)).Parse(string(data)); err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("parse templates: %w", err)
		}
	}

	p.mu.Lock()
	p.templates = set
	p.mu.Unlock()
	return nil
}

func (p *pageSet) has(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.templates.Lookup(name) != nil
}

func (p *pageSet) execute(name string, data any) ([]byte, error) {
	p.mu.RLock()
	set := p.templates
	p.mu.RUnlock()

	tmpl := set.Lookup(name)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %s", errPageNotFound, name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// render produces the page for slug, e.g. "about" or "portfolio/livewire".
func (p *pageSet) render(slug string, data pageData) ([]byte, error) {
	name := slug + ".html"
	if p.has(name) {
		return p.execute(name, data)
	}

	if p.contentDir == "" {
		return nil, fmt.Errorf("%w: %s", errPageNotFound, slug)
	}
	source, err := os.ReadFile(filepath.Join(p.contentDir, filepath.FromSlash(slug)+".md"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errPageNotFound, slug)
		}
		return nil, err
	}
	var body bytes.Buffer
	if err := p.markdown.Convert(source, &body); err != nil {
		return nil, fmt.Errorf("render %s.md: %w", slug, err)
	}
	data.Body = template.HTML(body.String())
	return p.execute(layoutTemplate, data)
}

// Watch reloads templates whenever a file under the templates dir changes.
// It returns once the watcher is running; the watcher stops with ctx.
func (p *pageSet) Watch(ctx context.Context) error {
	if p.templatesDir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	err = filepath.WalkDir(p.templatesDir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(file)
		}
		return nil
	})
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", p.templatesDir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				if err := p.reload(); err != nil {
					p.logger.Warn("template reload failed", zap.String("file", event.Name), zap.Error(err))
					continue
				}
				p.logger.Info("templates reloaded", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.logger.Warn("template watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

// titleFor turns a slug like "portfolio/a-simple-auth-kit" into
// "A Simple Auth Kit".
func titleFor(slug string) string {
	words := strings.Fields(strings.ReplaceAll(path.Base(slug), "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
