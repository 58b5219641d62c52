package server

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/util"
)

// cacheHeader reports where a rendered page came from: hit, store or miss.
const cacheHeader = "X-Nujel-Cache"

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	urlPath := path.Clean("/" + r.URL.Path)
	for _, part := range strings.Split(urlPath, "/") {
		if strings.HasPrefix(part, ".") {
			http.NotFound(w, r)
			return
		}
	}
	full := filepath.Join(s.root, filepath.FromSlash(urlPath))

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		s.log.Errorf("stat %s: %v", full, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if info.IsDir() {
		if !strings.HasSuffix(r.URL.Path, "/") {
			http.Redirect(w, r, urlPath+"/", http.StatusMovedPermanently)
			return
		}
		s.serveIndex(w, r, full, urlPath)
		return
	}

	if r.URL.Query().Has("raw") || !s.builder.Renders(full) {
		http.ServeFile(w, r, full)
		return
	}
	s.serveRendered(w, r, full)
}

// serveRendered renders a source file, consulting the memory cache and the
// render store first.
func (s *Server) serveRendered(w http.ResponseWriter, r *http.Request, full string) {
	src, err := os.ReadFile(full)
	if err != nil {
		s.log.Errorf("read %s: %v", full, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	sum := contentSum(src)
	rel, _ := filepath.Rel(s.root, full)
	rel = filepath.ToSlash(rel)

	source := "hit"
	page, ok := s.cache.Get(full, sum)
	if !ok && s.store != nil {
		page, ok, err = s.store.Get(r.Context(), rel, sum)
		if err != nil {
			s.log.Warnf("%v", err)
		}
		if ok {
			source = "store"
			s.cache.Set(full, sum, page)
		}
	}
	if !ok {
		source = "miss"
		page, err = s.builder.Render(full, src)
		if err != nil {
			s.log.Errorf("render %s: %v", rel, err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		s.cache.Set(full, sum, page)
		s.persist(r, rel, sum, page)
	}
	s.log.Debugf("render %s: %s", rel, source)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(cacheHeader, source)
	w.Header().Set("ETag", `"`+sum[:16]+`"`)
	if r.Method == http.MethodHead {
		return
	}
	w.Write(page)
}

func (s *Server) persist(r *http.Request, rel, sum string, page []byte) {
	if s.store == nil {
		return
	}
	if err := s.store.Put(r.Context(), rel, sum, page); err != nil {
		s.log.Warnf("%v", err)
		return
	}
	if n, err := s.store.Prune(r.Context(), rel, sum); err != nil {
		s.log.Warnf("%v", err)
	} else if n > 0 {
		s.log.Debugf("pruned %d stale renderings of %s", n, rel)
	}
}

// serveIndex lists a directory's visible entries.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request, dir, urlPath string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Errorf("read dir %s: %v", dir, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	title := util.EscapeHTML([]byte(urlPath))
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	buf.Write(title)
	buf.WriteString("</title>\n</head>\n<body>\n<h1>")
	buf.Write(title)
	buf.WriteString("</h1>\n<ul>\n")
	if urlPath != "/" {
		buf.WriteString("<li><a href=\"../\">../</a></li>\n")
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		escaped := util.EscapeHTML([]byte(name))
		class := ""
		if !e.IsDir() && s.builder.Renders(name) {
			class = ` class="source"`
		}
		href := util.EscapeHTML(util.URLEscape([]byte(name), false))
		fmt.Fprintf(&buf, "<li><a%s href=\"%s\">%s</a></li>\n", class, href, escaped)
	}
	buf.WriteString("</ul>\n</body>\n</html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Method == http.MethodHead {
		return
	}
	w.Write(buf.Bytes())
}
