package server

import (
	"bytes"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

const liveReloadPath = "/__livereload"

var bodyTagRe = regexp.MustCompile(`(?i)</body>`)

// liveReloadScript polls the sequence endpoint and reloads when it moves.
const liveReloadScript = `<script>
(function() {
  let lastSeq = -1;
  async function check() {
    try {
      const resp = await fetch('` + liveReloadPath + `');
      const data = await resp.json();
      if (lastSeq === -1) {
        lastSeq = data.seq;
      } else if (data.seq !== lastSeq) {
        location.reload();
        return;
      }
    } catch (e) {
      // server restarting
    }
    setTimeout(check, 1000);
  }
  window.addEventListener('load', check);
})();
</script>
`

// liveReloadHandler serves the change sequence as JSON
type liveReloadHandler struct {
	seq func() uint64
}

func (h *liveReloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	fmt.Fprintf(w, `{"seq":%d}`, h.seq())
}

// injectLiveReload adds the reload script to HTML responses.
func injectLiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lrw := &liveReloadResponseWriter{ResponseWriter: w}
		next.ServeHTTP(lrw, r)
		lrw.flush()
	})
}

// liveReloadResponseWriter buffers HTML responses so the script can be inserted
type liveReloadResponseWriter struct {
	http.ResponseWriter
	buffer      bytes.Buffer
	statusCode  int
	wroteHeader bool
	isHTML      bool
	checked     bool
}

func (w *liveReloadResponseWriter) WriteHeader(code int) {
	w.statusCode = code
}

func (w *liveReloadResponseWriter) check() {
	if w.checked {
		return
	}
	w.checked = true
	w.isHTML = strings.Contains(w.Header().Get("Content-Type"), "text/html")
}

func (w *liveReloadResponseWriter) writeHeader() {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if w.statusCode != 0 {
		w.ResponseWriter.WriteHeader(w.statusCode)
	}
}

func (w *liveReloadResponseWriter) Write(b []byte) (int, error) {
	w.check()
	if w.isHTML {
		return w.buffer.Write(b)
	}
	w.writeHeader()
	return w.ResponseWriter.Write(b)
}

func (w *liveReloadResponseWriter) flush() {
	w.check()
	if !w.isHTML || w.buffer.Len() == 0 {
		w.writeHeader()
		return
	}

	content := w.buffer.Bytes()
	var out bytes.Buffer
	if loc := bodyTagRe.FindIndex(content); loc != nil {
		out.Write(content[:loc[0]])
		out.WriteString(liveReloadScript)
		out.Write(content[loc[0]:])
	} else {
		out.Write(content)
		out.WriteString(liveReloadScript)
	}

	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.writeHeader()
	w.ResponseWriter.Write(out.Bytes())
}
