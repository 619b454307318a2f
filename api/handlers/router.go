package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aria-lang/isoflow-go/api/middleware"
	"github.com/aria-lang/isoflow-go/internal/metrics"
)

// NewRouter builds the full HTTP handler: middleware, health, metrics, the
// isoform routes and the home page.
func NewRouter(h *Handlers, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	h.Routes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(homePage))
	})

	return r
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>isoflow API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>isoflow API</h1>
    <p>Alignment of UniProt isoforms derived from their alternative-sequence annotations.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">GET</span> <code>/isoforms/{accession}</code>
        <p>Canonical and modified isoforms with their edits.</p>
    </div>

    <div class="endpoint">
        <span class="method">GET</span> <code>/isoforms/alignmentPos/{accession}</code>
        <p>Gapped sequences with gap, insertion, deletion and mismatch features.</p>
    </div>

    <div class="endpoint">
        <span class="method">GET</span> <code>/isoforms/svg/{accession}/{motif}</code>
        <p>SVG drawing of the alignment; the optional motif is shaded.</p>
    </div>

    <div class="endpoint">
        <span class="method">GET</span> <code>/isoforms/fasta/{accession}</code>
        <p>Aligned FASTA.</p>
    </div>

    <div class="endpoint">
        <span class="method">GET</span> <code>/isoforms/best?ids=P04637,Q9NP62</code>
        <p>Rank candidate accessions.</p>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment</code>
        <p>Align isoforms supplied in the request.</p>
        <pre>{"isoforms": [{"id": "C", "sequence": "MKVLA", "canonical": true},
              {"id": "V", "sequence": "MKA", "modifications": [{"id": "VSP_1", "begin": 3, "end": 4}]}]}</pre>
    </div>
</body>
</html>`
