package api

import (
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

const (
	adminPageLimit   = 100
	answerPreviewLen = 100
)

const adminPage = `<html>
<head><title>Admin - Question Logs</title>
<style>
    body { font-family: Arial; padding: 20px; }
    table { width: 100%; border-collapse: collapse; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
    th { background-color: #4CAF50; color: white; }
    tr:nth-child(even) { background-color: #f2f2f2; }
</style>
</head>
<body>
    <h1>Question Logs</h1>
    <table>
        <tr>
            <th>ID</th>
            <th>Timestamp</th>
            <th>Language</th>
            <th>Question</th>
            <th>Answer</th>
            <th>IP</th>
        </tr>
{{- range .}}
        <tr>
            <td>{{.ID}}</td>
            <td>{{.Timestamp.Format "2006-01-02 15:04:05"}}</td>
            <td>{{.Language}}</td>
            <td>{{.Question}}</td>
            <td>{{preview .Answer}}</td>
            <td>{{.UserIP}}</td>
        </tr>
{{- end}}
    </table>
</body>
</html>`

var adminTemplate = template.Must(template.New("admin").
	Funcs(template.FuncMap{"preview": answerPreview}).
	Parse(adminPage))

// HandleAdmin renders the most recent interactions for an operator holding
// the admin token. A missing token and a wrong token get the same reply.
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Query().Get("token") != h.adminToken {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "<h1>Unauthorized</h1>")
		return
	}

	logs, err := h.store.RecentInteractions(adminPageLimit)
	if err != nil {
		h.logger.Error("failed to read recent interactions", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminTemplate.Execute(w, logs); err != nil {
		h.logger.Error("failed to render admin page", zap.Error(err))
	}
}

func answerPreview(s string) string {
	runes := []rune(s)
	if len(runes) <= answerPreviewLen {
		return s
	}
	return string(runes[:answerPreviewLen]) + "..."
}
