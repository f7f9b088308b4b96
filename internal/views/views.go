package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"bookhub-dashboard/internal/format"
	"bookhub-dashboard/internal/screens"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per screen template
const (
	PageBookList    = "booklist"
	PageAddBook     = "addbook"
	PageOrderList   = "orderlist"
	PageOrderDetail = "orderdetail"
	PageCopyList    = "copylist"
)

var pageNames = []string{PageBookList, PageAddBook, PageOrderList, PageOrderDetail, PageCopyList}

// PageData is what every page template receives
type PageData struct {
	Title     string
	ActiveNav string
	// Alert is a validation or action failure shown above the content
	Alert string
	// Notice is a one-shot success message
	Notice string
	Screen any
	// Form echoes submitted values back into the page
	Form any
}

// Renderer holds one parsed template set per page, each combined with the layout
type Renderer struct {
	pages map[string]*template.Template
}

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"vnd":         format.VND,
		"vndText":     format.VNDText,
		"number":      func(n int) string { return format.Number(int64(n)) },
		"statusView":  screens.ViewOrderStatus,
		"canComplete": screens.CanComplete,
	}
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}

	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").
			Funcs(Funcs()).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

// Render executes page inside the layout and writes it with status.
// Nothing is written if the template fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data PageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
