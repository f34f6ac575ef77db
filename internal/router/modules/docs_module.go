package modules

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minerdev/codenames-api/internal/router"
)

var swaggerPage = template.Must(template.New("swagger").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin="anonymous"></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: {{.DocURL}}, dom_id: '#swagger-ui' });
    };
  </script>
</body>
</html>
`))

// DocsModule serves the generated OpenAPI document and a Swagger UI page
// that renders it. Neither route appears in the document.
type DocsModule struct {
	DocPath string
	UIPath  string
	Title   string
}

func NewDocsModule(docPath, uiPath, title string) *DocsModule {
	return &DocsModule{DocPath: docPath, UIPath: uiPath, Title: title}
}

func (m *DocsModule) Register(reg *router.Registry) error {
	var page bytes.Buffer
	err := swaggerPage.Execute(&page, struct{ Title, DocURL string }{m.Title, m.DocPath})
	if err != nil {
		return fmt.Errorf("render swagger page: %w", err)
	}
	html := page.Bytes()

	reg.Engine.GET(m.DocPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, reg.Describe())
	})
	reg.Engine.GET(m.UIPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)
	})
	return nil
}
