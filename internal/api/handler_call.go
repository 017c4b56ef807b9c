package api

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var callPageTmpl = template.Must(template.New("call").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="0;url={{.TelURL}}">
<title>Calling {{.Phone}}</title>
</head>
<body>
<p>Calling <a href="{{.TelURL}}">{{.Phone}}</a>&hellip;</p>
<script>window.location.replace({{.TelURL}});</script>
</body>
</html>
`))

var missingNumberPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Missing number</title></head>
<body><p>No phone number was provided.</p></body>
</html>
`

// dialable strips formatting so the tel: URL carries only the leading
// plus and digits.
func dialable(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GetCallPage renders a page that immediately redirects to a tel: URL,
// auto-dialing the number a tapped notification carried.
func (h *Handler) GetCallPage(c *gin.Context) {
	phone := c.Query("to")
	if strings.TrimSpace(phone) == "" {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(missingNumberPage))
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = callPageTmpl.Execute(c.Writer, gin.H{
		"Phone":  phone,
		"TelURL": template.URL("tel:" + dialable(phone)),
	})
}
