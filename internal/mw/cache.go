package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves successful GET responses from an in-memory cache for the
// given duration. Used for responses that cannot change within a
// process lifetime, like the VAPID public key.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, found := store.Get(key); found {
			resp := hit.(cachedResponse)
			c.Data(resp.status, resp.contentType, resp.body)
			c.Abort()
			return
		}

		w := &bodyCaptureWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if w.Status() >= 200 && w.Status() < 300 {
			store.Set(key, cachedResponse{
				status:      w.Status(),
				contentType: w.Header().Get("Content-Type"),
				body:        w.body.Bytes(),
			}, duration)
		}
	}
}
