package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// RegisterStatic serves the storefront files: /uploads, the index page at /
// and any other file under dir for unmatched GET requests.
func RegisterStatic(router *gin.Engine, dir string) {
	router.Static("/uploads", filepath.Join(dir, "uploads"))
	router.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(dir, "index.html"))
	})
	router.NoRoute(staticFallback(dir))
}

func staticFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			// Clean against "/" so the result cannot climb out of dir
			name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
			if info, err := os.Stat(name); err == nil && !info.IsDir() {
				c.File(name)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	}
}
