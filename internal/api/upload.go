package api

import (
	"mobil_market/internal/domain" // Upload URL prefix
	"net/http"                     // HTTP status codes
	"os"                           // Directory creation
	"path/filepath"                // Path joining
	"strconv"                      // Timestamp formatting
	"strings"                      // String building
	"time"                         // Upload timestamps
	"unicode"                      // Character classes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// maxUploadBytes caps one multipart request
const maxUploadBytes = 64 << 20

// sanitizeFilename keeps letters, digits, dots and underscores
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' {
			b.WriteRune(r)
		}
	}
	safe := strings.Trim(b.String(), ".")
	if safe == "" {
		return "file"
	}
	return safe
}

// UploadHandler stores the multipart "files" field and returns their public paths
func UploadHandler(uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No files provided"})
			return
		}
		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			logrus.WithError(err).WithField("dir", uploadDir).Error("Failed to create upload folder")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store files"})
			return
		}
		paths := make([]string, 0, len(files))
		for _, fh := range files {
			if fh.Filename == "" {
				continue
			}
			name := strconv.FormatInt(time.Now().UnixNano(), 10) + "_" + sanitizeFilename(fh.Filename)
			if err := c.SaveUploadedFile(fh, filepath.Join(uploadDir, name)); err != nil {
				logrus.WithError(err).WithField("file", fh.Filename).Error("Failed to save upload")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store files"})
				return
			}
			paths = append(paths, domain.UploadURLPrefix+"/"+name)
		}
		logrus.WithField("count", len(paths)).Info("Files uploaded")
		c.JSON(http.StatusOK, gin.H{"paths": paths})
	}
}
