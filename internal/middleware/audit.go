package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/pkg/logger"
)

const maxAuditBody = 2000

// AuditLog records write operations (POST/PUT/PATCH/DELETE) with the acting
// user. Sensitive body fields are masked.
func AuditLog(basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}

		var bodySnippet string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > maxAuditBody {
				bodySnippet = bodySnippet[:maxAuditBody] + "...[truncated]"
			}
			bodySnippet = maskSensitiveFields(bodySnippet)
		}

		c.Next()

		module, action := parseRouteInfo(strings.TrimPrefix(c.FullPath(), basePath), method)
		status := c.Writer.Status()

		logger.Info().
			Bool("audit", true).
			Str("module", module).
			Str("action", action).
			Str("user_id", GetUserID(c)).
			Str("email", GetEmail(c)).
			Str("method", method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("ip", c.ClientIP()).
			Str("body", bodySnippet).
			Msg(formatAuditMessage(GetEmail(c), method, c.Request.URL.Path, status))
	}
}

// parseRouteInfo extracts module and action from a Gin route pattern.
// e.g. "/project/:id/add-engineer" + "POST" → module="Project", action="add-engineer"
func parseRouteInfo(fullPath, method string) (module, action string) {
	parts := strings.Split(strings.Trim(fullPath, "/"), "/")
	module = parts[0]
	if module == "" {
		module = "unknown"
	}
	module = titleWords(strings.ReplaceAll(module, "-", " "))

	last := parts[len(parts)-1]
	if len(parts) > 1 && !strings.HasPrefix(last, ":") {
		return module, last
	}

	switch method {
	case http.MethodPost:
		action = "Create"
	case http.MethodPut, http.MethodPatch:
		action = "Update"
	case http.MethodDelete:
		action = "Delete"
	default:
		action = method
	}
	return module, action
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatAuditMessage creates a human-readable audit message.
func formatAuditMessage(email, method, path string, status int) string {
	if email == "" {
		email = "anonymous"
	}
	var b strings.Builder
	b.WriteString("[Audit] ")
	b.WriteString(email)
	b.WriteString(" ")
	b.WriteString(method)
	b.WriteString(" ")
	b.WriteString(path)
	b.WriteString(" → ")
	if status >= 200 && status < 300 {
		b.WriteString("OK")
	} else {
		b.WriteString("Failed")
	}
	return b.String()
}

// maskSensitiveFields replaces sensitive values in JSON body
func maskSensitiveFields(body string) string {
	sensitiveKeys := []string{"password", "oldPassword", "newPassword", "token", "refreshToken", "accessToken"}
	lower := strings.ToLower(body)
	for _, key := range sensitiveKeys {
		if strings.Contains(lower, strings.ToLower(key)) {
			body = maskJSONValue(body, key)
		}
	}
	return body
}

// maskJSONValue does a best-effort mask of JSON string values for a given key
func maskJSONValue(body, key string) string {
	lower := strings.ToLower(body)
	idx := strings.Index(lower, "\""+strings.ToLower(key)+"\"")
	if idx == -1 {
		return body
	}

	colonIdx := strings.Index(body[idx+len(key)+2:], ":")
	if colonIdx == -1 {
		return body
	}
	valueStart := idx + len(key) + 2 + colonIdx + 1

	for valueStart < len(body) && (body[valueStart] == ' ' || body[valueStart] == '\t') {
		valueStart++
	}

	if valueStart >= len(body) {
		return body
	}

	if body[valueStart] == '"' {
		endQuote := strings.Index(body[valueStart+1:], "\"")
		if endQuote == -1 {
			return body
		}
		return body[:valueStart+1] + "***" + body[valueStart+1+endQuote:]
	}

	return body
}
