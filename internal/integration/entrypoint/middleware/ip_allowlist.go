package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainerror "github.com/natural-surplus/backend/internal/domain/error"
	"github.com/natural-surplus/backend/internal/integration/entrypoint/dto"
)

// IPAllowlist admits only clients whose IP falls inside one of its networks.
// An empty allowlist admits everyone.
type IPAllowlist struct {
	networks []*net.IPNet
}

// NewIPAllowlist parses CIDRs or bare IPs.
func NewIPAllowlist(entries []string) (*IPAllowlist, error) {
	networks := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			if ip := net.ParseIP(entry); ip != nil && ip.To4() != nil {
				entry += "/32"
			} else {
				entry += "/128"
			}
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid allowlist entry %q: %w", entry, err)
		}
		networks = append(networks, network)
	}
	return &IPAllowlist{networks: networks}, nil
}

// Allows reports whether ip is admitted.
func (a *IPAllowlist) Allows(ip string) bool {
	if len(a.networks) == 0 {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range a.networks {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}

// Middleware returns a Gin middleware handler rejecting clients outside the allowlist.
func (a *IPAllowlist) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Allows(c.ClientIP()) {
			slog.Warn("Rejected request from address outside allowlist",
				"client_ip", c.ClientIP(),
				"path", c.FullPath(),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error: "Forbidden",
				Code:  string(domainerror.ErrCodeCallbackForbidden),
			})
			return
		}
		c.Next()
	}
}
