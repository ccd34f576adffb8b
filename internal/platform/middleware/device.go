package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

// DeviceInfo summarizes the client platform for the activity log. No raw
// user-agent string is retained downstream.
type DeviceInfo struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

type contextKeyDevice struct{}

var ContextKeyDevice = contextKeyDevice{}

// GetDevice retrieves parsed device info from the context.
func GetDevice(ctx context.Context) DeviceInfo {
	info, ok := ctx.Value(ContextKeyDevice).(DeviceInfo)
	if !ok {
		return DeviceInfo{}
	}
	return info
}

// Device parses the User-Agent header once per request so activity events can
// record what kind of client acted.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.UserAgent())
		browser, _ := ua.Browser()
		info := DeviceInfo{
			Browser: browser,
			OS:      ua.OS(),
			Mobile:  ua.Mobile(),
			Bot:     ua.Bot(),
		}
		ctx := context.WithValue(r.Context(), ContextKeyDevice, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
