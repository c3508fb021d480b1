package catalog

import (
	"net/http"
	"sync"

	"storefront/internal/api"
)

// syncJar lets concurrent loads share one session's upstream cookies.
type syncJar struct {
	mu  sync.Mutex
	jar api.Jar
}

func (j *syncJar) Cookies() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies()
}

func (j *syncJar) SetCookies(cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.jar.SetCookies(cookies)
}
