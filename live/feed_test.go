package live

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedTokenSources(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/order/live?token=query-token", nil)
	assert.Equal(t, "query-token", feedToken(r))

	r = httptest.NewRequest("GET", "/api/order/live", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", feedToken(r))

	r = httptest.NewRequest("GET", "/api/order/live?token=query-token", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "query-token", feedToken(r), "query string wins when both are present")

	r = httptest.NewRequest("GET", "/api/order/live", nil)
	assert.Empty(t, feedToken(r))

	r = httptest.NewRequest("GET", "/api/order/live", nil)
	r.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, feedToken(r), "only bearer tokens are accepted")
}
