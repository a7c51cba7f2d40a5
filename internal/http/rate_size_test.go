package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginIsThrottled(t *testing.T) {
	env := newTestEnv(t)
	form := func() url.Values { return url.Values{"email": {adminEmail}, "password": {"wrongpass"}} }

	for i := 0; i < 10; i++ {
		resp := env.postForm(t, "/login", "", form())
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}
	resp := env.postForm(t, "/login", "", form())
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Trop de tentatives")
}

func TestPostWithoutCSRFTokenIsRefused(t *testing.T) {
	env := newTestEnv(t)
	id := env.seed(t, "Secrétaire en noyer", nil)
	sid := env.session(t, env.adminID)

	req := newFormRequest("/admin/reject/"+itoa(id), url.Values{})
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := env.app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
