package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/mmdatafocus/recon_backend/utils"
	"github.com/gin-gonic/gin"
)

func identityRouter(gotCid *string, gotUser *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestIdentityMiddleware())
	r.GET("/check", func(c *gin.Context) {
		*gotCid, _ = utils.GetCorrelationIdFromContext(c.Request.Context())
		*gotUser, _ = utils.GetUsernameFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequestIdentityMiddleware_CarriesCallerIdentity(t *testing.T) {
	var gotCid, gotUser string
	r := identityRouter(&gotCid, &gotUser)

	req := httptest.NewRequest(http.MethodGet, "/check", nil)
	req.Header.Set("x-correlation-id", "cid-912")
	req.Header.Set("x-username", "awa.diop")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if gotCid != "cid-912" {
		t.Errorf("expected correlation id in context, got %q", gotCid)
	}
	if gotUser != "awa.diop" {
		t.Errorf("expected username in context, got %q", gotUser)
	}
	if w.Header().Get("x-correlation-id") != "cid-912" {
		t.Errorf("correlation id must be echoed to the client, got %q", w.Header().Get("x-correlation-id"))
	}
}

func TestRequestIdentityMiddleware_MintsMissingCorrelationId(t *testing.T) {
	var gotCid, gotUser string
	r := identityRouter(&gotCid, &gotUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/check", nil))

	if gotCid == "" {
		t.Fatal("expected a minted correlation id in context")
	}
	if w.Header().Get("x-correlation-id") != gotCid {
		t.Errorf("minted id must be echoed to the client, header %q context %q", w.Header().Get("x-correlation-id"), gotCid)
	}
	if gotUser != "" {
		t.Errorf("no username header should mean no username in context, got %q", gotUser)
	}
}
