package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/coliseum/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_App(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("app"))

	app.Handle(http.MethodGet, "v1", "/echo/:name", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return web.NewShutdownError("web value missing from context")
		}
		resp := struct {
			Name    string `json:"name"`
			TraceID string `json:"trace_id"`
		}{
			Name:    web.Param(r, "name"),
			TraceID: v.TraceID,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}, mw("route"))

	app.Handle(http.MethodGet, "v1", "/fail", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	})

	t.Log("Given the need to route requests through middleware.")
	{
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/echo/bill", nil))

		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"bill"`) {
			t.Fatalf("\t%s\tShould route to the handler with params: %d %s", failed, w.Code, w.Body.String())
		}
		t.Logf("\t%s\tShould route to the handler with params.", success)

		if len(order) != 2 || order[0] != "app" || order[1] != "route" {
			t.Fatalf("\t%s\tShould run app middleware before route middleware: got %v", failed, order)
		}
		t.Logf("\t%s\tShould run app middleware before route middleware.", success)

		app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/fail", nil))
		select {
		case <-shutdown:
			t.Logf("\t%s\tShould signal shutdown on an unhandled error.", success)
		default:
			t.Fatalf("\t%s\tShould signal shutdown on an unhandled error.", failed)
		}
	}
}

func Test_Decode(t *testing.T) {
	var v struct {
		Sender string `json:"sender"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sender":"A","extra":1}`))
	if err := web.Decode(r, &v); err == nil {
		t.Fatalf("\t%s\tShould reject unknown fields.", failed)
	}
	t.Logf("\t%s\tShould reject unknown fields.", success)

	if !web.IsShutdown(errors.Join(errors.New("x"), web.NewShutdownError("y"))) {
		t.Fatalf("\t%s\tShould find a wrapped shutdown error.", failed)
	}
	t.Logf("\t%s\tShould find a wrapped shutdown error.", success)
}
