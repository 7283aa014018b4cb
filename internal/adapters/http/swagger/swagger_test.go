package swagger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestSwaggerHandler(t *testing.T) {
	convey.Convey("Given a mux with the docs routes", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		convey.Convey("Then /openapi.yaml serves the embedded document", func() {
			req := httptest.NewRequest("GET", "/openapi.yaml", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
			convey.So(w.Body.Bytes(), convey.ShouldResemble, OpenAPI)
		})

		convey.Convey("And /api-docs serves the ReDoc page", func() {
			req := httptest.NewRequest("GET", "/api-docs", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "redoc-container")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, redocBundle)
		})

		convey.Convey("And other methods are not found", func() {
			req := httptest.NewRequest("POST", "/openapi.yaml", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestOpenAPIDocument(t *testing.T) {
	convey.Convey("Given the embedded OpenAPI document", t, func() {
		var doc struct {
			OpenAPI string                    `yaml:"openapi"`
			Paths   map[string]map[string]any `yaml:"paths"`
		}
		convey.So(yaml.Unmarshal(OpenAPI, &doc), convey.ShouldBeNil)

		convey.Convey("Then every served route is documented", func() {
			convey.So(doc.OpenAPI, convey.ShouldStartWith, "3.")
			for path, method := range map[string]string{
				"/convert":         "post",
				"/convert/batch":   "post",
				"/standards":       "get",
				"/standards/check": "post",
				"/validate":        "post",
				"/jobs":            "post",
				"/jobs/{id}":       "get",
				"/healthz":         "get",
				"/stats":           "get",
			} {
				convey.So(doc.Paths, convey.ShouldContainKey, path)
				convey.So(doc.Paths[path], convey.ShouldContainKey, method)
			}
		})
	})
}

func TestRegisterWithNilMux(t *testing.T) {
	convey.Convey("Given a nil mux", t, func() {
		convey.So(func() { Register(context.Background(), nil) }, convey.ShouldPanic)
	})
}
