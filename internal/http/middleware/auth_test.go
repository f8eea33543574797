// README: Tests for Firebase auth, recovery and role middleware.
package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fairride/internal/http/middleware"
	"fairride/internal/infra"
)

// recordingVerifier returns a canned result and remembers the raw token it saw.
type recordingVerifier struct {
	token *infra.FirebaseToken
	err   error
	seen  []string
}

func (v *recordingVerifier) VerifyIDToken(_ context.Context, idToken string) (*infra.FirebaseToken, error) {
	v.seen = append(v.seen, idToken)
	return v.token, v.err
}

type caller struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
}

func whoAmI(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(verifier))
	r.GET("/api/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, caller{UID: middleware.CallerUID(c), Role: middleware.CallerRole(c)})
	})
	return r
}

func TestAuth(t *testing.T) {
	riderToken := &infra.FirebaseToken{UID: "rider-koronadal-7", Claims: map[string]interface{}{}}
	operatorToken := &infra.FirebaseToken{UID: "ops-desk-1", Claims: map[string]interface{}{"role": "operator"}}

	cases := []struct {
		name       string
		header     string
		verifier   *recordingVerifier
		wantCode   int
		wantCaller caller
		wantSeen   string
	}{
		{name: "no header", verifier: &recordingVerifier{token: riderToken}, wantCode: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic cmlkZXI6cHc=", verifier: &recordingVerifier{token: riderToken}, wantCode: http.StatusUnauthorized},
		{name: "lowercase scheme", header: "bearer abc", verifier: &recordingVerifier{token: riderToken}, wantCode: http.StatusUnauthorized},
		{name: "blank token", header: "Bearer \t ", verifier: &recordingVerifier{token: riderToken}, wantCode: http.StatusUnauthorized},
		{
			name:     "expired token",
			header:   "Bearer expired",
			verifier: &recordingVerifier{err: errors.New("ID token has expired")},
			wantCode: http.StatusUnauthorized,
			wantSeen: "expired",
		},
		{
			name:     "verifier returns nothing",
			header:   "Bearer ghost",
			verifier: &recordingVerifier{},
			wantCode: http.StatusUnauthorized,
			wantSeen: "ghost",
		},
		{
			name:       "rider without role claim",
			header:     "Bearer  rider-id-token ",
			verifier:   &recordingVerifier{token: riderToken},
			wantCode:   http.StatusOK,
			wantCaller: caller{UID: "rider-koronadal-7"},
			wantSeen:   "rider-id-token",
		},
		{
			name:       "operator claim",
			header:     "Bearer ops-id-token",
			verifier:   &recordingVerifier{token: operatorToken},
			wantCode:   http.StatusOK,
			wantCaller: caller{UID: "ops-desk-1", Role: "operator"},
			wantSeen:   "ops-id-token",
		},
		{
			name:       "non-string role claim ignored",
			header:     "Bearer odd",
			verifier:   &recordingVerifier{token: &infra.FirebaseToken{UID: "rider-2", Claims: map[string]interface{}{"role": true}}},
			wantCode:   http.StatusOK,
			wantCaller: caller{UID: "rider-2"},
			wantSeen:   "odd",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			whoAmI(tc.verifier).ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.wantCode, w.Body.String())
			}
			switch {
			case tc.wantSeen == "" && len(tc.verifier.seen) != 0:
				t.Errorf("verifier called with %q for a malformed header", tc.verifier.seen)
			case tc.wantSeen != "" && (len(tc.verifier.seen) != 1 || tc.verifier.seen[0] != tc.wantSeen):
				t.Errorf("verifier saw %q, want %q", tc.verifier.seen, tc.wantSeen)
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			var got caller
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if got != tc.wantCaller {
				t.Errorf("caller = %+v, want %+v", got, tc.wantCaller)
			}
		})
	}
}

func TestRequireRole_OperatorOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for role, want := range map[string]int{
		"operator": http.StatusOK,
		"rider":    http.StatusForbidden,
		"Operator": http.StatusForbidden,
		"":         http.StatusForbidden,
	} {
		claims := map[string]interface{}{}
		if role != "" {
			claims["role"] = role
		}
		r := gin.New()
		r.Use(middleware.Auth(&recordingVerifier{token: &infra.FirebaseToken{UID: "u-1", Claims: claims}}))
		r.GET("/api/trips/live", middleware.RequireRole("operator"), func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/api/trips/live", nil)
		req.Header.Set("Authorization", "Bearer t")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("role %q: status = %d, want %d", role, w.Code, want)
		}
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal error") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}
