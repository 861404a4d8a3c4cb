package handlers

import (
	"net/http"
	"strings"
	"testing"

	"glowup-backend/utils"
)

func TestSignupSuccess(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(jsonRequest("POST", "/api/auth/signup", map[string]string{
		"name":     "Asha Rao",
		"email":    "asha@test.com",
		"password": "password123",
		"phone":    "9876543210",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	token, _ := resp["token"].(string)
	claims, err := utils.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected a valid token, got %v", err)
	}
	if claims.DeviceID != testDevice {
		t.Errorf("expected token bound to %s, got %s", testDevice, claims.DeviceID)
	}

	user := resp["user"].(map[string]interface{})
	if user["email"] != "asha@test.com" {
		t.Errorf("expected email asha@test.com, got %v", user["email"])
	}
	if user["password"] != "" {
		t.Errorf("expected password hidden, got %v", user["password"])
	}
	if user["profileCompleted"] != false {
		t.Errorf("expected profileCompleted false, got %v", user["profileCompleted"])
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.signupUser(t, "existing@test.com")

	w := ts.do(jsonRequest("POST", "/api/auth/signup", map[string]string{
		"name":     "Duplicate User",
		"email":    "existing@test.com",
		"password": "password123",
	}))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["error"] != "Email already registered" {
		t.Errorf("expected 'Email already registered', got %v", resp["error"])
	}
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"name": "A", "password": "password123"}},
		{"bad email", map[string]string{"name": "A", "email": "nope", "password": "password123"}},
		{"short password", map[string]string{"name": "A", "email": "a@test.com", "password": "123"}},
		{"missing name", map[string]string{"email": "a@test.com", "password": "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(jsonRequest("POST", "/api/auth/signup", tt.body))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	ts := newTestServer(t)
	ts.signupUser(t, "login@test.com")

	w := ts.do(jsonRequest("POST", "/api/auth/login", map[string]string{
		"email":    "login@test.com",
		"password": "password123",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["token"] == nil || resp["token"] == "" {
		t.Error("expected token in response")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.signupUser(t, "login@test.com")

	for _, body := range []map[string]string{
		{"email": "login@test.com", "password": "wrongpassword"},
		{"email": "nobody@test.com", "password": "password123"},
	} {
		w := ts.do(jsonRequest("POST", "/api/auth/login", body))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
		}
		if resp := parseResponse(w); resp["error"] != "Invalid credentials" {
			t.Errorf("expected 'Invalid credentials', got %v", resp["error"])
		}
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupUser(t, "logout@test.com")

	w := ts.do(authRequest("POST", "/api/auth/logout", token, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.do(authRequest("GET", "/api/auth/me", token, nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected token rejected after logout, got %d", w.Code)
	}
}

func TestGetProfileIncludesWallet(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupUser(t, "me@test.com")

	w := ts.do(authRequest("GET", "/api/auth/me", token, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	wallet := parseResponse(w)["wallet"].(map[string]interface{})
	if wallet["totalCoins"] != float64(0) {
		t.Errorf("expected empty wallet, got %v", wallet["totalCoins"])
	}
}

func TestSetRoleReissuesToken(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupUser(t, "artist@test.com")

	w := ts.do(authRequest("PUT", "/api/auth/role", token, map[string]string{"role": "artist"}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	claims, err := utils.ValidateToken(parseResponse(w)["token"].(string))
	if err != nil || claims.Role != "artist" {
		t.Fatalf("expected reissued token with role artist, got %+v (%v)", claims, err)
	}

	w = ts.do(authRequest("PUT", "/api/auth/role", token, map[string]string{"role": "doctor"}))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on reassignment, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.do(authRequest("PUT", "/api/auth/role", token, map[string]string{"role": "admin"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown role, got %d", w.Code)
	}
}

func TestUpdateProfileUploadsPhoto(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupUser(t, "photo@test.com")

	w := ts.do(authRequest("PATCH", "/api/profile", token, map[string]string{
		"photo":    testPhoto,
		"skinType": "oily",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	profile := parseResponse(w)["profile"].(map[string]interface{})
	first, _ := profile["photo"].(string)
	if !strings.HasPrefix(first, "https://storage.googleapis.com/test-bucket/profiles/") {
		t.Fatalf("expected uploaded photo URL, got %q", first)
	}
	if profile["skinType"] != "oily" {
		t.Errorf("expected skinType oily, got %v", profile["skinType"])
	}

	// A partial update keeps the other fields and replaces the old object.
	ts.storage.UploadImageFn = func(folder, name string, img utils.DataURL) (string, error) {
		return "https://storage.googleapis.com/test-bucket/profiles/second.png", nil
	}
	w = ts.do(authRequest("PATCH", "/api/profile", token, map[string]string{"photo": testPhoto}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	profile = parseResponse(w)["profile"].(map[string]interface{})
	if profile["skinType"] != "oily" {
		t.Errorf("expected skinType kept, got %v", profile["skinType"])
	}
	deletes := ts.storage.deletes()
	if len(deletes) != 1 || !strings.HasPrefix(first, "https://storage.googleapis.com/test-bucket/"+deletes[0]) {
		t.Errorf("expected old photo deleted, got %v", deletes)
	}
}

func TestUpdateProfileFailureDeletesUpload(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupUser(t, "photo@test.com")

	ts.failWrites.Store(true)
	w := ts.do(authRequest("PATCH", "/api/profile", token, map[string]string{"photo": testPhoto}))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d: %s", w.Code, w.Body.String())
	}
	if len(ts.storage.UploadCalls) != 1 {
		t.Fatalf("expected 1 upload, got %v", ts.storage.UploadCalls)
	}
	deletes := ts.storage.deletes()
	if len(deletes) != 1 || !strings.HasPrefix(deletes[0], "profiles/") {
		t.Errorf("expected the unsaved upload deleted, got %v", deletes)
	}
}

func TestUpdateProfileRejectsBadPhoto(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupUser(t, "photo@test.com")

	w := ts.do(authRequest("PATCH", "/api/profile", token, map[string]string{
		"photo": "data:application/pdf;base64,JVBERi0=",
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCompleteProfile(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupUser(t, "setup@test.com")

	w := ts.do(authRequest("POST", "/api/profile/complete", token, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["profileCompleted"] != true {
		t.Errorf("expected profileCompleted true, got %v", resp["profileCompleted"])
	}
}

func TestGetStateHidesPassword(t *testing.T) {
	ts := newTestServer(t)
	token := ts.signupUser(t, "state@test.com")

	w := ts.do(authRequest("GET", "/api/state", token, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["isAuthenticated"] != true {
		t.Errorf("expected isAuthenticated true")
	}
	if user := resp["user"].(map[string]interface{}); user["password"] != "" {
		t.Errorf("expected password hidden, got %v", user["password"])
	}
}
