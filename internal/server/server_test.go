package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tsoares/amigo-secreto/internal/auth"
	"github.com/tsoares/amigo-secreto/internal/service"
	"github.com/tsoares/amigo-secreto/internal/storage/jsonfile"
)

// setupTestServer wires a full stack (JSON store, service, router) on a
// temp data file and returns the test server base URL.
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := jsonfile.New(filepath.Join(t.TempDir(), "groups.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := service.NewGroupService(store, jwtManager)

	server := httptest.NewServer(New(svc, jwtManager))
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

// doJSON sends a JSON request and decodes the JSON response into out (which
// may be nil). The admin token is attached as a Bearer token when non-empty.
func doJSON(t *testing.T, method, url, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func createGroup(t *testing.T, baseURL string, name string, participants []string) CreateGroupResponse {
	t.Helper()

	var created CreateGroupResponse
	status := doJSON(t, http.MethodPost, baseURL+"/api/groups", "",
		CreateGroupRequest{Name: name, Participants: participants}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create group: expected 201, got %d", status)
	}
	return created
}

func TestCreateGroupEndpoint(t *testing.T) {
	server := setupTestServer(t)

	created := createGroup(t, server.URL, "Natal 2026", []string{"Ana", "Bruno", "Clara"})

	if created.Group.ID == "" {
		t.Error("expected a group ID")
	}
	if created.AdminToken == "" {
		t.Error("expected an admin token")
	}
	if created.SharePath != "/api/groups/"+created.Group.ID {
		t.Errorf("unexpected share path %q", created.SharePath)
	}
	if created.Group.Total != 3 || created.Group.ConfirmedCount != 0 {
		t.Errorf("unexpected counts: %+v", created.Group)
	}

	t.Run("invalid bodies are rejected", func(t *testing.T) {
		cases := []CreateGroupRequest{
			{Name: "", Participants: []string{"Ana", "Bruno"}},
			{Name: "g", Participants: []string{"Ana"}},
			{Name: "g", Participants: []string{"Ana", ""}},
		}
		for _, body := range cases {
			if status := doJSON(t, http.MethodPost, server.URL+"/api/groups", "", body, nil); status != http.StatusBadRequest {
				t.Errorf("body %+v: expected 400, got %d", body, status)
			}
		}
	})
}

func TestGroupStatusEndpoint(t *testing.T) {
	server := setupTestServer(t)
	created := createGroup(t, server.URL, "g", []string{"Ana", "Bruno"})
	groupURL := server.URL + "/api/groups/" + created.Group.ID

	var group GroupResponse
	if status := doJSON(t, http.MethodGet, groupURL, "", nil, &group); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if group.Name != "g" || group.Drawn {
		t.Errorf("unexpected group view: %+v", group)
	}

	t.Run("unknown group is 404", func(t *testing.T) {
		if status := doJSON(t, http.MethodGet, server.URL+"/api/groups/nope", "", nil, nil); status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", status)
		}
	})
}

func TestConfirmEndpoint(t *testing.T) {
	server := setupTestServer(t)
	created := createGroup(t, server.URL, "g", []string{"Ana", "Bruno"})
	confirmURL := server.URL + "/api/groups/" + created.Group.ID + "/confirm"

	var group GroupResponse
	status := doJSON(t, http.MethodPost, confirmURL, "",
		ConfirmRequest{Participant: "Ana", Password: "senha-ana"}, &group)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if group.ConfirmedCount != 1 {
		t.Errorf("expected 1 confirmed, got %d", group.ConfirmedCount)
	}

	t.Run("double confirmation is 409", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, confirmURL, "",
			ConfirmRequest{Participant: "Ana", Password: "outra"}, nil)
		if status != http.StatusConflict {
			t.Errorf("expected 409, got %d", status)
		}
	})

	t.Run("unknown participant is 404", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, confirmURL, "",
			ConfirmRequest{Participant: "Intruso", Password: "senha"}, nil)
		if status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", status)
		}
	})

	t.Run("weak password is 400", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, confirmURL, "",
			ConfirmRequest{Participant: "Bruno", Password: "ab"}, nil)
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
	})
}

func TestDrawEndpoint(t *testing.T) {
	server := setupTestServer(t)
	created := createGroup(t, server.URL, "g", []string{"Ana", "Bruno", "Clara"})
	base := server.URL + "/api/groups/" + created.Group.ID

	t.Run("requires the admin token", func(t *testing.T) {
		if status := doJSON(t, http.MethodPost, base+"/draw", "", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("expected 401 without token, got %d", status)
		}
		if status := doJSON(t, http.MethodPost, base+"/draw", "garbage", nil, nil); status != http.StatusUnauthorized {
			t.Errorf("expected 401 with bad token, got %d", status)
		}
	})

	t.Run("token for another group is 403", func(t *testing.T) {
		other := createGroup(t, server.URL, "other", []string{"X", "Y"})
		if status := doJSON(t, http.MethodPost, base+"/draw", other.AdminToken, nil, nil); status != http.StatusForbidden {
			t.Errorf("expected 403, got %d", status)
		}
	})

	t.Run("rejected before everyone confirmed", func(t *testing.T) {
		if status := doJSON(t, http.MethodPost, base+"/draw", created.AdminToken, nil, nil); status != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", status)
		}
	})

	for _, p := range []string{"Ana", "Bruno", "Clara"} {
		status := doJSON(t, http.MethodPost, base+"/confirm", "",
			ConfirmRequest{Participant: p, Password: "senha-" + p}, nil)
		if status != http.StatusOK {
			t.Fatalf("confirm %s: expected 200, got %d", p, status)
		}
	}

	var drawn GroupResponse
	if status := doJSON(t, http.MethodPost, base+"/draw", created.AdminToken, nil, &drawn); status != http.StatusOK {
		t.Fatalf("draw: expected 200, got %d", status)
	}
	if !drawn.Drawn {
		t.Error("expected drawn group view")
	}

	t.Run("second draw is 409", func(t *testing.T) {
		if status := doJSON(t, http.MethodPost, base+"/draw", created.AdminToken, nil, nil); status != http.StatusConflict {
			t.Errorf("expected 409, got %d", status)
		}
	})
}

func TestRevealEndpoint(t *testing.T) {
	server := setupTestServer(t)
	participants := []string{"Ana", "Bruno", "Clara", "Diego"}
	created := createGroup(t, server.URL, "g", participants)
	base := server.URL + "/api/groups/" + created.Group.ID

	t.Run("rejected before the draw", func(t *testing.T) {
		doJSON(t, http.MethodPost, base+"/confirm", "",
			ConfirmRequest{Participant: "Ana", Password: "senha-Ana"}, nil)
		status := doJSON(t, http.MethodPost, base+"/reveal", "",
			RevealRequest{Participant: "Ana", Password: "senha-Ana"}, nil)
		if status != http.StatusConflict {
			t.Errorf("expected 409, got %d", status)
		}
	})

	for _, p := range participants[1:] {
		doJSON(t, http.MethodPost, base+"/confirm", "",
			ConfirmRequest{Participant: p, Password: "senha-" + p}, nil)
	}
	if status := doJSON(t, http.MethodPost, base+"/draw", created.AdminToken, nil, nil); status != http.StatusOK {
		t.Fatalf("draw failed with status %d", status)
	}

	t.Run("every participant gets a valid non-self match", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, p := range participants {
			var reveal RevealResponse
			status := doJSON(t, http.MethodPost, base+"/reveal", "",
				RevealRequest{Participant: p, Password: "senha-" + p}, &reveal)
			if status != http.StatusOK {
				t.Fatalf("reveal %s: expected 200, got %d", p, status)
			}
			if reveal.SecretFriend == p {
				t.Errorf("participant %q drew themselves", p)
			}
			if seen[reveal.SecretFriend] {
				t.Errorf("participant %q assigned twice", reveal.SecretFriend)
			}
			seen[reveal.SecretFriend] = true
		}
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		status := doJSON(t, http.MethodPost, base+"/reveal", "",
			RevealRequest{Participant: "Ana", Password: "errada"}, nil)
		if status != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", status)
		}
	})

	t.Run("status view never leaks assignments", func(t *testing.T) {
		resp, err := http.Get(base)
		if err != nil {
			t.Fatalf("GET group failed: %v", err)
		}
		defer resp.Body.Close()

		var raw map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			t.Fatalf("failed to decode group view: %v", err)
		}
		if _, leaked := raw["assignments"]; leaked {
			t.Error("group view exposes assignments")
		}
	})
}

func TestDeleteGroupEndpoint(t *testing.T) {
	server := setupTestServer(t)
	created := createGroup(t, server.URL, "g", []string{"Ana", "Bruno"})
	base := server.URL + "/api/groups/" + created.Group.ID

	if status := doJSON(t, http.MethodDelete, base, "", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", status)
	}

	if status := doJSON(t, http.MethodDelete, base, created.AdminToken, nil, nil); status != http.StatusNoContent {
		t.Errorf("expected 204, got %d", status)
	}

	if status := doJSON(t, http.MethodGet, base, "", nil, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", status)
	}
}

func TestHealthz(t *testing.T) {
	server := setupTestServer(t)
	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
