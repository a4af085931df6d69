package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

const apiBase = "http://localhost:5000"

// Each run works with its own identities so reruns against the same database
// don't trip the duplicate-booking check.
var (
	runID       = fmt.Sprintf("%d", time.Now().UnixNano())
	sellerEmail = fmt.Sprintf("seller-%s@example.com", runID)
	buyerEmail  = fmt.Sprintf("buyer-%s@example.com", runID)
)

func serverRunning(t *testing.T) {
	t.Helper()
	resp, err := http.Get(apiBase + "/")
	if err != nil {
		t.Skipf("API server is not running at %s: %v", apiBase, err)
	}
	resp.Body.Close()
}

func postJSON(t *testing.T, path string, payload interface{}) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := http.Post(apiBase+path, "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func doRequest(t *testing.T, method, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, apiBase+path, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestAPIEndpoints(t *testing.T) {
	serverRunning(t)

	t.Run("Liveness", func(t *testing.T) {
		resp, err := http.Get(apiBase + "/")
		if err != nil {
			t.Fatalf("Failed to reach root: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if string(body) != "server is running" {
			t.Errorf("Unexpected liveness body: %q", string(body))
		}
	})

	t.Run("Create Users", func(t *testing.T) {
		for _, user := range []map[string]interface{}{
			{"email": sellerEmail, "role": "seller", "name": "Test Seller"},
			{"email": buyerEmail, "role": "buyer", "name": "Test Buyer"},
		} {
			resp := postJSON(t, "/users", user)
			var ack struct {
				Acknowledged bool        `json:"acknowledged"`
				InsertedID   interface{} `json:"insertedId"`
			}
			decodeInto(t, resp, &ack)
			if !ack.Acknowledged || ack.InsertedID == nil {
				t.Fatalf("User insert not acknowledged: %+v", ack)
			}
		}
	})

	t.Run("Role Flags", func(t *testing.T) {
		var sellerFlag struct {
			IsSeller bool `json:"isSeller"`
		}
		decodeInto(t, doRequest(t, "GET", "/users/seller/"+sellerEmail, ""), &sellerFlag)
		if !sellerFlag.IsSeller {
			t.Error("Expected isSeller true for seller email")
		}

		var adminFlag struct {
			IsAdmin bool `json:"isAdmin"`
		}
		decodeInto(t, doRequest(t, "GET", "/users/admin/"+sellerEmail, ""), &adminFlag)
		if adminFlag.IsAdmin {
			t.Error("Expected isAdmin false for seller email")
		}
	})

	var sellerToken, buyerToken string
	t.Run("Issue Tokens", func(t *testing.T) {
		var out struct {
			AccessToken string `json:"accessToken"`
		}
		decodeInto(t, doRequest(t, "GET", "/jwt?email="+sellerEmail, ""), &out)
		if out.AccessToken == "" {
			t.Fatal("No access token for seller")
		}
		sellerToken = out.AccessToken

		decodeInto(t, doRequest(t, "GET", "/jwt?email="+buyerEmail, ""), &out)
		if out.AccessToken == "" {
			t.Fatal("No access token for buyer")
		}
		buyerToken = out.AccessToken
	})

	t.Run("Issue Token Unknown Email", func(t *testing.T) {
		resp := doRequest(t, "GET", "/jwt?email=nobody-"+runID+"@example.com", "")
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403 for unknown email, got %d", resp.StatusCode)
		}
		var out struct {
			AccessToken string `json:"accessToken"`
		}
		decodeInto(t, resp, &out)
		if out.AccessToken != "" {
			t.Error("Expected empty accessToken for unknown email")
		}
	})

	var postID string
	t.Run("Create Sell Post", func(t *testing.T) {
		resp := postJSON(t, "/sellpost", map[string]interface{}{
			"email":       sellerEmail,
			"category_id": "1",
			"productName": "Old Lathe",
			"price":       120,
			"description": "barely used",
		})
		var ack struct {
			Acknowledged bool   `json:"acknowledged"`
			InsertedID   string `json:"insertedId"`
		}
		decodeInto(t, resp, &ack)
		if !ack.Acknowledged || ack.InsertedID == "" {
			t.Fatalf("Sell post insert not acknowledged: %+v", ack)
		}
		postID = ack.InsertedID
	})

	t.Run("Sell Post Round Trip", func(t *testing.T) {
		if postID == "" {
			t.Skip("Skipping test due to no post ID")
		}
		var post map[string]interface{}
		decodeInto(t, doRequest(t, "GET", "/sellpost/"+postID, ""), &post)
		if post["email"] != sellerEmail || post["productName"] != "Old Lathe" {
			t.Errorf("Round trip mismatch: %+v", post)
		}
	})

	t.Run("List Posts By Category", func(t *testing.T) {
		var posts []map[string]interface{}
		decodeInto(t, doRequest(t, "GET", "/category/1", ""), &posts)
		found := false
		for _, p := range posts {
			if p["email"] == sellerEmail {
				found = true
			}
		}
		if !found {
			t.Error("Expected the created post under category 1")
		}
	})

	t.Run("Seller Posts Requires Auth", func(t *testing.T) {
		resp := doRequest(t, "GET", "/sellposts?email="+sellerEmail, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
		}
	})

	t.Run("Seller Posts Rejects Buyer", func(t *testing.T) {
		if buyerToken == "" {
			t.Skip("Skipping test due to no buyer token")
		}
		resp := doRequest(t, "GET", "/sellposts?email="+buyerEmail, buyerToken)
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403 for buyer, got %d", resp.StatusCode)
		}
	})

	t.Run("Seller Posts Rejects Email Mismatch", func(t *testing.T) {
		if sellerToken == "" {
			t.Skip("Skipping test due to no seller token")
		}
		resp := doRequest(t, "GET", "/sellposts?email="+buyerEmail, sellerToken)
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403 for mismatched email, got %d", resp.StatusCode)
		}
	})

	t.Run("Seller Posts Lists Own", func(t *testing.T) {
		if sellerToken == "" || postID == "" {
			t.Skip("Skipping test due to no seller token or post ID")
		}
		var posts []map[string]interface{}
		decodeInto(t, doRequest(t, "GET", "/sellposts?email="+sellerEmail, sellerToken), &posts)
		if len(posts) == 0 {
			t.Error("Expected at least one post for the seller")
		}
	})

	t.Run("Bookings Duplicate Check", func(t *testing.T) {
		booking := map[string]interface{}{
			"productName": "Old Lathe",
			"price":       120,
			"name":        "Test Buyer " + runID,
			"email":       buyerEmail,
			"location":    "Dhanmondi",
			"phone":       "01700000000",
		}

		var first struct {
			Acknowledged bool   `json:"acknowledged"`
			InsertedID   string `json:"insertedId"`
		}
		decodeInto(t, postJSON(t, "/bookings", booking), &first)
		if !first.Acknowledged {
			t.Fatalf("First booking not acknowledged: %+v", first)
		}

		var second struct {
			Acknowledged bool   `json:"acknowledged"`
			Message      string `json:"message"`
		}
		decodeInto(t, postJSON(t, "/bookings", booking), &second)
		if second.Acknowledged {
			t.Error("Expected duplicate booking to be rejected")
		}
		if second.Message == "" {
			t.Error("Expected a message for duplicate booking")
		}

		// Changing any one field of the tuple defeats the check.
		booking["location"] = "Gulshan"
		var third struct {
			Acknowledged bool `json:"acknowledged"`
		}
		decodeInto(t, postJSON(t, "/bookings", booking), &third)
		if !third.Acknowledged {
			t.Error("Expected booking with a changed field to succeed")
		}

		t.Run("Delete Requires Auth", func(t *testing.T) {
			resp := doRequest(t, "DELETE", "/bookings/"+first.InsertedID, "")
			resp.Body.Close()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
			}
		})

		t.Run("Delete With Token", func(t *testing.T) {
			if buyerToken == "" {
				t.Skip("Skipping test due to no buyer token")
			}
			var ack struct {
				Acknowledged bool  `json:"acknowledged"`
				DeletedCount int64 `json:"deletedCount"`
			}
			decodeInto(t, doRequest(t, "DELETE", "/bookings/"+first.InsertedID, buyerToken), &ack)
			if ack.DeletedCount != 1 {
				t.Errorf("Expected deletedCount 1, got %d", ack.DeletedCount)
			}
		})
	})

	t.Run("Delete Sell Post", func(t *testing.T) {
		if postID == "" {
			t.Skip("Skipping test due to no post ID")
		}
		var ack struct {
			Acknowledged bool  `json:"acknowledged"`
			DeletedCount int64 `json:"deletedCount"`
		}
		decodeInto(t, doRequest(t, "DELETE", "/sellpost/"+postID, ""), &ack)
		if ack.DeletedCount != 1 {
			t.Errorf("Expected deletedCount 1, got %d", ack.DeletedCount)
		}

		// Deleting again is acknowledged with zero deletions, not an error.
		decodeInto(t, doRequest(t, "DELETE", "/sellpost/"+postID, ""), &ack)
		if ack.DeletedCount != 0 {
			t.Errorf("Expected deletedCount 0 on second delete, got %d", ack.DeletedCount)
		}
	})

	t.Run("Malformed ID", func(t *testing.T) {
		resp := doRequest(t, "DELETE", "/sellpost/not-a-hex-id", "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400 for malformed id, got %d", resp.StatusCode)
		}
	})
}
