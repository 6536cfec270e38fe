package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	serverURL     = "http://localhost:8080/mcp"
	numSessions   = 6  // Create 6 independent MCP sessions
	numConcurrent = 10 // Run 10 concurrent tool calls across them
)

type TestResult struct {
	SessionID string
	CallNum   int
	Success   bool
	Duration  time.Duration
	Error     error
}

func main() {
	log.Println("🧪 Multi-Session MCP Transport Test")
	log.Println("===================================")

	ctx := context.Background()

	// Phase 1: Create multiple sessions
	log.Printf("\n📋 Phase 1: Creating %d sessions...", numSessions)
	sessions := createMultipleSessions(ctx, numSessions)
	log.Printf("✅ Created %d sessions", len(sessions))
	for i, sid := range sessions {
		log.Printf("  Session %d: %s", i+1, sid)
	}

	// Phase 2: Test concurrent tool calls
	log.Printf("\n📋 Phase 2: Running %d concurrent health-check calls across sessions...", numConcurrent)
	results := executeConcurrentCalls(ctx, sessions, numConcurrent)

	// Phase 3: Analyze results
	log.Println("\n📋 Phase 3: Analyzing results...")
	analyzeResults(results)

	// Phase 4: Terminate every session and verify ids are dead
	log.Println("\n📋 Phase 4: Terminating sessions...")
	terminateSessions(ctx, sessions)

	log.Println("\n✅ Test complete")
}

func createMultipleSessions(ctx context.Context, n int) []string {
	sessions := make([]string, 0, n)
	for i := 0; i < n; i++ {
		body := map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"method":  "initialize",
			"params": map[string]any{
				"protocolVersion": "2025-06-18",
				"capabilities":    map[string]any{},
				"clientInfo": map[string]any{
					"name":    "multi-session-test",
					"version": "1.0",
				},
			},
		}
		resp, err := postJSON(ctx, body, "")
		if err != nil {
			log.Fatalf("Failed to initialize session %d: %v", i+1, err)
		}
		resp.Body.Close()
		sid := resp.Header.Get("Mcp-Session-Id")
		if sid == "" {
			log.Fatalf("Session %d: no Mcp-Session-Id header in initialize response", i+1)
		}
		sessions = append(sessions, sid)
	}
	return sessions
}

func executeConcurrentCalls(ctx context.Context, sessions []string, n int) []TestResult {
	results := make([]TestResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(callNum int) {
			defer wg.Done()
			sid := sessions[callNum%len(sessions)]
			started := time.Now()
			err := callTool(ctx, sid, "health-check", map[string]any{})
			results[callNum] = TestResult{
				SessionID: sid,
				CallNum:   callNum,
				Success:   err == nil,
				Duration:  time.Since(started),
				Error:     err,
			}
		}(i)
	}
	wg.Wait()
	return results
}

func analyzeResults(results []TestResult) {
	var succeeded, failed int
	var total time.Duration
	perSession := map[string]int{}
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			failed++
			log.Printf("  ❌ Call %d on session %s failed: %v", r.CallNum, r.SessionID, r.Error)
		}
		total += r.Duration
		perSession[r.SessionID]++
	}
	log.Printf("  Succeeded: %d, Failed: %d", succeeded, failed)
	if len(results) > 0 {
		log.Printf("  Average duration: %v", total/time.Duration(len(results)))
	}
	log.Println("  Calls per session:")
	for sid, count := range perSession {
		log.Printf("    %s: %d", sid, count)
	}
}

func terminateSessions(ctx context.Context, sessions []string) {
	for _, sid := range sessions {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, serverURL, nil)
		if err != nil {
			log.Printf("  ❌ Session %s: %v", sid, err)
			continue
		}
		req.Header.Set("Mcp-Session-Id", sid)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Printf("  ❌ Session %s: %v", sid, err)
			continue
		}
		resp.Body.Close()

		// A terminated id must be rejected afterwards.
		if err := callTool(ctx, sid, "health-check", map[string]any{}); err == nil {
			log.Printf("  ❌ Session %s still accepts calls after termination", sid)
		} else {
			log.Printf("  ✅ Session %s terminated", sid)
		}
	}
}

func callTool(ctx context.Context, sessionID, name string, args map[string]any) error {
	body := map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	}
	resp, err := postJSON(ctx, body, sessionID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("tool call returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func postJSON(ctx context.Context, body map[string]any, sessionID string) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}
	return http.DefaultClient.Do(req)
}
