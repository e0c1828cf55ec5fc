package client

import "context"

// DebugService covers the diagnostic passthroughs. Nothing here is cached
// and nothing here fails: every method degrades to an error-shaped report.
type DebugService struct {
	client *Client
}

// Session reports the backend's view of the current session
func (s *DebugService) Session(ctx context.Context) DebugReport {
	return s.report(ctx, "/debug/session")
}

// Cookies reports the cookies the backend received
func (s *DebugService) Cookies(ctx context.Context) DebugReport {
	return s.report(ctx, "/debug/cookies")
}

// DB reports backend database connectivity
func (s *DebugService) DB(ctx context.Context) DebugReport {
	return s.report(ctx, "/debug/db")
}

func (s *DebugService) report(ctx context.Context, endpoint string) DebugReport {
	payload, err := s.client.do(ctx, endpoint, RequestOptions{NoCache: true, Retries: 1})
	if err != nil {
		return DebugReport{OK: false, Error: err.Error()}
	}
	return DebugReport{OK: true, Data: payload}
}

// Health probes the backend liveness endpoint
func (c *Client) Health(ctx context.Context) DebugReport {
	return c.Debug.report(ctx, "/health")
}

// Ping probes the backend smoke-test endpoint
func (c *Client) Ping(ctx context.Context) DebugReport {
	return c.Debug.report(ctx, "/test")
}
